// Package season pins the Ramadan date range the calendar and the
// holiday handling revolve around.
package season

import "time"

// KadirNight is the 1-based Ramadan day whose night is Laylat al-Qadr.
const KadirNight = 27

// Season is one Ramadan: its first fasting day, the last calendar day
// shown (Eid included) and the first day of Ramazan Bayramı.
type Season struct {
	Start  time.Time
	End    time.Time
	Bayram time.Time
}

// Ramadan2026 returns the 2026 season in the given location.
func Ramadan2026(loc *time.Location) Season {
	return Season{
		Start:  time.Date(2026, time.February, 18, 0, 0, 0, 0, loc),
		End:    time.Date(2026, time.March, 20, 0, 0, 0, 0, loc),
		Bayram: time.Date(2026, time.March, 20, 0, 0, 0, 0, loc),
	}
}

// Day returns the 1-based Ramadan day t falls on, or 0 outside the season.
func (s Season) Day(t time.Time) int {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if day.Before(s.Start) || day.After(s.End) {
		return 0
	}
	return int(day.Sub(s.Start).Hours()/24) + 1
}

// IsBayram reports whether t falls on the first day of Ramazan Bayramı.
// On that day the countdown switches to local midnight instead of iftar.
func (s Season) IsBayram(t time.Time) bool {
	return t.Year() == s.Bayram.Year() && t.YearDay() == s.Bayram.YearDay()
}

// IsKadirNight reports whether t is the day of Laylat al-Qadr.
func (s Season) IsKadirNight(t time.Time) bool {
	return s.Day(t) == KadirNight
}
