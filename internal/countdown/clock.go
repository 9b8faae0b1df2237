package countdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/vakit-app/vakit/internal/model"
)

// ParseClock parses a wall-clock string like "18:13" or "18:13 (TRT)"
// into a time.Time on the given date in the given location. The provider
// sometimes appends a timezone suffix, which is stripped.
func ParseClock(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %q", raw)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, loc), nil
}

// Midnight returns the start of the next calendar day, used for the
// holiday countdown on the first day of Ramazan Bayramı.
func Midnight(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// CurrentPrayer returns the name of the prayer segment now falls in, or
// "" before the day's first instant. Order follows the nominal prayer order.
func CurrentPrayer(times model.PrayerTimes, now time.Time, loc *time.Location) string {
	order := []struct {
		name string
		raw  string
	}{
		{"fajr", times.Fajr},
		{"sunrise", times.Sunrise},
		{"dhuhr", times.Dhuhr},
		{"asr", times.Asr},
		{"maghrib", times.Maghrib},
		{"isha", times.Isha},
	}

	current := ""
	for _, p := range order {
		t, err := ParseClock(p.raw, now, loc)
		if err != nil {
			continue
		}
		if !now.Before(t) {
			current = p.name
		}
	}
	return current
}

// BayramPrayerTime derives the Eid prayer time from sunrise.
// The 38 minute offset tracks the Diyanet announcements for Ankara.
func BayramPrayerTime(sunrise string) string {
	var h, m int
	if _, err := fmt.Sscanf(strings.SplitN(sunrise, " ", 2)[0], "%d:%d", &h, &m); err != nil {
		return ""
	}
	total := h*60 + m + 38
	return fmt.Sprintf("%02d:%02d", total/60%24, total%60)
}
