// Package countdown resolves "now" against a day's prayer instants into
// the state the countdown display should show. Everything here is pure:
// the clock is always an explicit input.
package countdown

import "time"

// DefaultEzanWindow is the grace period after sunset during which the
// call to prayer is presumed to be sounding. During it the display shows
// a static congratulatory state instead of a countdown.
const DefaultEzanWindow = 4 * time.Minute

// fallbackToDawn is used when tomorrow's dawn instant is not supplied.
const fallbackToDawn = 12 * time.Hour

type Mode string

const (
	ModeIftar Mode = "iftar"
	ModeImsak Mode = "imsak"
)

// State is the transient countdown state, recomputed every tick and
// never persisted.
type State struct {
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Passed  bool `json:"passed"`
	Mode    Mode `json:"mode"`
}

// Resolve maps now against today's dawn and sunset instants.
// Priority order, first match wins:
//
//  1. before today's dawn (if supplied): counting down to sahur's end
//  2. before today's sunset: counting down to iftar
//  3. within [sunset, sunset+ezanWindow]: the "arrived" state
//  4. after the ezan window: counting down to tomorrow's dawn, or to
//     sunset+12h when tomorrowDawn is the zero time
//
// A zero todayDawn means the caller has no pre-dawn segment to offer;
// a non-positive ezanWindow falls back to DefaultEzanWindow.
func Resolve(now, todayDawn, todaySunset, tomorrowDawn time.Time, ezanWindow time.Duration) State {
	if ezanWindow <= 0 {
		ezanWindow = DefaultEzanWindow
	}

	if !todayDawn.IsZero() && now.Before(todayDawn) {
		return until(now, todayDawn, ModeImsak)
	}

	if now.Before(todaySunset) {
		return until(now, todaySunset, ModeIftar)
	}

	if !now.After(todaySunset.Add(ezanWindow)) {
		return State{Passed: true, Mode: ModeIftar}
	}

	target := tomorrowDawn
	if target.IsZero() {
		target = todaySunset.Add(fallbackToDawn)
	}
	return until(now, target, ModeImsak)
}

// until splits target-now into H/M/S by floor division at the
// 3600000/60000/1000 millisecond boundaries. A non-positive delta is
// clamped to zero; the branch logic should not produce one, but clock
// skew and DST anomalies can.
func until(now, target time.Time, mode Mode) State {
	ms := target.Sub(now).Milliseconds()
	if ms <= 0 {
		return State{Mode: mode}
	}
	return State{
		Hours:   int(ms / 3600000),
		Minutes: int(ms % 3600000 / 60000),
		Seconds: int(ms % 60000 / 1000),
		Mode:    mode,
	}
}
