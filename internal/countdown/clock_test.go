package countdown

import (
	"testing"
	"time"

	"github.com/vakit-app/vakit/internal/model"
)

func TestParseClock(t *testing.T) {
	day := time.Date(2026, time.February, 20, 0, 0, 0, 0, trt)

	cases := []struct {
		raw     string
		hour    int
		min     int
		wantErr bool
	}{
		{"18:13", 18, 13, false},
		{"18:13 (TRT)", 18, 13, false},
		{"05:07", 5, 7, false},
		{" 06:45 ", 6, 45, false},
		{"25:00", 0, 0, true},
		{"12:75", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, c := range cases {
		got, err := ParseClock(c.raw, day, trt)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %v", c.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", c.raw, err)
			continue
		}
		if got.Hour() != c.hour || got.Minute() != c.min {
			t.Errorf("ParseClock(%q) = %v, want %02d:%02d", c.raw, got, c.hour, c.min)
		}
		if got.Year() != day.Year() || got.YearDay() != day.YearDay() {
			t.Errorf("ParseClock(%q) landed on wrong day: %v", c.raw, got)
		}
	}
}

func TestMidnight(t *testing.T) {
	now := time.Date(2026, time.March, 20, 14, 30, 12, 0, trt)
	got := Midnight(now)
	want := time.Date(2026, time.March, 21, 0, 0, 0, 0, trt)
	if !got.Equal(want) {
		t.Fatalf("Midnight(%v) = %v, want %v", now, got, want)
	}
}

func TestCurrentPrayer(t *testing.T) {
	times := model.PrayerTimes{
		Fajr: "05:15", Sunrise: "06:45", Dhuhr: "12:20",
		Asr: "15:10", Maghrib: "18:30", Isha: "19:55",
	}
	day := time.Date(2026, time.February, 20, 0, 0, 0, 0, trt)

	cases := []struct {
		now  time.Time
		want string
	}{
		{at(day, 4, 0, 0), ""},
		{at(day, 5, 15, 0), "fajr"},
		{at(day, 13, 0, 0), "dhuhr"},
		{at(day, 18, 30, 0), "maghrib"},
		{at(day, 23, 0, 0), "isha"},
	}
	for _, c := range cases {
		if got := CurrentPrayer(times, c.now, trt); got != c.want {
			t.Errorf("CurrentPrayer at %v = %q, want %q", c.now, got, c.want)
		}
	}
}

func TestBayramPrayerTime(t *testing.T) {
	// Ankara: sunrise 06:45 puts the Eid prayer at 07:23.
	if got := BayramPrayerTime("06:45"); got != "07:23" {
		t.Fatalf("BayramPrayerTime(06:45) = %q, want 07:23", got)
	}
	if got := BayramPrayerTime("06:45 (TRT)"); got != "07:23" {
		t.Fatalf("BayramPrayerTime with suffix = %q, want 07:23", got)
	}
	if got := BayramPrayerTime("garbage"); got != "" {
		t.Fatalf("BayramPrayerTime(garbage) = %q, want empty", got)
	}
}
