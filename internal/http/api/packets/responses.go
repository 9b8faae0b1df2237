package packets

import (
	"github.com/vakit-app/vakit/internal/content"
	"github.com/vakit-app/vakit/internal/countdown"
	"github.com/vakit-app/vakit/internal/model"
	"github.com/vakit-app/vakit/internal/overpass"
)

// RegisterDeviceResponse carries the bearer token for later calls.
type RegisterDeviceResponse struct {
	DeviceID int    `json:"device_id"`
	Token    string `json:"token"`
}

// DailyTimesResponse is one day's times for a city.
type DailyTimesResponse struct {
	City          string            `json:"city"`
	Date          string            `json:"date"`
	Times         model.PrayerTimes `json:"times"`
	CurrentPrayer string            `json:"current_prayer,omitempty"`
}

// CalendarRow is one line of the Ramadan calendar table.
type CalendarRow struct {
	Day              int               `json:"day"`
	DateKey          string            `json:"date_key"`
	DateLabel        string            `json:"date_label"`
	Times            model.PrayerTimes `json:"times"`
	KadirNight       bool              `json:"kadir_night,omitempty"`
	Bayram           bool              `json:"bayram,omitempty"`
	BayramPrayerTime string            `json:"bayram_prayer_time,omitempty"`
}

// CalendarResponse is the whole Ramadan calendar for a city.
type CalendarResponse struct {
	City string        `json:"city"`
	Days []CalendarRow `json:"days"`
}

// CountdownResponse is the full countdown view for a city.
type CountdownResponse struct {
	City   string            `json:"city"`
	State  countdown.State   `json:"countdown"`
	Label  string            `json:"label"`
	Bayram bool              `json:"bayram,omitempty"`
	Times  model.PrayerTimes `json:"times"`
}

// WidgetResponse is the minimal embeddable view: just the counter and
// its label, nothing else.
type WidgetResponse struct {
	City  string          `json:"city"`
	Label string          `json:"label"`
	State countdown.State `json:"countdown"`
}

// QiblaResponse carries the bearing toward the Kaaba in degrees.
type QiblaResponse struct {
	Bearing float64 `json:"bearing"`
}

// MosquesResponse lists nearby mosques, possibly empty.
type MosquesResponse struct {
	Mosques []overpass.Mosque `json:"mosques"`
}

// DailyContentResponse is the dua and reminder of the day.
type DailyContentResponse struct {
	Dua      content.Item `json:"dua"`
	Reminder content.Item `json:"reminder"`
}

// ScheduleResponse reports how many entries survived the sanity bounds.
type ScheduleResponse struct {
	Scheduled int `json:"scheduled"`
}
