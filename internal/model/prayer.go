package model

// PrayerTimes holds one calendar day's six prayer instants as "HH:MM"
// local wall-clock strings, in nominal prayer order.
type PrayerTimes struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// Complete reports whether all six instants are present.
func (p PrayerTimes) Complete() bool {
	return p.Fajr != "" && p.Sunrise != "" && p.Dhuhr != "" &&
		p.Asr != "" && p.Maghrib != "" && p.Isha != ""
}

// DailyPrayerTimes is one row of a calendar range: a date key (YYYY-MM-DD),
// a human date label and the day's times.
type DailyPrayerTimes struct {
	DateKey   string      `json:"date_key"`
	DateLabel string      `json:"date_label"`
	Times     PrayerTimes `json:"times"`
}

// City is one entry of the city catalog.
type City struct {
	ID   int     `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
	Lat  float64 `json:"lat" db:"lat"`
	Lng  float64 `json:"lng" db:"lng"`
}
