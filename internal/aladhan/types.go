package aladhan

// Response is the top-level Al Adhan single-day response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// CalendarResponse is the calendar endpoint's response: one Data per day
// of the requested month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// Data holds a day's timings and date info.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
}

// Timings are "HH:MM" strings, possibly with a timezone suffix like
// " (TRT)" that callers strip during normalization.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// DateInfo carries the Gregorian date the timings belong to.
type DateInfo struct {
	Gregorian GregorianDate `json:"gregorian"`
}

// GregorianDate identifies a calendar day in the provider's response.
type GregorianDate struct {
	Date  string         `json:"date"` // "28-02-2026"
	Day   string         `json:"day"`
	Month GregorianMonth `json:"month"`
	Year  string         `json:"year"`
}

// GregorianMonth contains the month number and English name.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}
