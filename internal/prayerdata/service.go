// Package prayerdata retrieves prayer times from the provider with
// retry, validation and a stale-tolerant cache fallback. Network errors
// are routine here, not exceptional: nothing in this package propagates
// an error to its callers — the worst case is nil or an empty slice.
package prayerdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vakit-app/vakit/internal/aladhan"
	"github.com/vakit-app/vakit/internal/cache"
	"github.com/vakit-app/vakit/internal/model"
)

const (
	defaultAttempts = 3
	defaultBackoff  = time.Second
	// DiyanetMethod is the Turkish Directorate of Religious Affairs
	// calculation method on the Al Adhan API.
	DiyanetMethod = 13
)

// monthNames are the Turkish month names used for calendar row labels.
var monthNames = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// Config tunes the retry loop. Zero values take the defaults.
type Config struct {
	Method   int
	Attempts int
	Backoff  time.Duration
}

// Service is the prayer-time data access layer.
type Service struct {
	client   *aladhan.Client
	cache    cache.Store
	method   int
	attempts int
	backoff  time.Duration
}

func New(client *aladhan.Client, store cache.Store, cfg Config) *Service {
	if cfg.Method == 0 {
		cfg.Method = DiyanetMethod
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = defaultBackoff
	}
	return &Service{
		client:   client,
		cache:    store,
		method:   cfg.Method,
		attempts: cfg.Attempts,
		backoff:  cfg.Backoff,
	}
}

// FetchDaily returns one day's times for a city, or nil when neither the
// provider nor the cache has anything usable.
func (s *Service) FetchDaily(ctx context.Context, city model.City, date time.Time) *model.PrayerTimes {
	key := dailyKey(city.Name, date)

	var resp *aladhan.Response
	err := s.withRetry(ctx, func() error {
		var err error
		resp, err = s.client.FetchTimings(ctx, date, city.Lat, city.Lng, s.method)
		return err
	})

	if err == nil {
		times := normalize(resp.Data.Timings)
		if !times.Complete() {
			// Malformed single-day payload: the range endpoint for the
			// same day is a known-good secondary path.
			log.Warn().Str("city", city.Name).Msg("incomplete timings, trying range endpoint")
			times = s.dailyViaCalendar(ctx, city, date)
		}
		if times.Complete() {
			s.cache.Set(ctx, key, times)
			return &times
		}
	} else {
		log.Error().Err(err).Str("city", city.Name).Str("date", date.Format("2006-01-02")).
			Msg("daily fetch failed")
	}

	var cached model.PrayerTimes
	if s.cache.Get(ctx, key, &cached) {
		log.Info().Str("city", city.Name).Msg("serving cached prayer times")
		return &cached
	}
	return nil
}

// FetchMonthly returns the calendar rows covering [start, end], sorted
// ascending by date key. Months that fail after retries are skipped; on
// total failure a cached copy of the range is served if one exists.
func (s *Service) FetchMonthly(ctx context.Context, city model.City, start, end time.Time) []model.DailyPrayerTimes {
	key := rangeKey(city.Name, start, end)
	results := make([]model.DailyPrayerTimes, 0, int(end.Sub(start).Hours()/24)+1)

	anyFailed := false
	for _, ym := range monthsSpanned(start, end) {
		var resp *aladhan.CalendarResponse
		err := s.withRetry(ctx, func() error {
			var err error
			resp, err = s.client.FetchCalendar(ctx, ym.year, ym.month, city.Lat, city.Lng, s.method)
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("city", city.Name).
				Int("year", ym.year).Int("month", ym.month).
				Msg("calendar fetch failed, skipping month")
			anyFailed = true
			continue
		}

		for _, day := range resp.Data {
			row, ok := calendarRow(day)
			if !ok {
				continue
			}
			if row.DateKey < dateKey(start) || row.DateKey > dateKey(end) {
				continue
			}
			results = append(results, row)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].DateKey < results[j].DateKey })

	if len(results) > 0 {
		s.cache.Set(ctx, key, results)
		return results
	}

	if anyFailed {
		var cached []model.DailyPrayerTimes
		if s.cache.Get(ctx, key, &cached) {
			log.Info().Str("city", city.Name).Msg("serving cached calendar")
			return cached
		}
	}
	return results
}

// dailyViaCalendar looks the requested day up through the month endpoint.
func (s *Service) dailyViaCalendar(ctx context.Context, city model.City, date time.Time) model.PrayerTimes {
	resp, err := s.client.FetchCalendar(ctx, date.Year(), int(date.Month()), city.Lat, city.Lng, s.method)
	if err != nil {
		return model.PrayerTimes{}
	}
	want := dateKey(date)
	for _, day := range resp.Data {
		row, ok := calendarRow(day)
		if ok && row.DateKey == want {
			return row.Times
		}
	}
	return model.PrayerTimes{}
}

// withRetry runs fn up to s.attempts times with exponential backoff
// (backoff, 2*backoff, 4*backoff, ...) between failures.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i < s.attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(s.backoff << (i - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

// normalize strips provider suffixes like "18:13 (TRT)" down to "HH:MM".
func normalize(t aladhan.Timings) model.PrayerTimes {
	return model.PrayerTimes{
		Fajr:    clockPrefix(t.Fajr),
		Sunrise: clockPrefix(t.Sunrise),
		Dhuhr:   clockPrefix(t.Dhuhr),
		Asr:     clockPrefix(t.Asr),
		Maghrib: clockPrefix(t.Maghrib),
		Isha:    clockPrefix(t.Isha),
	}
}

// clockPrefix extracts a leading "HH:MM"; anything else becomes "".
func clockPrefix(raw string) string {
	s, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ""
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ""
	}
	return s
}

// calendarRow converts one provider day into a calendar row.
func calendarRow(day aladhan.Data) (model.DailyPrayerTimes, bool) {
	g := day.Date.Gregorian
	dayNum, err1 := strconv.Atoi(g.Day)
	year, err2 := strconv.Atoi(g.Year)
	if err1 != nil || err2 != nil || g.Month.Number < 1 || g.Month.Number > 12 {
		return model.DailyPrayerTimes{}, false
	}

	times := normalize(day.Timings)
	if !times.Complete() {
		return model.DailyPrayerTimes{}, false
	}

	return model.DailyPrayerTimes{
		DateKey:   fmt.Sprintf("%04d-%02d-%02d", year, g.Month.Number, dayNum),
		DateLabel: fmt.Sprintf("%d %s", dayNum, monthNames[g.Month.Number-1]),
		Times:     times,
	}, true
}

type yearMonth struct {
	year, month int
}

// monthsSpanned lists the distinct (year, month) pairs [start, end] covers.
func monthsSpanned(start, end time.Time) []yearMonth {
	var months []yearMonth
	d := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	for !d.After(last) {
		months = append(months, yearMonth{d.Year(), int(d.Month())})
		d = d.AddDate(0, 1, 0)
	}
	return months
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func dailyKey(city string, date time.Time) string {
	return fmt.Sprintf("vakit:times:%s:%s", city, dateKey(date))
}

func rangeKey(city string, start, end time.Time) string {
	return fmt.Sprintf("vakit:calendar:%s:%s:%s", city, dateKey(start), dateKey(end))
}
