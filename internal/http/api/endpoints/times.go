package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/countdown"
	"github.com/vakit-app/vakit/internal/db"
	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/packets"
	"github.com/vakit-app/vakit/internal/model"
	"github.com/vakit-app/vakit/internal/prayerdata"
	"github.com/vakit-app/vakit/internal/season"
)

const defaultCity = "İstanbul"

type TimesController struct {
	store  db.Store
	data   *prayerdata.Service
	loc    *time.Location
	season season.Season
}

// TimesModule exposes the daily times and the Ramadan calendar.
func TimesModule(store db.Store, data *prayerdata.Service, loc *time.Location) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &TimesController{store: store, data: data, loc: loc, season: season.Ramadan2026(loc)}
		c.Group.GET("/times/daily", api.ResolveEndpoint(ctl.daily))
		c.Group.GET("/times/calendar", api.ResolveEndpoint(ctl.calendar))
	})
}

// cityFromQuery resolves ?city= against the catalog, defaulting to İstanbul.
func cityFromQuery(ctx *gin.Context, store db.Store) (*model.City, *api.Error) {
	name := ctx.DefaultQuery("city", defaultCity)
	city, err := store.GetCityByName(name)
	if err != nil {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "unknown city"}
	}
	return city, nil
}

// GET /api/times/daily?city=&date=
func (t *TimesController) daily(ctx *gin.Context) (any, *api.Error) {
	city, apiErr := cityFromQuery(ctx, t.store)
	if apiErr != nil {
		return nil, apiErr
	}

	date := time.Now().In(t.loc)
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, t.loc)
		if err != nil {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "date must be YYYY-MM-DD"}
		}
		date = parsed
	}

	times := t.data.FetchDaily(ctx.Request.Context(), *city, date)
	if times == nil {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "prayer times are currently unavailable"}
	}

	resp := packets.DailyTimesResponse{
		City:  city.Name,
		Date:  date.Format("2006-01-02"),
		Times: *times,
	}
	// The current-prayer marker only makes sense against today's
	// timetable; for any other date it would mix days.
	now := time.Now().In(t.loc)
	if date.Year() == now.Year() && date.YearDay() == now.YearDay() {
		resp.CurrentPrayer = countdown.CurrentPrayer(*times, now, t.loc)
	}
	return resp, nil
}

// GET /api/times/calendar?city=&start=&end=
// Without an explicit range the current Ramadan season is used.
func (t *TimesController) calendar(ctx *gin.Context) (any, *api.Error) {
	city, apiErr := cityFromQuery(ctx, t.store)
	if apiErr != nil {
		return nil, apiErr
	}

	start, end := t.season.Start, t.season.End
	if raw := ctx.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, t.loc)
		if err != nil {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "start must be YYYY-MM-DD"}
		}
		start = parsed
	}
	if raw := ctx.Query("end"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, t.loc)
		if err != nil {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "end must be YYYY-MM-DD"}
		}
		end = parsed
	}
	if end.Before(start) {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "end before start"}
	}

	days := t.data.FetchMonthly(ctx.Request.Context(), *city, start, end)

	rows := make([]packets.CalendarRow, 0, len(days))
	for _, day := range days {
		date, err := time.ParseInLocation("2006-01-02", day.DateKey, t.loc)
		if err != nil {
			continue
		}

		row := packets.CalendarRow{
			Day:       t.season.Day(date),
			DateKey:   day.DateKey,
			DateLabel: day.DateLabel,
			Times:     day.Times,
		}
		if t.season.IsKadirNight(date) {
			row.KadirNight = true
		}
		if t.season.IsBayram(date) {
			row.Bayram = true
			row.BayramPrayerTime = countdown.BayramPrayerTime(day.Times.Sunrise)
		}
		rows = append(rows, row)
	}

	return packets.CalendarResponse{City: city.Name, Days: rows}, nil
}
