package endpoints

import (
	"context"
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

type CountdownController struct {
	store  db.Store
	data   *prayerdata.Service
	loc    *time.Location
	season season.Season
}

// CountdownModule exposes the resolved countdown state and the minimal
// widget view meant for iframe embedding.
func CountdownModule(store db.Store, data *prayerdata.Service, loc *time.Location) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &CountdownController{store: store, data: data, loc: loc, season: season.Ramadan2026(loc)}
		c.Group.GET("/countdown", api.ResolveEndpoint(ctl.countdown))
		c.Group.GET("/widget", api.ResolveEndpoint(ctl.widget))
	})
}

// GET /api/countdown?city=
func (t *CountdownController) countdown(ctx *gin.Context) (any, *api.Error) {
	city, apiErr := cityFromQuery(ctx, t.store)
	if apiErr != nil {
		return nil, apiErr
	}

	resp, apiErr := t.resolve(ctx.Request.Context(), *city, time.Now().In(t.loc))
	if apiErr != nil {
		return nil, apiErr
	}
	return resp, nil
}

// GET /api/widget?city=
func (t *CountdownController) widget(ctx *gin.Context) (any, *api.Error) {
	city, apiErr := cityFromQuery(ctx, t.store)
	if apiErr != nil {
		return nil, apiErr
	}

	resp, apiErr := t.resolve(ctx.Request.Context(), *city, time.Now().In(t.loc))
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.WidgetResponse{City: resp.City, Label: resp.Label, State: resp.State}, nil
}

// resolve turns "now" plus the day's times into the countdown view.
// On the first day of Ramazan Bayramı there is no fast to count toward,
// so the counter runs to local midnight instead.
func (t *CountdownController) resolve(ctx context.Context, city model.City, now time.Time) (*packets.CountdownResponse, *api.Error) {
	today := t.data.FetchDaily(ctx, city, now)
	if today == nil {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "prayer times are currently unavailable"}
	}

	if t.season.IsBayram(now) {
		state := countdown.Resolve(now, time.Time{}, countdown.Midnight(now), time.Time{}, countdown.DefaultEzanWindow)
		return &packets.CountdownResponse{
			City:   city.Name,
			State:  state,
			Label:  "Ramazan Bayramı 🎉",
			Bayram: true,
			Times:  *today,
		}, nil
	}

	todayDawn, errDawn := countdown.ParseClock(today.Fajr, now, t.loc)
	todaySunset, errSunset := countdown.ParseClock(today.Maghrib, now, t.loc)
	if errSunset != nil {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "prayer times are currently unavailable"}
	}
	if errDawn != nil {
		todayDawn = time.Time{}
	}

	// Tomorrow's dawn is optional; the resolver falls back without it.
	var tomorrowDawn time.Time
	if tomorrow := t.data.FetchDaily(ctx, city, now.AddDate(0, 0, 1)); tomorrow != nil {
		if parsed, err := countdown.ParseClock(tomorrow.Fajr, now.AddDate(0, 0, 1), t.loc); err == nil {
			tomorrowDawn = parsed
		}
	}

	state := countdown.Resolve(now, todayDawn, todaySunset, tomorrowDawn, countdown.DefaultEzanWindow)

	return &packets.CountdownResponse{
		City:  city.Name,
		State: state,
		Label: countdownLabel(state),
		Times: *today,
	}, nil
}

func countdownLabel(state countdown.State) string {
	switch {
	case state.Passed:
		return "Hayırlı İftarlar! 🌙"
	case state.Mode == countdown.ModeImsak:
		return "Sahura Kalan"
	default:
		return "İftara Kalan"
	}
}
