package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/countdown"
	"github.com/vakit-app/vakit/internal/db"
	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/packets"
	"github.com/vakit-app/vakit/internal/model"
	"github.com/vakit-app/vakit/internal/notify"
	"github.com/vakit-app/vakit/internal/prayerdata"
)

type NotificationsController struct {
	store    db.Store
	data     *prayerdata.Service
	registry *notify.Registry
	loc      *time.Location
}

// NotificationsModule lets an authenticated device replace or cancel its
// pending notification set. A schedule always supersedes the previous
// one; there is no merging.
func NotificationsModule(store db.Store, data *prayerdata.Service, registry *notify.Registry, loc *time.Location) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &NotificationsController{store: store, data: data, registry: registry, loc: loc}
		c.Group.POST("/notifications/schedule", api.ResolveEndpointWithDevice(ctl.schedule))
		c.Group.DELETE("/notifications", api.ResolveEndpointWithDevice(ctl.cancel))
	})
}

// POST /api/notifications/schedule
func (t *NotificationsController) schedule(ctx *gin.Context, device *model.Device) (any, *api.Error) {
	var request packets.ScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	entries := make([]model.Notification, 0, len(request.Notifications))
	for _, n := range request.Notifications {
		entries = append(entries, model.Notification{Title: n.Title, Body: n.Body, TriggerAt: n.TriggerAt})
	}

	// No explicit list: build one from the device's preferences, the way
	// the client's notification panel would.
	if len(entries) == 0 {
		var apiErr *api.Error
		entries, apiErr = t.buildFromPreferences(ctx.Request.Context(), device)
		if apiErr != nil {
			return nil, apiErr
		}
	}

	scheduled := t.registry.Schedule(device.ID, entries)
	return packets.ScheduleResponse{Scheduled: scheduled}, nil
}

// DELETE /api/notifications
func (t *NotificationsController) cancel(ctx *gin.Context, device *model.Device) (any, *api.Error) {
	t.registry.Cancel(device.ID)
	return packets.ScheduleResponse{Scheduled: 0}, nil
}

// buildFromPreferences derives the iftar/sahur reminders from the
// device's saved settings and the day's times. Sahur already being past
// rolls over to tomorrow's dawn.
func (t *NotificationsController) buildFromPreferences(ctx context.Context, device *model.Device) ([]model.Notification, *api.Error) {
	prefs, err := t.store.GetDevicePreferences(device.ID)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not load preferences"}
	}
	if !prefs.NotificationsEnabled {
		return nil, nil
	}

	city, err := t.store.GetCityByName(prefs.City)
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "unknown city in preferences"}
	}

	now := time.Now().In(t.loc)
	today := t.data.FetchDaily(ctx, *city, now)
	if today == nil {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "prayer times are currently unavailable"}
	}

	var entries []model.Notification

	if iftar, err := countdown.ParseClock(today.Maghrib, now, t.loc); err == nil {
		trigger := iftar.Add(-time.Duration(prefs.IftarMinutes) * time.Minute)
		if trigger.After(now) {
			entries = append(entries, model.Notification{
				Title:     "🌙 İftar Yaklaşıyor",
				Body:      fmt.Sprintf("%s için iftara %d dakika kaldı!", city.Name, prefs.IftarMinutes),
				TriggerAt: trigger.UnixMilli(),
			})
		}
	}

	sahur, err := countdown.ParseClock(today.Fajr, now, t.loc)
	if err == nil {
		if !sahur.After(now) {
			// Today's dawn is behind us; remind before tomorrow's.
			tomorrow := now.AddDate(0, 0, 1)
			if times := t.data.FetchDaily(ctx, *city, tomorrow); times != nil {
				if parsed, perr := countdown.ParseClock(times.Fajr, tomorrow, t.loc); perr == nil {
					sahur = parsed
				}
			}
		}
		trigger := sahur.Add(-time.Duration(prefs.SahurMinutes) * time.Minute)
		if trigger.After(now) {
			entries = append(entries, model.Notification{
				Title:     "🍽️ Sahur Vakti",
				Body:      fmt.Sprintf("%s için sahura %d dakika kaldı!", city.Name, prefs.SahurMinutes),
				TriggerAt: trigger.UnixMilli(),
			})
		}
	}

	return entries, nil
}
