package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vakit-app/vakit/internal/db"
	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/packets"
	"github.com/vakit-app/vakit/internal/http/middleware"
	"github.com/vakit-app/vakit/internal/model"
)

type DevicesController struct {
	secret string
	store  db.Store
}

// DevicesPublicModule carries the unauthenticated registration endpoint.
func DevicesPublicModule(secret string, store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &DevicesController{secret: secret, store: store}
		c.Group.POST("/devices/register", api.ResolveEndpoint(ctl.register))
	})
}

// DevicesSessionModule carries the endpoints that require a device token.
func DevicesSessionModule(secret string, store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &DevicesController{secret: secret, store: store}
		c.Group.GET("/devices/preferences", api.ResolveEndpointWithDevice(ctl.getPreferences))
		c.Group.PUT("/devices/preferences", api.ResolveEndpointWithDevice(ctl.updatePreferences))
	})
}

// POST /api/devices/register
func (t *DevicesController) register(ctx *gin.Context) (any, *api.Error) {
	device, err := t.store.CreateDevice()
	if err != nil {
		log.Error().Err(err).Msg("could not create device")
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not register device"}
	}

	token, err := middleware.GenerateDeviceToken(device.ID, t.secret)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not issue token"}
	}

	return packets.RegisterDeviceResponse{DeviceID: device.ID, Token: token}, nil
}

// GET /api/devices/preferences
func (t *DevicesController) getPreferences(ctx *gin.Context, device *model.Device) (any, *api.Error) {
	prefs, err := t.store.GetDevicePreferences(device.ID)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not load preferences"}
	}
	return prefs, nil
}

// PUT /api/devices/preferences
func (t *DevicesController) updatePreferences(ctx *gin.Context, device *model.Device) (any, *api.Error) {
	var request packets.PreferencesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := t.store.GetCityByName(request.City); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "unknown city"}
	}
	for _, name := range request.FavoriteCities {
		if _, err := t.store.GetCityByName(name); err != nil {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "unknown favorite city"}
		}
	}

	locale := request.Locale
	if locale == "" {
		locale = "tr"
	}
	favorites := request.FavoriteCities
	if favorites == nil {
		favorites = []string{}
	}

	prefs := model.Preferences{
		City:                 request.City,
		Locale:               locale,
		NotificationsEnabled: request.NotificationsEnabled,
		IftarMinutes:         request.IftarMinutes,
		SahurMinutes:         request.SahurMinutes,
		FavoriteCities:       favorites,
	}
	if err := t.store.UpdateDevicePreferences(device.ID, prefs); err != nil {
		log.Error().Err(err).Int("device", device.ID).Msg("could not update preferences")
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not save preferences"}
	}

	return prefs, nil
}
