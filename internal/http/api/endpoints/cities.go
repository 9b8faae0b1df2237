package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/db"
	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/packets"
	"github.com/vakit-app/vakit/internal/qibla"
)

type CitiesController struct {
	store db.Store
}

// CitiesModule exposes the city catalog plus the coordinate helpers
// (nearest city, qibla bearing) that hang off raw coordinates.
func CitiesModule(store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &CitiesController{store: store}
		c.Group.GET("/cities", api.ResolveEndpoint(ctl.listCities))
		c.Group.GET("/cities/nearest", api.ResolveEndpoint(ctl.nearestCity))
		c.Group.GET("/qibla", api.ResolveEndpoint(ctl.qiblaBearing))
	})
}

// GET /api/cities
func (t *CitiesController) listCities(ctx *gin.Context) (any, *api.Error) {
	cities, err := t.store.ListCities()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not list cities"}
	}
	return cities, nil
}

// GET /api/cities/nearest?lat=&lng=
func (t *CitiesController) nearestCity(ctx *gin.Context) (any, *api.Error) {
	lat, lng, apiErr := coordsFromQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	city, err := t.store.NearestCity(lat, lng)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not find nearest city"}
	}
	return city, nil
}

// GET /api/qibla?lat=&lng=
func (t *CitiesController) qiblaBearing(ctx *gin.Context) (any, *api.Error) {
	lat, lng, apiErr := coordsFromQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	return packets.QiblaResponse{Bearing: qibla.Bearing(lat, lng)}, nil
}

func coordsFromQuery(ctx *gin.Context) (float64, float64, *api.Error) {
	lat, err1 := strconv.ParseFloat(ctx.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(ctx.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, &api.Error{Code: http.StatusBadRequest, Message: "lat and lng are required"}
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, &api.Error{Code: http.StatusBadRequest, Message: "coordinates out of range"}
	}
	return lat, lng, nil
}
