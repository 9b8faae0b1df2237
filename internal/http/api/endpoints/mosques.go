package endpoints

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/packets"
	"github.com/vakit-app/vakit/internal/overpass"
)

const (
	defaultMosqueRadius = 3000 // meters
	maxMosqueRadius     = 10000
	mosqueLimit         = 20
)

type MosquesController struct {
	client *overpass.Client
}

// MosquesModule exposes the nearby-mosque lookup. Overpass being down is
// routine, so failures degrade to an empty list rather than an error.
func MosquesModule(client *overpass.Client) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		ctl := &MosquesController{client: client}
		c.Group.GET("/mosques", api.ResolveEndpoint(ctl.nearbyMosques))
	})
}

// GET /api/mosques?lat=&lng=&radius=
func (t *MosquesController) nearbyMosques(ctx *gin.Context) (any, *api.Error) {
	lat, lng, apiErr := coordsFromQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	radius := defaultMosqueRadius
	if raw := ctx.Query("radius"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxMosqueRadius {
			radius = parsed
		}
	}

	mosques, err := t.client.FetchNearby(ctx.Request.Context(), lat, lng, radius, mosqueLimit)
	if err != nil {
		log.Warn().Err(err).Msg("overpass lookup failed")
		mosques = nil
	}
	if mosques == nil {
		mosques = []overpass.Mosque{}
	}

	return packets.MosquesResponse{Mosques: mosques}, nil
}
