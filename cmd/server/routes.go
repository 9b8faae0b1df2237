package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vakit-app/vakit/internal/db"
	"github.com/vakit-app/vakit/internal/http/api"
	"github.com/vakit-app/vakit/internal/http/api/endpoints"
	"github.com/vakit-app/vakit/internal/notify"
	"github.com/vakit-app/vakit/internal/overpass"
	"github.com/vakit-app/vakit/internal/prayerdata"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	data *prayerdata.Service,
	registry *notify.Registry,
	mosques *overpass.Client,
	loc *time.Location,
) {
	// CORS: the widget is embedded on arbitrary pages, so origins stay open.
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
		Auth:   false,
	},
		endpoints.TimesModule(store, data, loc),
		endpoints.CountdownModule(store, data, loc),
		endpoints.CitiesModule(store),
		endpoints.MosquesModule(mosques),
		endpoints.ContentModule(loc),
		endpoints.DevicesPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		endpoints.DevicesSessionModule(env.SecretKey, store),
		endpoints.NotificationsModule(store, data, registry, loc),
	)
}
