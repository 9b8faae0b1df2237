package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vakit-app/vakit/internal/aladhan"
	"github.com/vakit-app/vakit/internal/cache"
	"github.com/vakit-app/vakit/internal/db"
	"github.com/vakit-app/vakit/internal/notify"
	"github.com/vakit-app/vakit/internal/overpass"
	"github.com/vakit-app/vakit/internal/prayerdata"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	env := LoadEnvironment()

	loc, err := time.LoadLocation(env.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", env.Timezone).Msg("invalid timezone")
	}

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := db.NewStore()

	// fallback cache: redis when configured, in-process otherwise
	var fallback cache.Store
	if env.RedisAddress != "" {
		fallback = cache.NewRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	} else {
		log.Warn().Msg("REDIS_ADDRESS not set, using in-process cache")
		fallback = cache.NewMemory()
	}

	client := aladhan.NewClient()
	if env.AladhanBaseURL != "" {
		client.BaseURL = env.AladhanBaseURL
	}
	data := prayerdata.New(client, fallback, prayerdata.Config{})

	// notification push: a missing broker degrades to dropped
	// notifications, it never takes the API down
	var publisher notify.Publisher = notify.NopPublisher{}
	if env.MQTTBrokerURL != "" {
		mqttPub, err := notify.NewMQTTPublisher(env.MQTTBrokerURL, "vakit-server")
		if err != nil {
			log.Warn().Err(err).Msg("MQTT broker unreachable, notifications disabled")
		} else {
			publisher = mqttPub
			defer mqttPub.Close()
		}
	}
	registry := notify.NewRegistry(publisher)
	defer registry.Close()

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	RegisterRoutes(r, env, store, data, registry, overpass.NewClient(), loc)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
