package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sonora/blueprint"
	"sonora/config"
	"sonora/controllers"
	authcontroller "sonora/controllers/auth"
	"sonora/controllers/navigation"
	"sonora/logger"
	"sonora/middleware"
	"sonora/playback"
	"sonora/screens"
	"sonora/services/auth"
	"sonora/services/deezer"
	"sonora/universal"

	"github.com/antoniodipinto/ikisocket"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func init() {
	config.LoadEnvFile()
}

// newAuthenticator keeps accounts in redis when REDISCLOUD_URL is set and falls back to the
// single configured credential pair otherwise
func newAuthenticator(cfg *config.Config, zlog *zap.Logger) (auth.Authenticator, func()) {
	if cfg.RedisURL == "" {
		zlog.Info("[main] - no redis configured, using the static credentials")
		return &auth.StaticAuthenticator{Username: cfg.Username, Password: cfg.Password}, func() {}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("[main] [error] - could not parse redis url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	if redisClient.Ping(context.Background()).Err() != nil {
		zlog.Fatal("[main] [error] - Could not connect to redis. Are you sure redis is configured correctly?")
	}
	return auth.NewRedisAuthenticator(redisClient, zlog), func() {
		if err := redisClient.Close(); err != nil {
			zlog.Warn("[main] [warning] - could not close redis client", zap.Error(err))
		}
	}
}

func main() {
	cfg := config.Load()
	zlog := logger.New(cfg.Env, cfg.SentryDSN)
	defer func() {
		_ = zlog.Sync()
	}()

	catalog, err := deezer.NewService(&deezer.Options{
		BaseURL: cfg.DeezerAPIBase,
		Timeout: cfg.CatalogTimeout,
		Rate:    cfg.CatalogRate,
		Burst:   cfg.CatalogBurst,
	}, zlog)
	if err != nil {
		zlog.Fatal("[main] [error] - could not create the catalog client", zap.Error(err))
	}

	authenticator, closeAuth := newAuthenticator(cfg, zlog)
	defer closeAuth()

	hub := universal.NewHub(nil, zlog)
	registry := screens.NewRegistry(&screens.Deps{
		Catalog:  catalog,
		Engine:   playback.NewMP3Engine(nil, zlog),
		Notifier: hub,
		Logger:   zlog,
		Profile:  blueprint.ProfileUser{Username: cfg.Username, Email: cfg.Email},
	})
	hub.Screens = registry

	// idle screens are reaped in the background
	c := cron.New()
	entryID, cErr := registry.StartReaper(c, "@every 1m", cfg.ScreenIdleTTL)
	if cErr != nil {
		zlog.Fatal("[main] [error] - Could not start cron job.", zap.Error(cErr))
	}
	c.Start()
	zlog.Info("[main] [info] - reaper scheduled", zap.Int("entry_id", int(entryID)), zap.Duration("ttl", cfg.ScreenIdleTTL))

	authController := authcontroller.NewAuthController(authenticator, zlog)
	navigationController := navigation.NewController(registry, zlog)

	app := fiber.New()
	app.Use(cors.New(), middleware.RequestLogger(zlog))
	baseRouter := app.Group("/api/v1")

	baseRouter.Get("/heartbeat", controllers.Heartbeat)
	baseRouter.Post("/auth/login", authController.Login)
	baseRouter.Post("/auth/register", authController.Register)
	navigationController.Routes(baseRouter)

	// screen events are pushed to the clients subscribed over the websocket
	app.Get("/portal", ikisocket.New(func(kws *ikisocket.Websocket) {
		zlog.Info("[main][SocketEvent] - client connected", zap.String("client", kws.UUID))
	}))
	ikisocket.On(ikisocket.EventMessage, hub.OnMessage)
	ikisocket.On(ikisocket.EventDisconnect, hub.OnDisconnect)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		zlog.Info("[main] [info] - shutting down")
		<-c.Stop().Done()
		registry.UnmountAll()
		if err := app.Shutdown(); err != nil {
			zlog.Warn("[main] [warning] - could not shut the server down cleanly", zap.Error(err))
		}
	}()

	port := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("[main] [info] - Server is up and running", zap.String("port", port), zap.String("env", cfg.Env))
	if err := app.Listen(port); err != nil {
		log.Printf("Error starting server: %v\n", err)
		os.Exit(1)
	}
}
