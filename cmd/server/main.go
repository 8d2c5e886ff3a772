package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/config"
	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
	"github.com/Nixie-Tech-LLC/familyhub/internal/reminders"
	"github.com/Nixie-Tech-LLC/familyhub/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// money leaves the API as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache *redis.Cache
	if cfg.RedisAddress != "" {
		cache = redis.NewCache(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		if err := cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddress).Msg("redis unreachable, continuing without cache")
			_ = cache.Close()
			cache = nil
		}
	} else {
		log.Info().Msg("REDIS_ADDRESS not set, caching disabled")
	}
	defer cache.Close()

	validation.RegisterGin()

	events, closeEvents := InitPublisher(cfg)
	defer closeEvents()

	svc := Services{
		Store:  store,
		Cache:  cache,
		Files:  InitStorage(cfg),
		Mailer: InitMailer(cfg),
		Events: events,
	}
	svc.Tutor, svc.Budget = InitTutor(ctx, cfg, store)

	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, svc)

	dispatcher := reminders.NewDispatcher(store, events, cfg.ReminderInterval)
	go dispatcher.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Str("env", cfg.Environment).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
