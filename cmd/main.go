package main

import (
	"HealthFirst/config"
	"HealthFirst/database"
	"HealthFirst/logger"
	"HealthFirst/routes"
	"HealthFirst/utils"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const serviceName = "healthfirst"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(serviceName, cfg.Env)

	// Initialize the database
	db, err := database.InitDB(context.Background(), cfg.DBURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	redisClient := initRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	handler, err := routes.SetupRoutes(routes.Dependencies{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Mailer: newMailer(cfg),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up routes")
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listenAndServe failed")
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	log.Info().Msg("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	wg.Wait()
	log.Info().Msg("Server exited gracefully")
}

// initRedis connects to Redis when REDIS_URL is set. Failures are logged and
// the service continues without caching.
func initRedis(cfg *config.AppConfig) *redis.Client {
	if !cfg.RedisEnabled() {
		log.Warn().Msg("REDIS_URL not set, running without cache")
		return nil
	}

	client, err := database.NewRedisClient(context.Background(), database.LoadRedisConfig(cfg.RedisAddress))
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to Redis, running without cache")
		return nil
	}
	database.MonitorRedisPool(client)
	return client
}

func newMailer(cfg *config.AppConfig) utils.Mailer {
	if !cfg.MailEnabled() {
		log.Warn().Msg("SMTP_HOST not set, emails will be logged instead of sent")
		return utils.LogMailer{}
	}
	return utils.NewSMTPMailer(utils.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	})
}
