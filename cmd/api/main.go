package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sahan-dev/portfolio-backend/config"
	"github.com/sahan-dev/portfolio-backend/internal/auth"
	"github.com/sahan-dev/portfolio-backend/internal/bootstrap"
	"github.com/sahan-dev/portfolio-backend/internal/db"
	"github.com/sahan-dev/portfolio-backend/internal/github"
	"github.com/sahan-dev/portfolio-backend/internal/jobs"
	"github.com/sahan-dev/portfolio-backend/internal/projects"
	"github.com/sahan-dev/portfolio-backend/internal/ratelimit"
	"github.com/sahan-dev/portfolio-backend/internal/sitecache"
	"github.com/sahan-dev/portfolio-backend/internal/uploads"
)

const serviceName = "portfolio-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	bootstrap.SetupLogger(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	authClient, err := auth.InitializeFirebase(ctx, cfg.Firebase)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize identity provider")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	cache := sitecache.New(rdb)

	var uploader *uploads.Uploader
	if cfg.Uploads.S3Bucket != "" {
		uploader, err = uploads.NewUploader(ctx, cfg.Uploads)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize uploader")
		}
	} else {
		log.Warn().Msg("UPLOADS_S3_BUCKET not set, upload routes disabled")
	}

	limits := ratelimit.NewRegistry(
		limiterConfig(cfg.RateLimit.General),
		limiterConfig(cfg.RateLimit.Admin),
		limiterConfig(cfg.RateLimit.Contact),
		limiterConfig(cfg.RateLimit.Upload),
	)

	syncer := github.NewSyncer(projects.NewRepo(pool), cfg.App.GitHubToken)
	scheduler := jobs.NewScheduler(limits, syncer)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("start scheduler")
	}
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   serviceName,
		Version:       cfg.App.Version,
		DB:            pool,
		Verifier:      authClient,
		Cache:         cache,
		Uploader:      uploader,
		Limits:        limits,
		AllowedOrigin: cfg.Server.AllowedOrigin,
		AdminEmails:   cfg.Firebase.AdminEmails,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Environment).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func limiterConfig(w config.WindowConfig) ratelimit.Config {
	return ratelimit.Config{Window: w.Window, MaxRequests: w.MaxRequests}
}
