package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/teamdesk/calldesk-backend/api/routes"
	"github.com/teamdesk/calldesk-backend/internal/auth"
	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/internal/guidance"
	"github.com/teamdesk/calldesk-backend/internal/notifier"
	"github.com/teamdesk/calldesk-backend/internal/realtime"
	"github.com/teamdesk/calldesk-backend/internal/settings"
	"github.com/teamdesk/calldesk-backend/internal/users"
	"github.com/teamdesk/calldesk-backend/internal/views"
	"github.com/teamdesk/calldesk-backend/pkg/auth/session"
	"github.com/teamdesk/calldesk-backend/pkg/config"
	"github.com/teamdesk/calldesk-backend/pkg/db"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
	"github.com/teamdesk/calldesk-backend/pkg/metrics"
	"github.com/teamdesk/calldesk-backend/pkg/migrate"
	"github.com/teamdesk/calldesk-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := realtime.NewHub(redisClient, logg)
	bridge := realtime.NewBridge(redisClient, hub, logg)
	go func() {
		if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "realtime bridge stopped unexpectedly", err)
		}
	}()

	callsRepo := calls.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())

	usersService, err := users.NewService(usersRepo, callsRepo, hub)
	if err != nil {
		logg.Error(ctx, "failed to create users service", err)
		os.Exit(1)
	}
	callsService, err := calls.NewService(callsRepo, usersService, hub, cfg.Notifier.PrecheckQueue)
	if err != nil {
		logg.Error(ctx, "failed to create calls service", err)
		os.Exit(1)
	}
	settingsService, err := settings.NewService(dbClient.DB(), hub)
	if err != nil {
		logg.Error(ctx, "failed to create settings service", err)
		os.Exit(1)
	}
	viewsService, err := views.NewService(redisClient)
	if err != nil {
		logg.Error(ctx, "failed to create views service", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(usersService, sessionManager, cfg.JWT, cfg.Auth)
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	guidanceService, err := guidance.NewService(cfg.OpenAI)
	if err != nil {
		logg.Info(ctx, "guidance disabled: no api key configured")
		guidanceService = nil
	}

	metricsRegistry := prometheus.NewRegistry()
	notifierService, err := notifier.NewService(
		callsRepo,
		viewsService,
		redisClient,
		hub,
		metrics.NewNotifierMetrics(metricsRegistry),
		logg,
		cfg.Notifier,
	)
	if err != nil {
		logg.Error(ctx, "failed to create notifier", err)
		os.Exit(1)
	}
	go func() {
		if err := notifierService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "notifier stopped unexpectedly", err)
		}
	}()

	// Sweep stale done rows once on boot so the board opens clean even if
	// the cron worker has not run yet.
	if deleted, err := callsService.ExpireCompleted(ctx); err != nil {
		logg.Error(ctx, "startup expiry sweep failed", err)
	} else if deleted > 0 {
		logg.Info(logg.WithField(ctx, "rows_deleted", deleted), "startup expiry sweep complete")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Cache:    redisClient,
			Sessions: sessionManager,
			Auth:     authService,
			Calls:    callsService,
			Users:    usersService,
			Settings: settingsService,
			Views:    viewsService,
			Guidance: guidanceService,
			Hub:      hub,
			Metrics:  metricsRegistry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
