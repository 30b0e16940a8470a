package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Hunter-sfcb/iceapp/internal/api"
	"github.com/Hunter-sfcb/iceapp/internal/api/handler"
	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/auth"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/internal/session"
	"github.com/Hunter-sfcb/iceapp/pkg/database"
	"github.com/Hunter-sfcb/iceapp/pkg/logger"
	"github.com/Hunter-sfcb/iceapp/pkg/redis"
	"github.com/Hunter-sfcb/iceapp/pkg/tracing"
)

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	store := repository.NewStore(db)
	provider := auth.NewProvider(store.Accounts, auth.NewRedisTokenStore(rdb), cfg.JWT)
	newSession := session.NewFactory(provider, store.Profiles)

	h := handler.New(
		newSession,
		service.NewFeedService(store.Posts, store.Likes),
		service.NewPostService(store.Posts, store.Comments, store.Likes),
		service.NewAdminService(store.Ranks, store.Profiles),
		service.NewRelationshipService(store.Follows, store.Profiles),
	)
	router := api.NewRouter(h, newSession, api.Options{
		Mode:        cfg.Server.Mode,
		ServiceName: cfg.Tracing.ServiceName,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Sentry:      sentryEnabled,
		Tracing:     cfg.Tracing.Enabled,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
