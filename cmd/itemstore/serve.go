package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/goliatone/go-itemstore/internal/logctx"
	"github.com/goliatone/go-itemstore/internal/telemetry"
	"github.com/goliatone/go-itemstore/pkg/di"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logctx.NewConfiguredLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Human)
	if err != nil {
		return err
	}
	logctx.SetDefaultLogger(logger)
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logctx.WithLogger(ctx, logger)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	container, err := di.NewContainer(ctx, cfg,
		di.WithLogger(logger),
		di.WithTracerProvider(otel.GetTracerProvider()),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn().Err(err).Msg("container close failed")
		}
	}()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           container.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("prefix", cfg.HTTP.Prefix).
		Str("store", cfg.Store.Backend).
		Str("cache", cfg.Cache.Backend).
		Msg("server listening")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
