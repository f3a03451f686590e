package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/config"
	"github.com/ruudy-sib/cupcount/internal/domain/valueobject"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook and counter HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				if err := os.Setenv("HTTP_ADDR", addr); err != nil {
					return err
				}
			}
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")

	return cmd
}

func runServe(parent context.Context) error {
	// Root context with cancellation for graceful shutdown.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	c, err := buildContainer(ctx)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	return c.Invoke(func(
		router http.Handler,
		cfg *config.Config,
		logger *zap.Logger,
		store secondary.CounterStore,
		s *storage,
		publisher secondary.EventPublisher,
		tracked valueobject.TrackedItemSet,
	) error {
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("error closing publisher", zap.Error(err))
			}
			if err := s.Close(); err != nil {
				logger.Error("error closing store", zap.Error(err))
			}
			_ = logger.Sync()
		}()

		// The counter must exist before the first request is accepted.
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("initializing counter: %w", err)
		}

		logger.Info("starting application",
			zap.String("app", appName),
			zap.String("version", version),
			zap.String("http_addr", cfg.HTTPAddr),
			zap.String("store_backend", cfg.StoreBackend),
			zap.Strings("tracked_items", tracked.Names()),
			zap.Bool("signature_verification", cfg.SquareSignatureKey != ""),
		)
		if cfg.SquareLocation == "" {
			logger.Warn("SQUARE_LOCATION is not set, events from every location are counted")
		}

		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			if srvErr := server.ListenAndServe(); srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", srvErr)
			}
		}()

		// Wait for shutdown signal.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		var runErr error
		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		case runErr = <-errCh:
			logger.Error("service error", zap.Error(runErr))
		case <-ctx.Done():
		}

		logger.Info("shutting down gracefully")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", zap.Error(err))
		}

		logger.Info("shutdown complete")
		return runErr
	})
}
