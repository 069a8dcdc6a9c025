package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/config"
	httpapi "github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the kasir HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid logging configuration", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := serve(ctx, cfg, logger); err != nil {
				logger.Error("serve failed", zap.Error(err))
				return WrapExitError(ExitFailure, "serve", err)
			}
			return nil
		},
	}
}

// serve runs until ctx is cancelled or the listener fails.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}

	pub, closePub, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePub()

	reg := register.New(cat, register.WithPublisher(pub), register.WithLogger(logger))

	regCtx, regCancel := context.WithCancel(context.Background())
	regDone := make(chan struct{})
	go func() {
		defer close(regDone)
		_ = reg.Run(regCtx)
	}()
	defer func() {
		regCancel()
		<-regDone
	}()

	httpServer := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpapi.NewRouter(httpapi.Deps{
			Register:         reg,
			Logger:           logger,
			CORSAllowOrigins: cfg.CORSAllowOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.Addr()), zap.String("register_id", reg.ID()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("http server failed", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return runErr
}
