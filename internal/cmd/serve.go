package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/reviewflow"
	"github.com/viant/reviewflow/logging"
	"github.com/viant/reviewflow/service/training"
	rest "github.com/viant/reviewflow/transport/http"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the review API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, v)
		},
	}
	cmd.Flags().String(keyAddr, "", "listen address, e.g. :8080")
	_ = v.BindPFlag(keyAddr, cmd.Flags().Lookup(keyAddr))
	return cmd
}

func serve(ctx context.Context, v *viper.Viper) error {
	cfg, err := loadConfig(ctx, v)
	if err != nil {
		return err
	}
	logger, logCloser := logging.New(cfg.Logging)
	defer logCloser.Close()
	logger = logger.With("service", "reviewflow")

	engine, err := reviewflow.New(ctx,
		reviewflow.WithConfig(cfg),
		reviewflow.WithLogger(logger),
		reviewflow.WithTrainingHandler(training.LogHandler(logger.With("component", "training"))),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("engine close failed", "error", err)
		}
	}()

	handler := rest.New(engine,
		rest.WithMaxBulkSize(cfg.HTTP.MaxBulkSize),
		rest.WithAllowedOrigins(cfg.HTTP.AllowedOrigins...),
		rest.WithLogger(logger),
	)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Minute, // bulk runs pause between chunks
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTP.Addr, "store", cfg.Store.Kind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
