// Package serve implements the web server subcommand.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/tomohiko/kokorolog/internal/api"
	"github.com/tomohiko/kokorolog/internal/conf"
	"github.com/tomohiko/kokorolog/internal/datastore"
	"github.com/tomohiko/kokorolog/internal/logging"
	"github.com/tomohiko/kokorolog/internal/observability"
	"github.com/tomohiko/kokorolog/internal/weather"
)

const shutdownTimeout = 10 * time.Second

// Command returns the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the journaling web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings)
		},
	}
}

func run(settings *conf.Settings) error {
	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	ds := datastore.New(settings, metrics)
	if ds == nil {
		return fmt.Errorf("no database backend enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logging.Error("Failed to close datastore", "error", err)
		}
	}()

	weatherSvc, err := weather.NewService(settings, ds, metrics)
	if err != nil {
		return fmt.Errorf("initializing weather service: %w", err)
	}

	e := echo.New()
	e.HideBanner = true

	controller, err := api.New(e, ds, settings, weatherSvc, metrics, nil)
	if err != nil {
		return fmt.Errorf("initializing API controller: %w", err)
	}
	defer controller.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background weather backfill for entries saved while the provider
	// was unreachable
	stopChan := make(chan struct{})
	if weatherSvc.Enabled() {
		go weatherSvc.StartPolling(ctx, stopChan)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := controller.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		close(stopChan)
		return fmt.Errorf("web server failed: %w", err)
	case sig := <-quit:
		logging.Info("Shutting down", "signal", sig.String())
	}

	close(stopChan)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}

	return nil
}
