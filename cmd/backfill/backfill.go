// Package backfill implements the weather backfill subcommand.
package backfill

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomohiko/kokorolog/internal/conf"
	"github.com/tomohiko/kokorolog/internal/datastore"
	"github.com/tomohiko/kokorolog/internal/observability"
	"github.com/tomohiko/kokorolog/internal/weather"
)

// Command returns the backfill subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Fetch weather data for stored entries missing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings)
		},
	}
}

func run(ctx context.Context, settings *conf.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}

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
	defer ds.Close()

	weatherSvc, err := weather.NewService(settings, ds, metrics)
	if err != nil {
		return fmt.Errorf("initializing weather service: %w", err)
	}
	if !weatherSvc.Enabled() {
		return fmt.Errorf("weather provider is disabled, nothing to backfill")
	}

	updated, err := weatherSvc.Backfill(ctx)
	if err != nil {
		return fmt.Errorf("backfilling weather: %w", err)
	}

	fmt.Printf("Backfilled weather for %d entries\n", updated)
	return nil
}
