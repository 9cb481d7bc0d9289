package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tomohiko/kokorolog/cmd/backfill"
	"github.com/tomohiko/kokorolog/cmd/review"
	"github.com/tomohiko/kokorolog/cmd/serve"
	"github.com/tomohiko/kokorolog/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kokorolog",
		Short: "kokorolog journaling service CLI",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		serve.Command(settings),
		review.Command(settings),
		backfill.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port for the web server")
	rootCmd.PersistentFlags().Float64Var(&settings.Weather.Latitude, "latitude", viper.GetFloat64("weather.latitude"), "Latitude for weather lookups")
	rootCmd.PersistentFlags().Float64Var(&settings.Weather.Longitude, "longitude", viper.GetFloat64("weather.longitude"), "Longitude for weather lookups")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
