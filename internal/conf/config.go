// config.go: defines the settings structure and config file handling
package conf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Settings contains all runtime configuration for the application.
type Settings struct {
	Debug bool // true to enable debug level logging

	Main struct {
		Name     string // name of the node, used in logs and API responses
		TimeZone string // IANA time zone name used to resolve "today"
	}

	Journal struct {
		LookbackDays   int // default fetch window for list and chart views
		ReviewDays     int // window for the weekly review rollup
		MaxNextActions int // cap for the pending next-action list
	}

	Weather struct {
		Provider     string  // "openmeteo" or "none"
		Latitude     float64 // latitude for weather lookups
		Longitude    float64 // longitude for weather lookups
		Debug        bool
		PollInterval int // minutes between enrichment retries for missing weather
	}

	WebServer struct {
		Enabled bool
		Port    string
		Debug   bool
	}

	Output struct {
		SQLite struct {
			Enabled bool
			Path    string
		}
		MySQL struct {
			Enabled  bool
			Username string
			Password string
			Database string
			Host     string
			Port     string
		}
	}
}

// Load reads the configuration file and environment into a Settings struct.
func Load() (*Settings, error) {
	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal config into struct
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with defaults and reads the configuration file.
func initViper() error {
	// Set config file name and type
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Get OS specific config paths
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	// Assign config paths to Viper
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	setDefaultConfig()

	// Read configuration file
	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create one with the defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes a default configuration file to the first config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := viper.SafeWriteConfigAs(configPath); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	log.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns the list of directories searched for the config file,
// in priority order.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user directory: %w", err)
	}

	configPaths := []string{
		filepath.Join(homeDir, ".config", "kokorolog"),
		".",
	}

	return configPaths, nil
}

// TimeLocation resolves the configured time zone, falling back to the system local zone.
func (s *Settings) TimeLocation() *time.Location {
	if s.Main.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Main.TimeZone)
	if err != nil {
		log.Printf("invalid time zone %q, falling back to local: %v", s.Main.TimeZone, err)
		return time.Local
	}
	return loc
}
