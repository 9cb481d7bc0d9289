// validate.go: validation of user provided settings
package conf

import (
	"fmt"
	"strconv"
	"time"
)

// ValidationError represents a collection of validation errors keyed by field.
type ValidationError struct {
	Errors []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", ve.Errors)
}

// ValidateSettings checks the loaded settings for inconsistent or out of range values.
func ValidateSettings(settings *Settings) error {
	ve := &ValidationError{}

	validateMainSettings(settings, ve)
	validateJournalSettings(settings, ve)
	validateWeatherSettings(settings, ve)
	validateWebServerSettings(settings, ve)
	validateOutputSettings(settings, ve)

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateMainSettings(settings *Settings, ve *ValidationError) {
	if settings.Main.Name == "" {
		ve.Errors = append(ve.Errors, "main.name must not be empty")
	}
	if settings.Main.TimeZone != "" {
		if _, err := time.LoadLocation(settings.Main.TimeZone); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("main.timezone: unknown time zone %q", settings.Main.TimeZone))
		}
	}
}

func validateJournalSettings(settings *Settings, ve *ValidationError) {
	if settings.Journal.LookbackDays < 1 {
		ve.Errors = append(ve.Errors, "journal.lookbackdays must be at least 1")
	}
	if settings.Journal.ReviewDays < 1 {
		ve.Errors = append(ve.Errors, "journal.reviewdays must be at least 1")
	}
	if settings.Journal.MaxNextActions < 1 {
		ve.Errors = append(ve.Errors, "journal.maxnextactions must be at least 1")
	}
}

func validateWeatherSettings(settings *Settings, ve *ValidationError) {
	switch settings.Weather.Provider {
	case "openmeteo", "none":
		// valid
	default:
		ve.Errors = append(ve.Errors, fmt.Sprintf("weather.provider: unsupported provider %q", settings.Weather.Provider))
	}
	if settings.Weather.Latitude < -90 || settings.Weather.Latitude > 90 {
		ve.Errors = append(ve.Errors, "weather.latitude must be between -90 and 90")
	}
	if settings.Weather.Longitude < -180 || settings.Weather.Longitude > 180 {
		ve.Errors = append(ve.Errors, "weather.longitude must be between -180 and 180")
	}
	if settings.Weather.PollInterval < 1 {
		ve.Errors = append(ve.Errors, "weather.pollinterval must be at least 1 minute")
	}
}

func validateWebServerSettings(settings *Settings, ve *ValidationError) {
	if !settings.WebServer.Enabled {
		return
	}
	port, err := strconv.Atoi(settings.WebServer.Port)
	if err != nil || port < 1 || port > 65535 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("webserver.port: invalid port %q", settings.WebServer.Port))
	}
}

func validateOutputSettings(settings *Settings, ve *ValidationError) {
	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		ve.Errors = append(ve.Errors, "output: only one of sqlite and mysql may be enabled")
	}
	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		ve.Errors = append(ve.Errors, "output: either sqlite or mysql must be enabled")
	}
	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		ve.Errors = append(ve.Errors, "output.sqlite.path must not be empty")
	}
	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Database == "" {
			ve.Errors = append(ve.Errors, "output.mysql.database must not be empty")
		}
		if settings.Output.MySQL.Host == "" {
			ve.Errors = append(ve.Errors, "output.mysql.host must not be empty")
		}
	}
}
