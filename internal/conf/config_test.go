package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSettings returns a settings struct that passes validation, for
// tests to break one field at a time.
func validSettings() *Settings {
	s := &Settings{}
	s.Main.Name = "kokorolog"
	s.Main.TimeZone = "Asia/Tokyo"
	s.Journal.LookbackDays = 30
	s.Journal.ReviewDays = 7
	s.Journal.MaxNextActions = 8
	s.Weather.Provider = "openmeteo"
	s.Weather.Latitude = 35.68
	s.Weather.Longitude = 139.76
	s.Weather.PollInterval = 60
	s.WebServer.Enabled = true
	s.WebServer.Port = "8080"
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "kokorolog.db"
	return s
}

func TestValidateSettingsValid(t *testing.T) {
	assert.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsCollectsAllErrors(t *testing.T) {
	s := validSettings()
	s.Main.Name = ""
	s.Journal.ReviewDays = 0
	s.Weather.Latitude = 123.0

	err := ValidateSettings(s)
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	assert.Len(t, ve.Errors, 3)
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{
			name:    "unknown time zone",
			mutate:  func(s *Settings) { s.Main.TimeZone = "Mars/Olympus_Mons" },
			wantErr: "main.timezone",
		},
		{
			name:    "empty time zone is allowed",
			mutate:  func(s *Settings) { s.Main.TimeZone = "" },
			wantErr: "",
		},
		{
			name:    "zero lookback days",
			mutate:  func(s *Settings) { s.Journal.LookbackDays = 0 },
			wantErr: "journal.lookbackdays",
		},
		{
			name:    "zero max next actions",
			mutate:  func(s *Settings) { s.Journal.MaxNextActions = 0 },
			wantErr: "journal.maxnextactions",
		},
		{
			name:    "unsupported weather provider",
			mutate:  func(s *Settings) { s.Weather.Provider = "yrno" },
			wantErr: "weather.provider",
		},
		{
			name:    "provider none is allowed",
			mutate:  func(s *Settings) { s.Weather.Provider = "none" },
			wantErr: "",
		},
		{
			name:    "latitude out of range",
			mutate:  func(s *Settings) { s.Weather.Latitude = -91 },
			wantErr: "weather.latitude",
		},
		{
			name:    "longitude out of range",
			mutate:  func(s *Settings) { s.Weather.Longitude = 181 },
			wantErr: "weather.longitude",
		},
		{
			name:    "zero poll interval",
			mutate:  func(s *Settings) { s.Weather.PollInterval = 0 },
			wantErr: "weather.pollinterval",
		},
		{
			name:    "non-numeric port",
			mutate:  func(s *Settings) { s.WebServer.Port = "http" },
			wantErr: "webserver.port",
		},
		{
			name:    "port out of range",
			mutate:  func(s *Settings) { s.WebServer.Port = "70000" },
			wantErr: "webserver.port",
		},
		{
			name: "bad port ignored when server disabled",
			mutate: func(s *Settings) {
				s.WebServer.Enabled = false
				s.WebServer.Port = "not-a-port"
			},
			wantErr: "",
		},
		{
			name: "both backends enabled",
			mutate: func(s *Settings) {
				s.Output.MySQL.Enabled = true
				s.Output.MySQL.Database = "kokorolog"
				s.Output.MySQL.Host = "localhost"
			},
			wantErr: "only one of sqlite and mysql",
		},
		{
			name:    "no backend enabled",
			mutate:  func(s *Settings) { s.Output.SQLite.Enabled = false },
			wantErr: "either sqlite or mysql",
		},
		{
			name:    "sqlite without path",
			mutate:  func(s *Settings) { s.Output.SQLite.Path = "" },
			wantErr: "output.sqlite.path",
		},
		{
			name: "mysql without database",
			mutate: func(s *Settings) {
				s.Output.SQLite.Enabled = false
				s.Output.MySQL.Enabled = true
				s.Output.MySQL.Host = "localhost"
			},
			wantErr: "output.mysql.database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTimeLocation(t *testing.T) {
	s := &Settings{}
	s.Main.TimeZone = "Asia/Tokyo"
	assert.Equal(t, "Asia/Tokyo", s.TimeLocation().String())

	s.Main.TimeZone = ""
	assert.Equal(t, time.Local, s.TimeLocation())
}

func TestTimeLocationFallsBackOnBadZone(t *testing.T) {
	s := &Settings{}
	s.Main.TimeZone = "Not/A_Zone"
	assert.Equal(t, time.Local, s.TimeLocation())
}

func TestGetDefaultConfigPaths(t *testing.T) {
	paths, err := GetDefaultConfigPaths()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "kokorolog")
	assert.Equal(t, ".", paths[1])
}
