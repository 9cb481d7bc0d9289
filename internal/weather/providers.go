package weather

import "context"

// DailyWeather is the daily weather classification for a single calendar
// date: the WMO weather code and the min/max temperature in °C. Fields are
// nil when the provider did not report them.
type DailyWeather struct {
	Date        string
	WeatherCode *int
	TempMax     *float64
	TempMin     *float64
}

// Provider represents a weather data provider interface
type Provider interface {
	// FetchDaily returns the daily weather for the given calendar date
	// (format 2006-01-02) at the provider's configured location.
	FetchDaily(ctx context.Context, date string) (*DailyWeather, error)
}
