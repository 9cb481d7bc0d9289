package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tomohiko/kokorolog/internal/conf"
	"github.com/tomohiko/kokorolog/internal/datastore"
	"github.com/tomohiko/kokorolog/internal/errors"
	"github.com/tomohiko/kokorolog/internal/logging"
	"github.com/tomohiko/kokorolog/internal/observability"
)

// Package-level logger for the weather service
var (
	weatherLogger   *slog.Logger
	weatherLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	weatherLevelVar.Set(slog.LevelInfo)

	weatherLogger, _, err = logging.NewFileLogger("logs/weather.log", "weather", weatherLevelVar)
	if err != nil {
		logging.Error("Failed to initialize weather file logger", "error", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: weatherLevelVar})
		weatherLogger = slog.New(fbHandler).With("service", "weather")
	}
}

const (
	cacheExpiration      = 6 * time.Hour
	cacheCleanupInterval = time.Hour
)

// Service handles weather lookups for journal entries. Lookups are cached
// per calendar date so repeated saves on the same day hit the provider once.
type Service struct {
	provider Provider
	ds       datastore.Interface
	settings *conf.Settings
	metrics  *observability.Metrics
	cache    *gocache.Cache
}

// NewService creates a new weather service with the configured provider.
// A provider setting of "none" yields a disabled service whose Enrich is a
// no-op.
func NewService(settings *conf.Settings, ds datastore.Interface, metrics *observability.Metrics) (*Service, error) {
	var provider Provider

	switch settings.Weather.Provider {
	case "openmeteo":
		provider = NewOpenMeteoProvider(settings.Weather.Latitude, settings.Weather.Longitude)
	case "none":
		provider = nil
	default:
		return nil, errors.New(fmt.Errorf("invalid weather provider: %s", settings.Weather.Provider)).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Weather.Provider).
			Build()
	}

	return &Service{
		provider: provider,
		ds:       ds,
		settings: settings,
		metrics:  metrics,
		cache:    gocache.New(cacheExpiration, cacheCleanupInterval),
	}, nil
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s.provider != nil
}

// Lookup returns the daily weather for a date, from cache when possible.
func (s *Service) Lookup(ctx context.Context, date string) (*DailyWeather, error) {
	if s.provider == nil {
		return nil, errors.NewStd("weather provider is disabled")
	}

	if cached, found := s.cache.Get(date); found {
		return cached.(*DailyWeather), nil
	}

	fetchStart := time.Now()
	data, err := s.provider.FetchDaily(ctx, date)
	s.metrics.RecordWeatherFetchDuration(s.settings.Weather.Provider, time.Since(fetchStart).Seconds())

	if err != nil {
		s.metrics.RecordWeatherFetch(s.settings.Weather.Provider, "error")
		weatherLogger.Error("Failed to fetch weather data from provider",
			"provider", s.settings.Weather.Provider,
			"date", date,
			"error", err,
		)
		return nil, errors.New(err).
			Component("weather").
			Category(errors.CategoryWeatherFetch).
			Context("provider", s.settings.Weather.Provider).
			Context("date", date).
			Build()
	}
	s.metrics.RecordWeatherFetch(s.settings.Weather.Provider, "success")

	s.cache.Set(date, data, gocache.DefaultExpiration)

	if s.settings.Weather.Debug {
		weatherLogger.Debug("Fetched weather data", "date", date, "data", fmt.Sprintf("%+v", data))
	}

	return data, nil
}

// Enrich fills the weather fields of an entry prior to saving. Weather is
// best-effort enrichment: on any failure the fields stay nil, the failure is
// logged and the save proceeds.
func (s *Service) Enrich(ctx context.Context, entry *datastore.Entry) {
	if s.provider == nil {
		return
	}

	data, err := s.Lookup(ctx, entry.EntryDate)
	if err != nil {
		weatherLogger.Warn("Weather enrichment skipped", "date", entry.EntryDate, "error", err)
		return
	}

	entry.WeatherCode = data.WeatherCode
	entry.TempMax = data.TempMax
	entry.TempMin = data.TempMin
}

// Backfill fetches weather for stored entries missing enrichment and updates
// them in place. It returns the number of entries updated. Entries whose
// lookup fails are skipped and retried on the next run.
func (s *Service) Backfill(ctx context.Context) (int, error) {
	if s.provider == nil {
		return 0, nil
	}

	entries, err := s.ds.EntriesMissingWeather()
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range entries {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}

		data, err := s.Lookup(ctx, entries[i].EntryDate)
		if err != nil {
			// Logged in Lookup, move on to the next entry
			continue
		}
		if data.WeatherCode == nil && data.TempMax == nil && data.TempMin == nil {
			continue
		}

		if err := s.ds.UpdateWeather(entries[i].ID, data.WeatherCode, data.TempMax, data.TempMin); err != nil {
			weatherLogger.Error("Failed to store backfilled weather", "entry_id", entries[i].ID, "error", err)
			continue
		}
		updated++
	}

	weatherLogger.Info("Weather backfill finished", "candidates", len(entries), "updated", updated)
	return updated, nil
}

// StartPolling runs Backfill on an interval until the stop channel closes,
// so entries saved while the provider was unreachable get enriched later.
func (s *Service) StartPolling(ctx context.Context, stopChan <-chan struct{}) {
	if s.provider == nil {
		return
	}

	interval := time.Duration(s.settings.Weather.PollInterval) * time.Minute
	weatherLogger.Info("Starting weather backfill polling",
		"provider", s.settings.Weather.Provider,
		"interval_minutes", s.settings.Weather.PollInterval,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Backfill(ctx); err != nil {
				weatherLogger.Warn("Weather backfill poll failed", "error", err)
			}
		case <-stopChan:
			weatherLogger.Info("Stopping weather backfill polling")
			return
		case <-ctx.Done():
			return
		}
	}
}
