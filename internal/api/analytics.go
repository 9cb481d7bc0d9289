package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tomohiko/kokorolog/internal/aggregate"
	"github.com/tomohiko/kokorolog/internal/datastore"
	"github.com/tomohiko/kokorolog/internal/journal"
)

// initAnalyticsRoutes registers all analytics-related API endpoints
func (c *Controller) initAnalyticsRoutes() {
	analyticsGroup := c.Group.Group("/analytics")

	analyticsGroup.GET("/review", c.GetWeeklyReview)
	analyticsGroup.GET("/actions", c.GetNextActions)
	analyticsGroup.GET("/intensity", c.GetIntensitySeries)
	analyticsGroup.GET("/emotions", c.GetEmotionCounts)
	analyticsGroup.GET("/weather", c.GetWeatherSummary)
}

// WeatherSummary pairs the weather bucket statistics with the scatter series
// for the weather correlation view.
type WeatherSummary struct {
	Buckets []aggregate.WeatherBucket      `json:"buckets"`
	Scatter []aggregate.TempIntensityPoint `json:"scatter"`
}

// loadWindow fetches the snapshot of entries for an analytics request. The
// aggregation itself runs on the in-memory snapshot, never on the store.
func (c *Controller) loadWindow(days int) ([]datastore.Entry, error) {
	since := c.today().AddDate(0, 0, -days).Format(journal.DateFormat)
	return c.DS.EntriesSince(since)
}

// GetWeeklyReview handles GET /api/v1/analytics/review?days=N
func (c *Controller) GetWeeklyReview(ctx echo.Context) error {
	days := parseQueryInt(ctx, "days", c.Settings.Journal.ReviewDays)

	// Fetch at least the review window regardless of the configured lookback
	fetchDays := c.Settings.Journal.LookbackDays
	if days > fetchDays {
		fetchDays = days
	}

	entries, err := c.loadWindow(fetchDays)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load entries", http.StatusInternalServerError)
	}

	review := aggregate.WeeklyReview(entries, days, c.today())
	return ctx.JSON(http.StatusOK, review)
}

// GetNextActions handles GET /api/v1/analytics/actions?limit=N
func (c *Controller) GetNextActions(ctx echo.Context) error {
	limit := parseQueryInt(ctx, "limit", c.Settings.Journal.MaxNextActions)

	entries, err := c.loadWindow(c.Settings.Journal.LookbackDays)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load entries", http.StatusInternalServerError)
	}

	// Entries arrive newest first from the store; order is preserved
	items := aggregate.NextActions(entries, limit)
	return ctx.JSON(http.StatusOK, items)
}

// GetIntensitySeries handles GET /api/v1/analytics/intensity
func (c *Controller) GetIntensitySeries(ctx echo.Context) error {
	entries, err := c.loadWindow(c.Settings.Journal.LookbackDays)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load entries", http.StatusInternalServerError)
	}

	points := aggregate.IntensitySeries(entries)
	return ctx.JSON(http.StatusOK, points)
}

// GetEmotionCounts handles GET /api/v1/analytics/emotions
func (c *Controller) GetEmotionCounts(ctx echo.Context) error {
	entries, err := c.loadWindow(c.Settings.Journal.LookbackDays)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load entries", http.StatusInternalServerError)
	}

	counts := aggregate.EmotionCounts(entries)
	return ctx.JSON(http.StatusOK, counts)
}

// GetWeatherSummary handles GET /api/v1/analytics/weather
func (c *Controller) GetWeatherSummary(ctx echo.Context) error {
	entries, err := c.loadWindow(c.Settings.Journal.LookbackDays)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load entries", http.StatusInternalServerError)
	}

	summary := WeatherSummary{
		Buckets: aggregate.WeatherBuckets(entries),
		Scatter: aggregate.TempIntensityPairs(entries),
	}
	return ctx.JSON(http.StatusOK, summary)
}
