package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tomohiko/kokorolog/internal/errors"
	"github.com/tomohiko/kokorolog/internal/journal"
)

// initEntryRoutes registers the entry CRUD endpoints
func (c *Controller) initEntryRoutes() {
	entriesGroup := c.Group.Group("/entries")
	entriesGroup.POST("", c.CreateEntry)
	entriesGroup.GET("", c.GetEntries)
	entriesGroup.GET("/:id", c.GetEntry)
	entriesGroup.DELETE("/:id", c.DeleteEntry)
}

// EntryDetail is the single-entry response including the thought flow text.
type EntryDetail struct {
	Entry    any    `json:"entry"`
	FlowText string `json:"flow_text"`
}

// CreateEntry handles POST /api/v1/entries.
// The payload is validated before any store call; weather enrichment is
// best-effort and never blocks the save.
func (c *Controller) CreateEntry(ctx echo.Context) error {
	var in journal.NewEntry
	if err := ctx.Bind(&in); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	// An omitted date means "today" in the configured time zone
	if in.EntryDate == "" {
		in.EntryDate = c.today().Format(journal.DateFormat)
	}

	entry, err := journal.Validate(&in)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid entry", http.StatusBadRequest)
	}

	if c.Weather != nil && c.Weather.Enabled() {
		c.Weather.Enrich(ctx.Request().Context(), entry)
	}

	if err := c.DS.Save(entry); err != nil {
		return c.HandleError(ctx, err, "Failed to save entry", http.StatusInternalServerError)
	}

	c.entriesCache.Flush()
	c.Debug("Saved entry %d for %s", entry.ID, entry.EntryDate)

	return ctx.JSON(http.StatusCreated, entry)
}

// GetEntries handles GET /api/v1/entries?days=N.
// Entries are returned newest first per the store ordering contract.
func (c *Controller) GetEntries(ctx echo.Context) error {
	days := parseQueryInt(ctx, "days", c.Settings.Journal.LookbackDays)
	since := c.today().AddDate(0, 0, -days).Format(journal.DateFormat)

	cacheKey := fmt.Sprintf("entries_since_%s", since)
	if cached, found := c.entriesCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached)
	}

	entries, err := c.DS.EntriesSince(since)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load entries", http.StatusInternalServerError)
	}

	c.entriesCache.Set(cacheKey, entries, gocache.DefaultExpiration)
	return ctx.JSON(http.StatusOK, entries)
}

// GetEntry handles GET /api/v1/entries/:id and includes the rendered
// thought flow for the entry.
func (c *Controller) GetEntry(ctx echo.Context) error {
	entry, err := c.DS.Get(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Entry not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to load entry", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, EntryDetail{
		Entry:    entry,
		FlowText: journal.FlowText(&entry),
	})
}

// DeleteEntry handles DELETE /api/v1/entries/:id. Deletion is permanent.
func (c *Controller) DeleteEntry(ctx echo.Context) error {
	if err := c.DS.Delete(ctx.Param("id")); err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Entry not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to delete entry", http.StatusInternalServerError)
	}

	c.entriesCache.Flush()
	return ctx.NoContent(http.StatusNoContent)
}

func isNotFound(err error) bool {
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.Category == errors.CategoryNotFound
	}
	return false
}
