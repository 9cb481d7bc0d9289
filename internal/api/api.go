// Package api implements the JSON HTTP API: journal entry CRUD and the
// read-side analytics endpoints.
package api

import (
	"fmt"
	"log"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tomohiko/kokorolog/internal/conf"
	"github.com/tomohiko/kokorolog/internal/datastore"
	"github.com/tomohiko/kokorolog/internal/logging"
	"github.com/tomohiko/kokorolog/internal/observability"
	"github.com/tomohiko/kokorolog/internal/weather"
)

const (
	entriesCacheExpiration = time.Minute
	entriesCacheCleanup    = 5 * time.Minute
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings
	Weather  *weather.Service

	logger         *log.Logger
	metrics        *observability.Metrics
	entriesCache   *gocache.Cache
	apiLogger      *slog.Logger
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error
}

// New creates a new API controller and registers all routes.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	weatherSvc *weather.Service, metrics *observability.Metrics, logger *log.Logger) (*Controller, error) {

	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		Echo:         e,
		DS:           ds,
		Settings:     settings,
		Weather:      weatherSvc,
		logger:       logger,
		metrics:      metrics,
		entriesCache: gocache.New(entriesCacheExpiration, entriesCacheCleanup),
	}

	// Configure the structured API logger
	c.apiLevelVar = new(slog.LevelVar)
	if settings.WebServer.Debug {
		c.apiLevelVar.Set(slog.LevelDebug)
	} else {
		c.apiLevelVar.Set(slog.LevelInfo)
	}
	apiLogger, closeFunc, err := logging.NewFileLogger("logs/web.log", "api", c.apiLevelVar)
	if err != nil {
		logging.Warn("Failed to initialize API file logger, using default", "error", err)
		apiLogger = slog.Default().With("service", "api")
		closeFunc = func() error { return nil }
	}
	c.apiLogger = apiLogger
	c.apiLoggerClose = closeFunc

	e.Use(middleware.Recover())
	e.Use(c.metricsMiddleware())

	c.Group = e.Group("/api/v1")

	c.initEntryRoutes()
	c.initAnalyticsRoutes()

	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	return c, nil
}

// Start begins listening on the configured port. It blocks until the server
// stops.
func (c *Controller) Start() error {
	addr := ":" + c.Settings.WebServer.Port
	c.apiLogger.Info("Starting web server", "addr", addr)
	return c.Echo.Start(addr)
}

// Shutdown closes the API logger. The echo server itself is shut down by the
// caller that started it.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			c.logger.Printf("Failed to close API log file: %v", err)
		}
	}
}

// metricsMiddleware counts completed requests by method, route and status.
func (c *Controller) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)
			if c.metrics != nil {
				status := ctx.Response().Status
				if err != nil {
					if he, ok := err.(*echo.HTTPError); ok {
						status = he.Code
					}
				}
				c.metrics.RecordHTTPRequest(ctx.Request().Method, ctx.Path(), strconv.Itoa(status))
			}
			return err
		}
	}
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates an error envelope with a fresh correlation ID.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	resp := &ErrorResponse{
		Message:       message,
		Code:          code,
		CorrelationID: uuid.New().String()[:8],
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// HandleError logs an error and sends the JSON error envelope to the client.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	c.logger.Printf("API Error [%s]: %s: %v", errorResp.CorrelationID, message, err)

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}
	c.apiLogger.Error("API Error",
		"correlation_id", errorResp.CorrelationID,
		"message", message,
		"error", errorStr,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, errorResp)
}

// Debug logs debug messages when debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)
		c.apiLogger.Debug(msg)
	}
}

// today returns the current calendar date in the configured time zone.
func (c *Controller) today() time.Time {
	return time.Now().In(c.Settings.TimeLocation())
}

// parseQueryInt returns the named query parameter as a positive integer,
// falling back to def when absent or invalid.
func parseQueryInt(ctx echo.Context, name string, def int) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
