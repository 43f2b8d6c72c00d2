package api

import (
	"net/http"
	"time"

	xhttp "MarketPulse/pkg/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	started time.Time
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{started: time.Now(), version: version}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health/live", h.Live)
	e.GET("/health/ready", h.Ready)
}

func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Ready(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":         "ready",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
