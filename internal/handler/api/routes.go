package api

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler behind a single registration point.
type Handlers struct {
	analysis *AnalysisHandler
	stream   *StreamHandler
	health   *HealthHandler
}

func NewHandlers(analysis *AnalysisHandler, stream *StreamHandler, health *HealthHandler) *Handlers {
	return &Handlers{analysis: analysis, stream: stream, health: health}
}

func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	h.analysis.RegisterRoutes(e)
	h.stream.RegisterRoutes(e)
	h.health.RegisterRoutes(e)
}
