package api

import (
	"net/http"

	"MarketPulse/internal/stream"
	xlogger "MarketPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// StreamHandler upgrades HTTP connections onto the result stream.
type StreamHandler struct {
	logger   *xlogger.Logger
	hub      *stream.Hub
	upgrader websocket.Upgrader
}

func NewStreamHandler(logger *xlogger.Logger, hub *stream.Hub) *StreamHandler {
	return &StreamHandler{
		logger: logger,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/ws", h.Serve)
}

// Serve upgrades the request and hands the connection to the hub. The
// upgrader writes its own error response on failure.
func (h *StreamHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			xlogger.String("remote", c.RealIP()),
			xlogger.Error(err),
		)
		return nil
	}

	stream.ServeWS(h.hub, conn, h.logger)
	return nil
}
