package api

import (
	"errors"
	"net/http"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/router"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig controls the per-client token bucket on the analysis
// endpoints. Disabled means every request passes.
type RateLimitConfig struct {
	Enabled      bool
	Capacity     float64
	RefillPerSec float64
}

// AnalysisHandler exposes the analysis endpoints over Echo.
type AnalysisHandler struct {
	logger *xlogger.Logger
	engine *usecase.Engine
	rl     *ratelimit.Limiter
	rlCfg  RateLimitConfig
}

func NewAnalysisHandler(logger *xlogger.Logger, engine *usecase.Engine, rlCfg RateLimitConfig) *AnalysisHandler {
	return &AnalysisHandler{
		logger: logger,
		engine: engine,
		rl:     ratelimit.New(),
		rlCfg:  rlCfg,
	}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/analyze", h.Analyze)
	g.POST("/options/analyze", h.AnalyzeOptions)
	g.POST("/forex/analyze", h.AnalyzeForex)
	g.POST("/sentiment/analyze", h.AnalyzeSentiment)
	g.POST("/correlation/analyze", h.AnalyzeCorrelation)
	g.GET("/recommendations", h.Recommendations)
}

func (h *AnalysisHandler) Analyze(c echo.Context) error {
	if err := h.allow(c, "analyze"); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.Analyze(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "analyze", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) AnalyzeOptions(c echo.Context) error {
	if err := h.allow(c, "options"); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := &models.OptionsAnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.AnalyzeOptions(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "options", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) AnalyzeForex(c echo.Context) error {
	if err := h.allow(c, "forex"); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := &models.ForexAnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.AnalyzeForex(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "forex", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) AnalyzeSentiment(c echo.Context) error {
	if err := h.allow(c, "sentiment"); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := &models.SentimentAnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.AnalyzeSentiment(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "sentiment", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) AnalyzeCorrelation(c echo.Context) error {
	if err := h.allow(c, "correlation"); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := &models.CorrelationAnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.AnalyzeCorrelation(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "correlation", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Recommendations(c echo.Context) error {
	if err := h.allow(c, "recommendations"); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	entries, err := h.engine.Recommendations(c.Request().Context())
	if err != nil {
		return h.fail(c, "recommendations", err)
	}

	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), len(entries))
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

// allow consumes one token for the caller, keyed by IP and endpoint.
func (h *AnalysisHandler) allow(c echo.Context, endpoint string) error {
	if !h.rlCfg.Enabled {
		return nil
	}
	if h.rl.Allow(c.RealIP()+":"+endpoint, h.rlCfg.Capacity, h.rlCfg.RefillPerSec) {
		return nil
	}
	h.logger.Warn("request rate limited",
		xlogger.String("remote", c.RealIP()),
		xlogger.String("endpoint", endpoint),
	)
	return xhttp.TooManyRequestsError("rate limit exceeded, retry later")
}

func (h *AnalysisHandler) fail(c echo.Context, endpoint string, err error) error {
	if errors.Is(err, router.ErrUnclassifiable) {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_UNCLASSIFIABLE", "symbol", err.Error(), http.StatusBadRequest))
	}
	h.logger.Error("analysis failed",
		xlogger.String("endpoint", endpoint),
		xlogger.Error(err),
	)
	return xhttp.AppErrorResponse(c, err)
}
