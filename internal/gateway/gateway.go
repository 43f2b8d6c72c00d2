package gateway

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
)

// Gateway fronts all upstream market data. Providers are tried in order
// with bounded retries; when everything fails the caller still gets a
// deterministic synthetic quote, never an error.
type Gateway struct {
	providers []repository.MarketProvider
	news      repository.SentimentProvider
	timeout   time.Duration
	retries   int
	log       *applogger.Logger
	metrics   repository.Metrics
}

// New creates a Gateway over an ordered provider chain.
func New(providers []repository.MarketProvider, news repository.SentimentProvider, timeout time.Duration, retries int, log *applogger.Logger, metrics repository.Metrics) *Gateway {
	if retries < 1 {
		retries = 1
	}
	return &Gateway{
		providers: providers,
		news:      news,
		timeout:   timeout,
		retries:   retries,
		log:       log,
		metrics:   metrics,
	}
}

// Quote returns a snapshot for the symbol. The synthetic fallback keeps
// this method total: it only fails on context cancellation.
func (g *Gateway) Quote(ctx context.Context, symbol string, domain models.Domain) (models.Quote, error) {
	for _, p := range g.providers {
		for attempt := 0; attempt < g.retries; attempt++ {
			if err := ctx.Err(); err != nil {
				return models.Quote{}, err
			}

			callCtx, cancel := context.WithTimeout(ctx, g.timeout)
			q, err := p.Quote(callCtx, symbol, domain)
			cancel()
			if err == nil {
				return q, nil
			}

			g.log.Warn("quote provider failed",
				applogger.String("provider", p.Name()),
				applogger.String("symbol", symbol),
				applogger.Int("attempt", attempt+1),
				applogger.Error(err),
			)
			g.metrics.RecordError("provider_" + p.Name())
		}
	}

	g.log.Debug("all quote providers failed, using synthetic quote",
		applogger.String("symbol", symbol),
		applogger.String("domain", string(domain)),
	)
	return SyntheticQuote(symbol, domain), nil
}

// Samples returns sentiment raw material for the symbol, falling back
// to deterministic synthetic samples.
func (g *Gateway) Samples(ctx context.Context, symbol string) (models.SentimentSamples, error) {
	if g.news != nil {
		for attempt := 0; attempt < g.retries; attempt++ {
			if err := ctx.Err(); err != nil {
				return models.SentimentSamples{}, err
			}

			callCtx, cancel := context.WithTimeout(ctx, g.timeout)
			s, err := g.news.Samples(callCtx, symbol)
			cancel()
			if err == nil {
				return s, nil
			}

			g.log.Warn("sentiment provider failed",
				applogger.String("provider", g.news.Name()),
				applogger.String("symbol", symbol),
				applogger.Int("attempt", attempt+1),
				applogger.Error(err),
			)
			g.metrics.RecordError("provider_" + g.news.Name())
		}
	}
	return SyntheticSamples(symbol), nil
}
