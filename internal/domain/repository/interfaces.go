package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

// MarketProvider fetches live quotes from one upstream data source.
type MarketProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Quote returns a snapshot for the symbol. Implementations must
	// respect ctx cancellation and deadlines.
	Quote(ctx context.Context, symbol string, domain models.Domain) (models.Quote, error)
}

// SentimentProvider fetches scored news and social samples for a symbol.
type SentimentProvider interface {
	Name() string
	Samples(ctx context.Context, symbol string) (models.SentimentSamples, error)
}

// ResultStore caches analysis envelopes keyed by domain and symbols.
type ResultStore interface {
	Get(ctx context.Context, key string) (models.AnalysisResult, bool)
	Put(ctx context.Context, key string, res models.AnalysisResult, ttl time.Duration)
}

// Broadcaster pushes results to stream subscribers.
type Broadcaster interface {
	Push(res models.AnalysisResult)
}

// Publisher sends computed results to an external topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// Metrics records engine activity.
type Metrics interface {
	RecordAnalysis(domain, source string)
	RecordCacheHit(domain string)
	RecordCacheMiss(domain string)
	RecordError(kind string)
	SetStreamClients(n int)
	RecordStreamPush(domain string)
	RecordLatency(op string, seconds float64)
}
