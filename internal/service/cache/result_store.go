package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	pkgcache "MarketPulse/pkg/cache"
	applogger "MarketPulse/pkg/logger"
)

// TTLConfig holds the freshness window per analysis domain.
type TTLConfig struct {
	Crypto      time.Duration
	Stock       time.Duration
	Options     time.Duration
	Forex       time.Duration
	Sentiment   time.Duration
	Correlation time.Duration
}

// TTLFor returns the window for a domain, zero when unknown.
func (c TTLConfig) TTLFor(domain models.Domain) time.Duration {
	switch domain {
	case models.DomainCrypto:
		return c.Crypto
	case models.DomainStock:
		return c.Stock
	case models.DomainOptions:
		return c.Options
	case models.DomainForex:
		return c.Forex
	case models.DomainSentiment:
		return c.Sentiment
	case models.DomainCorrelation:
		return c.Correlation
	default:
		return 0
	}
}

// ResultStore caches analysis envelopes. Hits come back re-tagged as
// cached with the payload untouched; an entry that fails to decode is
// treated as a miss for that key only.
type ResultStore struct {
	cache   BytesCache
	ttl     TTLConfig
	log     *applogger.Logger
	metrics repository.Metrics
}

// NewResultStore creates a ResultStore over any BytesCache.
func NewResultStore(cache BytesCache, ttl TTLConfig, log *applogger.Logger, metrics repository.Metrics) *ResultStore {
	return &ResultStore{cache: cache, ttl: ttl, log: log, metrics: metrics}
}

// Key builds the canonical cache key: domain:PRIMARY[:SECONDARY].
func Key(domain models.Domain, symbols ...string) string {
	params := make([]interface{}, len(symbols))
	for i, s := range symbols {
		params[i] = strings.ToUpper(s)
	}
	return pkgcache.GenerateKeyWithParams(string(domain), params...)
}

// Get returns a fresh cached result, re-tagged as cached.
func (s *ResultStore) Get(ctx context.Context, key string) (models.AnalysisResult, bool) {
	b, ok, err := s.cache.GetBytes(key)
	if err != nil || !ok {
		return models.AnalysisResult{}, false
	}

	var res models.AnalysisResult
	if err := json.Unmarshal(b, &res); err != nil {
		s.log.Warn("corrupt cache entry dropped",
			applogger.String("key", key),
			applogger.Error(err),
		)
		s.metrics.RecordError("cache_corrupt")
		return models.AnalysisResult{}, false
	}

	res.Source = models.SourceCached
	return res, true
}

// Put stores a result under its domain TTL. The write replaces any
// previous entry atomically.
func (s *ResultStore) Put(ctx context.Context, key string, res models.AnalysisResult, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl.TTLFor(res.Domain)
	}
	b, err := json.Marshal(res)
	if err != nil {
		s.log.Error("marshal result for cache", applogger.Error(err))
		return
	}
	if err := s.cache.SetBytes(key, b, ttl); err != nil {
		s.log.Warn("cache write failed",
			applogger.String("key", key),
			applogger.Error(err),
		)
		s.metrics.RecordError("cache_write")
	}
}

// TTLFor exposes the configured window for a domain.
func (s *ResultStore) TTLFor(domain models.Domain) time.Duration {
	return s.ttl.TTLFor(domain)
}
