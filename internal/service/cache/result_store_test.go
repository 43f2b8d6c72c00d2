package cache

import (
	"context"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	applogger "MarketPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, string) {}
func (nopMetrics) RecordCacheHit(string)         {}
func (nopMetrics) RecordCacheMiss(string)        {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) SetStreamClients(int)          {}
func (nopMetrics) RecordStreamPush(string)       {}
func (nopMetrics) RecordLatency(string, float64) {}

func testStore(t *testing.T) *ResultStore {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	return NewResultStore(NewTTLCache(), TTLConfig{
		Crypto: 90 * time.Second,
		Forex:  30 * time.Second,
	}, log, nopMetrics{})
}

func TestKeyFormat(t *testing.T) {
	assert.Equal(t, "crypto:BTC", Key(models.DomainCrypto, "btc"))
	assert.Equal(t, "correlation:ETH:SPY", Key(models.DomainCorrelation, "eth", "spy"))
}

func TestResultStoreHitRetagsSource(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := models.NewAnalysisResult(models.DomainCrypto, "BTC", models.SourceLive, map[string]any{"price": 43000})
	require.NoError(t, err)

	key := Key(models.DomainCrypto, "BTC")
	s.Put(ctx, key, res, 0)

	got, ok := s.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, models.SourceCached, got.Source)
	assert.JSONEq(t, string(res.Data), string(got.Data), "payload must be byte-identical")
	assert.Equal(t, res.Domain, got.Domain)
	assert.Equal(t, res.Symbol, got.Symbol)
}

func TestResultStoreMissAfterTTL(t *testing.T) {
	log, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	s := NewResultStore(NewTTLCache(), TTLConfig{Crypto: time.Millisecond}, log, nopMetrics{})
	ctx := context.Background()

	res, err := models.NewAnalysisResult(models.DomainCrypto, "BTC", models.SourceLive, "x")
	require.NoError(t, err)

	key := Key(models.DomainCrypto, "BTC")
	s.Put(ctx, key, res, 0)

	time.Sleep(5 * time.Millisecond)
	_, ok := s.Get(ctx, key)
	assert.False(t, ok)
}

func TestResultStoreCorruptEntryIsMiss(t *testing.T) {
	inner := NewTTLCache()
	log, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	s := NewResultStore(inner, TTLConfig{}, log, nopMetrics{})

	key := Key(models.DomainStock, "AAPL")
	require.NoError(t, inner.SetBytes(key, []byte("{not json"), time.Minute))

	_, ok := s.Get(context.Background(), key)
	assert.False(t, ok)
}

func TestResultStoreMissUnknownKey(t *testing.T) {
	s := testStore(t)
	_, ok := s.Get(context.Background(), "crypto:UNSET")
	assert.False(t, ok)
}
