package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct {
	name  string
	calls int
}

func (p *failingProvider) Name() string { return p.name }

func (p *failingProvider) Quote(ctx context.Context, symbol string, domain models.Domain) (models.Quote, error) {
	p.calls++
	return models.Quote{}, errors.New("upstream down")
}

type fixedProvider struct {
	quote models.Quote
}

func (p *fixedProvider) Name() string { return "fixed" }

func (p *fixedProvider) Quote(ctx context.Context, symbol string, domain models.Domain) (models.Quote, error) {
	return p.quote, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, string) {}
func (nopMetrics) RecordCacheHit(string)         {}
func (nopMetrics) RecordCacheMiss(string)        {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) SetStreamClients(int)          {}
func (nopMetrics) RecordStreamPush(string)       {}
func (nopMetrics) RecordLatency(string, float64) {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func TestQuoteFallsBackToSynthetic(t *testing.T) {
	p1 := &failingProvider{name: "primary"}
	p2 := &failingProvider{name: "secondary"}
	g := New([]repository.MarketProvider{p1, p2}, nil, 100*time.Millisecond, 2, testLogger(t), nopMetrics{})

	q, err := g.Quote(context.Background(), "BTC", models.DomainCrypto)
	require.NoError(t, err)

	assert.Equal(t, models.SourceSynthetic, q.Source)
	assert.Equal(t, "BTC", q.Symbol)
	assert.True(t, q.Price.IsPositive())
	assert.Equal(t, 2, p1.calls)
	assert.Equal(t, 2, p2.calls)
}

func TestQuotePrefersFirstProvider(t *testing.T) {
	want := models.Quote{
		Symbol: "AAPL",
		Price:  decimal.NewFromFloat(187.5),
		Source: models.SourceLive,
	}
	p1 := &fixedProvider{quote: want}
	p2 := &failingProvider{name: "secondary"}
	g := New([]repository.MarketProvider{p1, p2}, nil, 100*time.Millisecond, 2, testLogger(t), nopMetrics{})

	q, err := g.Quote(context.Background(), "AAPL", models.DomainStock)
	require.NoError(t, err)

	assert.Equal(t, models.SourceLive, q.Source)
	assert.True(t, q.Price.Equal(want.Price))
	assert.Zero(t, p2.calls)
}

func TestQuoteRespectsCancelledContext(t *testing.T) {
	p := &failingProvider{name: "primary"}
	g := New([]repository.MarketProvider{p}, nil, 100*time.Millisecond, 2, testLogger(t), nopMetrics{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Quote(ctx, "BTC", models.DomainCrypto)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSyntheticQuoteDeterministic(t *testing.T) {
	a := SyntheticQuote("ETH", models.DomainCrypto)
	b := SyntheticQuote("ETH", models.DomainCrypto)

	assert.True(t, a.Price.Equal(b.Price))
	assert.Equal(t, a.PercentChange, b.PercentChange)

	c := SyntheticQuote("BTC", models.DomainCrypto)
	assert.False(t, a.Price.Equal(c.Price))
}

func TestSamplesFallsBackToSynthetic(t *testing.T) {
	g := New(nil, nil, 100*time.Millisecond, 1, testLogger(t), nopMetrics{})

	s, err := g.Samples(context.Background(), "TSLA")
	require.NoError(t, err)

	assert.Equal(t, models.SourceSynthetic, s.Source)
	assert.GreaterOrEqual(t, s.NewsScore, -1.0)
	assert.LessOrEqual(t, s.NewsScore, 1.0)
	assert.Positive(t, s.SocialMentions)

	again, err := g.Samples(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, s.NewsScore, again.NewsScore)
}

func TestNoiseStaysInRange(t *testing.T) {
	for _, sym := range []string{"BTC", "ETH", "AAPL", "EURUSD", "ZZZZ"} {
		v := Noise(sym, "unit", 0, 1)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
