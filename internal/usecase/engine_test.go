package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"MarketPulse/internal/analyzer"
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/gateway"
	"MarketPulse/internal/router"
	svccache "MarketPulse/internal/service/cache"
	applogger "MarketPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCryptoSymbols = []string{"BTC", "ETH", "ADA", "SOL", "DOT", "MATIC", "BNB", "XRP", "DOGE", "LINK"}

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, string) {}
func (nopMetrics) RecordCacheHit(string)         {}
func (nopMetrics) RecordCacheMiss(string)        {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) SetStreamClients(int)          {}
func (nopMetrics) RecordStreamPush(string)       {}
func (nopMetrics) RecordLatency(string, float64) {}

type recordingHub struct {
	pushed []models.AnalysisResult
}

func (h *recordingHub) Push(res models.AnalysisResult) {
	h.pushed = append(h.pushed, res)
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)
	return log
}

// newTestEngine builds an Engine with no upstream providers, so every
// quote resolves through the deterministic fallback.
func newTestEngine(t *testing.T) (*Engine, *recordingHub) {
	t.Helper()
	log := testLogger(t)
	rt := router.New(testCryptoSymbols)
	gw := gateway.New(nil, nil, 50*time.Millisecond, 1, log, nopMetrics{})
	store := svccache.NewResultStore(svccache.NewTTLCache(), svccache.TTLConfig{
		Crypto:      time.Minute,
		Stock:       time.Minute,
		Options:     time.Minute,
		Forex:       time.Minute,
		Sentiment:   time.Minute,
		Correlation: time.Minute,
	}, log, nopMetrics{})
	hub := &recordingHub{}

	eng := New(Config{
		Router:      rt,
		Gateway:     gw,
		Crypto:      analyzer.NewCryptoAnalyzer(analyzer.VolBounds{Min: 0.02, Max: 0.12}),
		Stock:       analyzer.NewStockAnalyzer(analyzer.VolBounds{Min: 0.008, Max: 0.06}),
		Options:     analyzer.NewOptionsAnalyzer(),
		Forex:       analyzer.NewForexAnalyzer(analyzer.VolBounds{Min: 0.002, Max: 0.02}),
		Sentiment:   analyzer.NewSentimentAnalyzer(analyzer.SentimentConfig{NewsWeight: 0.6, SocialWeight: 0.4, TrendingMentions: 5000, LowVolumeSamples: 10, FullVolumeSamples: 500}),
		Correlation: analyzer.NewCorrelationAnalyzer(rt.IsCrypto),
		Store:       store,
		Hub:         hub,
		Benchmark:   "SPY",
		Metrics:     nopMetrics{},
		Logger:      log,
	})
	return eng, hub
}

func TestEngineAnalyzeCryptoFallsBackToSynthetic(t *testing.T) {
	eng, hub := newTestEngine(t)

	res, err := eng.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "btc"})
	require.NoError(t, err)

	assert.Equal(t, models.DomainCrypto, res.Domain)
	assert.Equal(t, "BTC", res.Symbol)
	assert.Equal(t, models.SourceSynthetic, res.Source)

	var payload models.CryptoAnalysis
	require.NoError(t, json.Unmarshal(res.Data, &payload))
	assert.Equal(t, "BTC", payload.Symbol)
	assert.True(t, payload.Price.IsPositive())
	assert.GreaterOrEqual(t, payload.Volatility, 0.02)
	assert.LessOrEqual(t, payload.Volatility, 0.12)

	require.Len(t, hub.pushed, 1)
	assert.Equal(t, "BTC", hub.pushed[0].Symbol)
}

func TestEngineAnalyzeStock(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := eng.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, models.DomainStock, res.Domain)

	var payload models.StockAnalysis
	require.NoError(t, json.Unmarshal(res.Data, &payload))
	assert.InDelta(t, 28.0, payload.PERatio, 1e-9)
	assert.NotEmpty(t, payload.MarketCapTier)
}

func TestEngineCachedResultRetaggedPayloadIdentical(t *testing.T) {
	eng, hub := newTestEngine(t)
	ctx := context.Background()

	first, err := eng.Analyze(ctx, models.AnalyzeRequest{Symbol: "ETH"})
	require.NoError(t, err)
	require.Equal(t, models.SourceSynthetic, first.Source)

	second, err := eng.Analyze(ctx, models.AnalyzeRequest{Symbol: "ETH"})
	require.NoError(t, err)

	assert.Equal(t, models.SourceCached, second.Source)
	assert.JSONEq(t, string(first.Data), string(second.Data))
	assert.True(t, first.GeneratedAt.Equal(second.GeneratedAt))

	// only the first call computes and pushes
	assert.Len(t, hub.pushed, 1)
}

func TestEngineAnalyzeRejectsUnclassifiable(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "TOOLONGSYMBOL99"})
	require.Error(t, err)
	assert.ErrorIs(t, err, router.ErrUnclassifiable)

	_, err = eng.Analyze(context.Background(), models.AnalyzeRequest{Symbol: "AAPL", AssetType: "bond"})
	assert.ErrorIs(t, err, router.ErrUnclassifiable)
}

func TestEngineAnalyzeOptionsDefaultsExpiry(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := eng.AnalyzeOptions(context.Background(), models.OptionsAnalyzeRequest{Symbol: "aapl"})
	require.NoError(t, err)

	assert.Equal(t, models.DomainOptions, res.Domain)
	assert.Equal(t, "AAPL:30d", res.Symbol)

	var payload models.OptionsAnalysis
	require.NoError(t, json.Unmarshal(res.Data, &payload))
	assert.Equal(t, "30d", payload.Expiry)
	assert.Len(t, payload.RecommendedStrikes, 5)
}

func TestEngineAnalyzeForexRejectsUnknownPair(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.AnalyzeForex(context.Background(), models.ForexAnalyzeRequest{Pair: "ABCDEF"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, router.ErrUnclassifiable))
}

func TestEngineAnalyzeForexPair(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := eng.AnalyzeForex(context.Background(), models.ForexAnalyzeRequest{Pair: "eurusd"})
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", res.Symbol)

	var payload models.ForexAnalysis
	require.NoError(t, json.Unmarshal(res.Data, &payload))
	assert.Equal(t, "EUR", payload.BaseCurrency)
	assert.Equal(t, "USD", payload.QuoteCurrency)
	assert.True(t, payload.Bid.LessThan(payload.Ask))
}

func TestEngineAnalyzeSentiment(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := eng.AnalyzeSentiment(context.Background(), models.SentimentAnalyzeRequest{Symbol: "TSLA"})
	require.NoError(t, err)

	var payload models.SentimentAnalysis
	require.NoError(t, json.Unmarshal(res.Data, &payload))
	assert.Contains(t, []string{"BULLISH", "BEARISH", "NEUTRAL"}, payload.Label)
	assert.GreaterOrEqual(t, payload.Confidence, 0.2)
	assert.LessOrEqual(t, payload.Confidence, 0.95)

	// both sub-signals carry their tone breakdowns
	assert.Positive(t, payload.News.Articles)
	assert.LessOrEqual(t, payload.News.Positive+payload.News.Negative, payload.News.Articles)
	assert.NotEmpty(t, payload.News.TopHeadlines)
	assert.Positive(t, payload.Social.Mentions)
	assert.LessOrEqual(t, payload.Social.Positive+payload.Social.Negative, payload.Social.Mentions)
	assert.Positive(t, payload.Social.Engagement)
	assert.Equal(t, payload.News.Articles+payload.Social.Mentions, payload.SampleVolume)
}

func TestEngineAnalyzeCorrelationDefaultBenchmark(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := eng.AnalyzeCorrelation(context.Background(), models.CorrelationAnalyzeRequest{Symbol: "BTC"})
	require.NoError(t, err)
	assert.Equal(t, "BTC:SPY", res.Symbol)

	var payload models.CorrelationAnalysis
	require.NoError(t, json.Unmarshal(res.Data, &payload))
	assert.Equal(t, "SPY", payload.Benchmark)
	require.NotNil(t, payload.BTCDominance)
	assert.GreaterOrEqual(t, *payload.BTCDominance, 45.0)
	assert.Less(t, *payload.BTCDominance, 55.0)
}

type domainRecordingProvider struct {
	domains map[string]models.Domain
}

func (p *domainRecordingProvider) Name() string { return "recording" }

func (p *domainRecordingProvider) Quote(ctx context.Context, symbol string, domain models.Domain) (models.Quote, error) {
	p.domains[symbol] = domain
	return models.Quote{}, errors.New("unavailable")
}

func TestEngineCorrelationBenchmarkKeepsItsOwnDomain(t *testing.T) {
	log := testLogger(t)
	rt := router.New(testCryptoSymbols)
	rec := &domainRecordingProvider{domains: make(map[string]models.Domain)}
	gw := gateway.New([]repository.MarketProvider{rec}, nil, 50*time.Millisecond, 1, log, nopMetrics{})
	store := svccache.NewResultStore(svccache.NewTTLCache(), svccache.TTLConfig{Correlation: time.Minute}, log, nopMetrics{})

	eng := New(Config{
		Router:      rt,
		Gateway:     gw,
		Correlation: analyzer.NewCorrelationAnalyzer(rt.IsCrypto),
		Store:       store,
		Hub:         &recordingHub{},
		Benchmark:   "SPY",
		Metrics:     nopMetrics{},
		Logger:      log,
	})

	_, err := eng.AnalyzeCorrelation(context.Background(), models.CorrelationAnalyzeRequest{Symbol: "SPY", Benchmark: "BTC"})
	require.NoError(t, err)

	assert.Equal(t, models.DomainStock, rec.domains["SPY"])
	assert.Equal(t, models.DomainCrypto, rec.domains["BTC"])
}

func TestEngineRecommendationsRankedDescending(t *testing.T) {
	eng, _ := newTestEngine(t)

	entries, err := eng.Recommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, len(testCryptoSymbols))

	assert.True(t, sort.SliceIsSorted(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	}))

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		assert.Contains(t, testCryptoSymbols, e.Symbol)
		_, dup := seen[e.Symbol]
		assert.False(t, dup, "duplicate symbol %s", e.Symbol)
		seen[e.Symbol] = struct{}{}
	}
}
