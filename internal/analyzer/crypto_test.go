package analyzer

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cryptoQuote(symbol string, price, change float64) models.Quote {
	return models.Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(price),
		PercentChange: change,
		Source:        models.SourceLive,
		Timestamp:     time.Now(),
	}
}

func TestCryptoVolatilityWithinBounds(t *testing.T) {
	a := NewCryptoAnalyzer(VolBounds{Min: 0.02, Max: 0.12})

	for _, sym := range []string{"BTC", "ETH", "DOGE"} {
		res := a.Analyze(cryptoQuote(sym, 100, 2.5))
		assert.GreaterOrEqual(t, res.Volatility, 0.02)
		assert.LessOrEqual(t, res.Volatility, 0.12)
		assert.GreaterOrEqual(t, res.RiskScore, 0.0)
		assert.LessOrEqual(t, res.RiskScore, 1.0)
	}
}

func TestCryptoIndicatorsPopulated(t *testing.T) {
	a := NewCryptoAnalyzer(VolBounds{Min: 0.02, Max: 0.12})
	res := a.Analyze(cryptoQuote("BTC", 43000, 1.2))

	assert.Greater(t, res.Indicators.RSI, 0.0)
	assert.Less(t, res.Indicators.RSI, 100.0)
	assert.Positive(t, res.Indicators.SMA20)
	assert.Positive(t, res.Indicators.SMA50)
	assert.NotEmpty(t, res.Recommendation)
	assert.NotEmpty(t, res.Confidence)
}

func TestCryptoDeterministicForSameQuote(t *testing.T) {
	a := NewCryptoAnalyzer(VolBounds{Min: 0.02, Max: 0.12})
	q := cryptoQuote("SOL", 98, -0.4)

	r1 := a.Analyze(q)
	r2 := a.Analyze(q)
	assert.Equal(t, r1.Volatility, r2.Volatility)
	assert.Equal(t, r1.Indicators, r2.Indicators)
	assert.Equal(t, r1.Recommendation, r2.Recommendation)
}

func TestStockAnalysisFundamentals(t *testing.T) {
	a := NewStockAnalyzer(VolBounds{Min: 0.008, Max: 0.06})

	res := a.Analyze(cryptoQuote("AAPL", 175, 0.8))
	assert.Equal(t, 28.0, res.PERatio)
	assert.Equal(t, 0.005, res.DividendYield)
	assert.Equal(t, "mega", res.MarketCapTier)
	assert.GreaterOrEqual(t, res.RiskScore, 0.0)
	assert.LessOrEqual(t, res.RiskScore, 1.5)

	unknown := a.Analyze(cryptoQuote("ZZZT", 100, 0))
	assert.Equal(t, 20.0, unknown.PERatio)
	assert.Equal(t, "mid", unknown.MarketCapTier)
}

func TestRecommendVotes(t *testing.T) {
	// all four signals bullish
	rec, conf := Recommend(110, models.TechnicalIndicators{
		RSI: 30, MACDHist: 0.5, SMA20: 100, SMA50: 95,
	})
	assert.Equal(t, models.RecommendationBuy, rec)
	assert.Equal(t, models.ConfidenceHigh, conf)

	// all four bearish
	rec, conf = Recommend(90, models.TechnicalIndicators{
		RSI: 70, MACDHist: -0.5, SMA20: 100, SMA50: 105,
	})
	assert.Equal(t, models.RecommendationSell, rec)
	assert.Equal(t, models.ConfidenceHigh, conf)

	// mixed signals hold
	rec, conf = Recommend(100.5, models.TechnicalIndicators{
		RSI: 50, MACDHist: 0.5, SMA20: 101, SMA50: 100,
	})
	assert.Equal(t, models.RecommendationHold, rec)
	_ = conf
}
