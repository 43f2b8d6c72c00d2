package analyzer

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forexQuote(pair string, rate float64) models.Quote {
	return models.Quote{
		Symbol:    pair,
		Price:     decimal.NewFromFloat(rate),
		Source:    models.SourceLive,
		Timestamp: time.Now(),
	}
}

func TestForexSpreadStraddlesMid(t *testing.T) {
	a := NewForexAnalyzer(VolBounds{Min: 0.002, Max: 0.02})
	res := a.Analyze(forexQuote("EURUSD", 1.085))

	assert.True(t, res.Bid.LessThan(res.Rate))
	assert.True(t, res.Ask.GreaterThan(res.Rate))
	assert.True(t, res.Spread.Equal(res.Ask.Sub(res.Bid)))
	assert.Equal(t, "EUR", res.BaseCurrency)
	assert.Equal(t, "USD", res.QuoteCurrency)
}

func TestForexPipValue(t *testing.T) {
	a := NewForexAnalyzer(VolBounds{Min: 0.002, Max: 0.02})

	usd := a.Analyze(forexQuote("EURUSD", 1.085))
	assert.True(t, usd.PipValue.Equal(decimal.NewFromInt(10)), "0.0001 pip on a standard lot is 10 quote units")

	jpy := a.Analyze(forexQuote("USDJPY", 149.5))
	assert.True(t, jpy.PipValue.Equal(decimal.NewFromInt(1000)), "0.01 pip on a standard lot is 1000 JPY")
}

func TestForexVolatilityAndBand(t *testing.T) {
	a := NewForexAnalyzer(VolBounds{Min: 0.002, Max: 0.02})
	res := a.Analyze(forexQuote("GBPJPY", 189.9))

	assert.GreaterOrEqual(t, res.Volatility, 0.002)
	assert.LessOrEqual(t, res.Volatility, 0.02)

	rate, _ := res.Rate.Float64()
	support, _ := res.Support.Float64()
	resistance, _ := res.Resistance.Float64()
	require.Positive(t, support)
	assert.LessOrEqual(t, support, rate)
	assert.GreaterOrEqual(t, resistance, rate)
}

func TestForexTrendLabel(t *testing.T) {
	a := NewForexAnalyzer(VolBounds{Min: 0.002, Max: 0.02})
	res := a.Analyze(forexQuote("AUDUSD", 0.655))

	assert.Contains(t, []string{"UP", "DOWN", "SIDEWAYS"}, res.Trend)
	assert.GreaterOrEqual(t, res.BasketCorrelation, -1.0)
	assert.LessOrEqual(t, res.BasketCorrelation, 1.0)
}
