package analyzer

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionsQuote(symbol string, price float64) models.Quote {
	return models.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		Source:    models.SourceLive,
		Timestamp: time.Now(),
	}
}

func TestOptionsTermStructureBoundedInversion(t *testing.T) {
	a := NewOptionsAnalyzer()

	for _, sym := range []string{"AAPL", "TSLA", "SPY", "XYZ", "NVDA"} {
		res := a.Analyze(optionsQuote(sym, 200), "30d")
		require.Len(t, res.TermStructure, len(termTenors))

		prev := res.TermStructure[termTenors[0]]
		for _, tenor := range termTenors[1:] {
			v := res.TermStructure[tenor]
			assert.GreaterOrEqual(t, v, prev-maxTermInversion-1e-12,
				"tenor %s inverted beyond bound for %s", tenor, sym)
			prev = v
		}
	}
}

func TestOptionsATMVolWithinBounds(t *testing.T) {
	a := NewOptionsAnalyzer()

	for _, sym := range []string{"AAPL", "TSLA", "ZZZZ"} {
		res := a.Analyze(optionsQuote(sym, 150), "30d")
		assert.GreaterOrEqual(t, res.ATMVolatility, 0.10)
		assert.LessOrEqual(t, res.ATMVolatility, 0.60)
		assert.GreaterOrEqual(t, res.IVRank, 0.0)
		assert.LessOrEqual(t, res.IVRank, 100.0)
	}
}

func TestOptionsGreeksSane(t *testing.T) {
	a := NewOptionsAnalyzer()
	res := a.Analyze(optionsQuote("AAPL", 175), "30d")

	g := res.Greeks
	assert.InDelta(t, 0.5, g.Delta, 0.15, "ATM call delta should sit near 0.5")
	assert.Positive(t, g.Gamma)
	assert.Negative(t, g.Theta)
	assert.Positive(t, g.Vega)
	assert.Positive(t, g.Rho)
}

func TestOptionsStrikeLadder(t *testing.T) {
	a := NewOptionsAnalyzer()
	res := a.Analyze(optionsQuote("MSFT", 380), "30d")

	require.Len(t, res.RecommendedStrikes, 5)
	spot, _ := res.SpotPrice.Float64()
	assert.InDelta(t, spot*0.90, mustFloat(res.RecommendedStrikes[0].Strike), 0.01)
	assert.InDelta(t, spot*1.10, mustFloat(res.RecommendedStrikes[4].Strike), 0.01)

	// deltas decline as strikes rise
	for i := 1; i < len(res.RecommendedStrikes); i++ {
		assert.LessOrEqual(t, res.RecommendedStrikes[i].Delta, res.RecommendedStrikes[i-1].Delta)
	}
	assert.Equal(t, "ATM", res.RecommendedStrikes[2].Moneyness)
}

func TestOptionsUnknownExpiryDefaults(t *testing.T) {
	a := NewOptionsAnalyzer()
	res := a.Analyze(optionsQuote("AAPL", 175), "")
	assert.Equal(t, "30d", res.Expiry)
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
