package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isCryptoTest(s string) bool {
	switch s {
	case "BTC", "ETH", "SOL":
		return true
	}
	return false
}

func TestCorrelationSymmetry(t *testing.T) {
	a := NewCorrelationAnalyzer(isCryptoTest)

	ab := a.Analyze("BTC", 43000, "SPY", 450)
	ba := a.Analyze("SPY", 450, "BTC", 43000)

	assert.InDelta(t, ab.Correlations.Day, ba.Correlations.Day, 1e-12)
	assert.InDelta(t, ab.Correlations.Week, ba.Correlations.Week, 1e-12)
	assert.InDelta(t, ab.Correlations.Month, ba.Correlations.Month, 1e-12)
}

func TestCorrelationBounds(t *testing.T) {
	a := NewCorrelationAnalyzer(isCryptoTest)
	res := a.Analyze("ETH", 2600, "SPY", 450)

	for _, c := range []float64{res.Correlations.Day, res.Correlations.Week, res.Correlations.Month} {
		assert.GreaterOrEqual(t, c, -1.0)
		assert.LessOrEqual(t, c, 1.0)
	}
}

func TestCorrelationBTCDominanceOnlyForCrypto(t *testing.T) {
	a := NewCorrelationAnalyzer(isCryptoTest)

	crypto := a.Analyze("BTC", 43000, "SPY", 450)
	require.NotNil(t, crypto.BTCDominance)
	assert.GreaterOrEqual(t, *crypto.BTCDominance, 45.0)
	assert.LessOrEqual(t, *crypto.BTCDominance, 55.0)

	stock := a.Analyze("AAPL", 175, "SPY", 450)
	assert.Nil(t, stock.BTCDominance)
}

func TestCorrelationDeterministic(t *testing.T) {
	a := NewCorrelationAnalyzer(isCryptoTest)

	r1 := a.Analyze("SOL", 98, "SPY", 450)
	r2 := a.Analyze("SOL", 98, "SPY", 450)
	assert.Equal(t, r1.Correlations, r2.Correlations)
	assert.Equal(t, r1.Regime, r2.Regime)
}
