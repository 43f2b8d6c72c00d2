package analyzer

import (
	"strings"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/gateway"
	"MarketPulse/internal/router"

	"github.com/shopspring/decimal"
)

// standardLot is the notional a pip value is quoted against.
const standardLot = 100_000

// ForexAnalyzer produces forex-domain analyses.
type ForexAnalyzer struct {
	vol VolBounds
}

// NewForexAnalyzer creates a forex analyzer with the configured
// volatility bounds.
func NewForexAnalyzer(vol VolBounds) *ForexAnalyzer {
	return &ForexAnalyzer{vol: vol}
}

// Analyze turns a mid quote into a full pair analysis.
func (a *ForexAnalyzer) Analyze(q models.Quote) models.ForexAnalysis {
	pair := q.Symbol
	base, quote := router.SplitPair(pair)
	rate, _ := q.Price.Float64()

	pip := pipSize(quote)
	spreadPips := gateway.Noise(pair, "spread", 0.8, 3.0)
	half := pip.Mul(decimal.NewFromFloat(spreadPips / 2))
	spread := half.Mul(decimal.NewFromInt(2))

	closes := Series(pair, rate, seriesPoints, forexStep)
	vol := RealizedVolatility(LogReturns(closes), WindowDay, volBarsPerDay)
	vol = Clamp(vol, a.vol.Min, a.vol.Max)

	support, resistance := band(closes, 48)

	basket := Series("USDBASKET", 100, seriesPoints, forexStep)
	corr := Pearson(
		LogReturns(closes[len(closes)-WindowDay-1:]),
		LogReturns(basket[len(basket)-WindowDay-1:]),
	)

	return models.ForexAnalysis{
		Pair:              pair,
		BaseCurrency:      base,
		QuoteCurrency:     quote,
		Rate:              q.Price,
		Bid:               q.Price.Sub(half),
		Ask:               q.Price.Add(half),
		Spread:            spread,
		PipValue:          pip.Mul(decimal.NewFromInt(standardLot)),
		Change24h:         q.PercentChange,
		Volatility:        vol,
		Trend:             trendLabel(Drift(closes, WindowDay)),
		Support:           decimal.NewFromFloat(support),
		Resistance:        decimal.NewFromFloat(resistance),
		BasketCorrelation: corr,
	}
}

// pipSize is 0.01 for JPY-quoted pairs and 0.0001 otherwise.
func pipSize(quoteCurrency string) decimal.Decimal {
	if strings.EqualFold(quoteCurrency, "JPY") {
		return decimal.NewFromFloat(0.01)
	}
	return decimal.NewFromFloat(0.0001)
}

func trendLabel(drift float64) string {
	switch {
	case drift > 0.0005:
		return "UP"
	case drift < -0.0005:
		return "DOWN"
	default:
		return "SIDEWAYS"
	}
}

// band returns the min and max close over the last n points.
func band(closes []float64, n int) (low, high float64) {
	if len(closes) == 0 {
		return 0, 0
	}
	if n > len(closes) {
		n = len(closes)
	}
	low = closes[len(closes)-n]
	high = low
	for _, c := range closes[len(closes)-n:] {
		if c < low {
			low = c
		}
		if c > high {
			high = c
		}
	}
	return low, high
}
