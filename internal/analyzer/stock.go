package analyzer

import (
	"MarketPulse/internal/domain/models"
)

// Per-symbol fundamentals used when the upstream feed carries none.
// Values are indicative large-cap figures, not live data.
var stockVolBase = map[string]float64{
	"AAPL": 0.015, "MSFT": 0.015, "GOOGL": 0.015,
	"AMZN": 0.020, "META": 0.020, "NVDA": 0.020,
	"TSLA": 0.035,
	"JPM":  0.012, "V": 0.012, "JNJ": 0.012,
}

var stockCapFactor = map[string]float64{
	"AAPL": 0.10, "MSFT": 0.10, "GOOGL": 0.10, "AMZN": 0.10,
	"META": 0.20, "NVDA": 0.20, "TSLA": 0.20,
	"JPM": 0.15, "V": 0.15, "JNJ": 0.15,
}

var stockPERatios = map[string]float64{
	"AAPL": 28, "MSFT": 32, "GOOGL": 24, "AMZN": 45, "META": 22,
	"NVDA": 60, "TSLA": 50, "JPM": 12, "V": 35, "JNJ": 25,
}

var stockDividendYields = map[string]float64{
	"AAPL": 0.005, "MSFT": 0.007, "JPM": 0.025, "V": 0.008, "JNJ": 0.030,
	"GOOGL": 0, "AMZN": 0, "META": 0, "NVDA": 0, "TSLA": 0,
}

// StockAnalyzer produces stock-domain analyses.
type StockAnalyzer struct {
	vol VolBounds
}

// NewStockAnalyzer creates a stock analyzer with the configured
// volatility bounds.
func NewStockAnalyzer(vol VolBounds) *StockAnalyzer {
	return &StockAnalyzer{vol: vol}
}

// Analyze turns a quote into a full stock analysis.
func (a *StockAnalyzer) Analyze(q models.Quote) models.StockAnalysis {
	price, _ := q.Price.Float64()
	closes := Series(q.Symbol, price, seriesPoints, stockStep)

	vol := RealizedVolatility(LogReturns(closes), WindowDay, volBarsPerDay)
	vol = Clamp(vol, a.vol.Min, a.vol.Max)

	capFactor, ok := stockCapFactor[q.Symbol]
	if !ok {
		capFactor = 0.30
	}
	dailyVol, ok := stockVolBase[q.Symbol]
	if !ok {
		dailyVol = 0.018
	}
	risk := Clamp(dailyVol*15+capFactor, 0, 1.5)

	pe, ok := stockPERatios[q.Symbol]
	if !ok {
		pe = 20
	}
	dy, ok := stockDividendYields[q.Symbol]
	if !ok {
		dy = 0.015
	}

	ind := ComputeIndicators(closes)
	rec, conf := Recommend(price, ind)

	return models.StockAnalysis{
		Symbol:         q.Symbol,
		Price:          q.Price,
		Change24h:      q.PercentChange,
		Volatility:     vol,
		RiskScore:      risk,
		PERatio:        pe,
		DividendYield:  dy,
		MarketCapTier:  capTier(capFactor),
		Indicators:     ind,
		Recommendation: rec,
		Confidence:     conf,
	}
}

func capTier(factor float64) string {
	switch {
	case factor <= 0.10:
		return "mega"
	case factor <= 0.20:
		return "large"
	default:
		return "mid"
	}
}
