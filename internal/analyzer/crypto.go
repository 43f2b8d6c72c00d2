package analyzer

import (
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/gateway"
)

// VolBounds clamps realized volatility into an asset-class range.
type VolBounds struct {
	Min float64
	Max float64
}

// CryptoAnalyzer produces crypto-domain analyses.
type CryptoAnalyzer struct {
	vol VolBounds
}

// NewCryptoAnalyzer creates a crypto analyzer with the configured
// volatility bounds.
func NewCryptoAnalyzer(vol VolBounds) *CryptoAnalyzer {
	return &CryptoAnalyzer{vol: vol}
}

// Analyze turns a quote into a full crypto analysis.
func (a *CryptoAnalyzer) Analyze(q models.Quote) models.CryptoAnalysis {
	price, _ := q.Price.Float64()
	closes := Series(q.Symbol, price, seriesPoints, cryptoStep)

	vol := RealizedVolatility(LogReturns(closes), WindowDay, volBarsPerDay)
	vol = Clamp(vol, a.vol.Min, a.vol.Max)

	ind := ComputeIndicators(closes)
	rec, conf := Recommend(price, ind)

	risk := Clamp(vol/a.vol.Max+absF(q.PercentChange)/20, 0, 1)

	volume := q.Volume
	if volume == 0 {
		volume = gateway.Noise(q.Symbol, "volume", 1e6, 5e9)
	}

	return models.CryptoAnalysis{
		Symbol:         q.Symbol,
		Price:          q.Price,
		Change24h:      q.PercentChange,
		Volume24h:      volume,
		Volatility:     vol,
		RiskScore:      risk,
		Indicators:     ind,
		Recommendation: rec,
		Confidence:     conf,
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
