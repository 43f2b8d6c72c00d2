package analyzer

import (
	"math"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/gateway"

	"github.com/shopspring/decimal"
)

// Tenors of the volatility term structure, shortest first.
var termTenors = []string{"7d", "14d", "30d", "60d", "90d"}

var tenorDays = map[string]float64{
	"7d": 7, "14d": 14, "30d": 30, "60d": 60, "90d": 90,
}

// maxTermInversion bounds how far a longer tenor's vol may sit below
// the previous one. Raw noise past this bound is smoothed away.
const maxTermInversion = 0.01

const riskFreeRate = 0.05

var atmVolBase = map[string]float64{
	"AAPL": 0.20, "MSFT": 0.20, "GOOGL": 0.20,
	"AMZN": 0.25, "META": 0.25,
	"NVDA": 0.35, "TSLA": 0.35,
	"SPY": 0.18, "QQQ": 0.18,
}

// OptionsAnalyzer produces options-domain analyses.
type OptionsAnalyzer struct{}

// NewOptionsAnalyzer creates an options analyzer.
func NewOptionsAnalyzer() *OptionsAnalyzer {
	return &OptionsAnalyzer{}
}

// Analyze builds the options surface for an underlying at one expiry.
func (a *OptionsAnalyzer) Analyze(q models.Quote, expiry string) models.OptionsAnalysis {
	spot, _ := q.Price.Float64()

	atmVol := a.atmVolatility(q.Symbol)
	skew := 0.05 + gateway.Noise(q.Symbol, "skew", -0.02, 0.02)
	term := a.termStructure(q.Symbol, atmVol)

	days, ok := tenorDays[expiry]
	if !ok {
		expiry = "30d"
		days = 30
	}
	expiryVol := term[expiry]
	greeks := blackScholesCallGreeks(spot, spot, days/365, riskFreeRate, expiryVol)

	pcr := 0.65 + gateway.Noise(q.Symbol, "put_call_ratio", -0.15, 0.15)
	ivRank := Clamp(45+gateway.Noise(q.Symbol, "iv_rank", -20, 20), 0, 100)

	rec, conf := optionsStance(ivRank, pcr)

	return models.OptionsAnalysis{
		Symbol:             q.Symbol,
		SpotPrice:          q.Price,
		Expiry:             expiry,
		ATMVolatility:      atmVol,
		VolatilitySkew:     skew,
		TermStructure:      term,
		Greeks:             greeks,
		RecommendedStrikes: a.recommendStrikes(spot, days/365, expiryVol),
		PutCallRatio:       pcr,
		IVRank:             ivRank,
		Recommendation:     rec,
		Confidence:         conf,
	}
}

func (a *OptionsAnalyzer) atmVolatility(symbol string) float64 {
	base, ok := atmVolBase[symbol]
	if !ok {
		base = 0.22
	}
	return Clamp(base+gateway.Noise(symbol, "atm_vol", -0.03, 0.03), 0.10, 0.60)
}

// termStructure builds per-tenor vols off the ATM level. Longer tenors
// may not dip more than maxTermInversion below the previous one.
func (a *OptionsAnalyzer) termStructure(symbol string, atmVol float64) map[string]float64 {
	out := make(map[string]float64, len(termTenors))
	prev := atmVol
	for i, tenor := range termTenors {
		v := atmVol + gateway.Noise(symbol, "term_"+tenor, -0.02, 0.02)
		if i > 0 && v < prev-maxTermInversion {
			v = prev - maxTermInversion
		}
		v = Clamp(v, 0.05, 0.80)
		out[tenor] = v
		prev = v
	}
	return out
}

func (a *OptionsAnalyzer) recommendStrikes(spot, t, sigma float64) []models.StrikeRecommendation {
	offsets := []float64{0.90, 0.95, 1.00, 1.05, 1.10}
	out := make([]models.StrikeRecommendation, 0, len(offsets))
	for _, m := range offsets {
		strike := spot * m
		delta := blackScholesCallGreeks(spot, strike, t, riskFreeRate, sigma).Delta
		out = append(out, models.StrikeRecommendation{
			Strike:          decimal.NewFromFloat(strike).Round(2),
			Moneyness:       moneynessLabel(m),
			Delta:           Clamp(delta, 0.05, 0.95),
			RiskLevel:       strikeRisk(m),
			ReturnPotential: strikeReturn(m),
		})
	}
	return out
}

func moneynessLabel(m float64) string {
	switch {
	case m < 0.99:
		return "ITM"
	case m > 1.01:
		return "OTM"
	default:
		return "ATM"
	}
}

func strikeRisk(m float64) string {
	switch {
	case m > 1.01:
		return "HIGH"
	case m < 0.99:
		return "LOW"
	default:
		return "MEDIUM"
	}
}

func strikeReturn(m float64) string {
	switch {
	case m > 1.01:
		return "HIGH"
	case m < 0.99:
		return "LOW"
	default:
		return "MEDIUM"
	}
}

func optionsStance(ivRank, pcr float64) (models.Recommendation, models.Confidence) {
	switch {
	case ivRank > 70 && pcr > 0.8:
		return models.RecommendationSell, models.ConfidenceHigh
	case ivRank > 70:
		return models.RecommendationSell, models.ConfidenceMedium
	case ivRank < 30 && pcr < 0.6:
		return models.RecommendationBuy, models.ConfidenceHigh
	case ivRank < 30:
		return models.RecommendationBuy, models.ConfidenceMedium
	default:
		return models.RecommendationHold, models.ConfidenceLow
	}
}

// blackScholesCallGreeks computes the standard sensitivities for a
// European call. Theta is per calendar day, vega and rho per 1% move.
func blackScholesCallGreeks(spot, strike, t, r, sigma float64) models.Greeks {
	if t <= 0 || sigma <= 0 || spot <= 0 || strike <= 0 {
		return models.Greeks{}
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (r+sigma*sigma/2)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	nd1 := normCDF(d1)
	pd1 := normPDF(d1)

	theta := -(spot*pd1*sigma)/(2*sqrtT) - r*strike*math.Exp(-r*t)*normCDF(d2)

	return models.Greeks{
		Delta: nd1,
		Gamma: pd1 / (spot * sigma * sqrtT),
		Theta: theta / 365,
		Vega:  spot * pd1 * sqrtT / 100,
		Rho:   strike * t * math.Exp(-r*t) * normCDF(d2) / 100,
	}
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
