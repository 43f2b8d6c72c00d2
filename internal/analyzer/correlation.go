package analyzer

import (
	"math"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/gateway"
)

// CorrelationAnalyzer measures how a symbol moves against a benchmark
// over 1d/7d/30d hourly windows.
type CorrelationAnalyzer struct {
	isCrypto func(string) bool
}

// NewCorrelationAnalyzer creates a correlation analyzer. isCrypto tells
// which symbols take the wider crypto step in their series.
func NewCorrelationAnalyzer(isCrypto func(string) bool) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{isCrypto: isCrypto}
}

// Analyze computes Pearson coefficients per window. Each side's series
// derives only from that symbol's own seed, so swapping symbol and
// benchmark yields identical coefficients.
func (a *CorrelationAnalyzer) Analyze(symbol string, symbolPrice float64, benchmark string, benchmarkPrice float64) models.CorrelationAnalysis {
	// One extra point per window so the return slices are full length.
	symSeries := Series(symbol, symbolPrice, WindowMonth+1, a.stepFor(symbol))
	benchSeries := Series(benchmark, benchmarkPrice, WindowMonth+1, a.stepFor(benchmark))

	symReturns := LogReturns(symSeries)
	benchReturns := LogReturns(benchSeries)

	windows := models.CorrelationWindows{
		Day:   windowPearson(symReturns, benchReturns, WindowDay),
		Week:  windowPearson(symReturns, benchReturns, WindowWeek),
		Month: windowPearson(symReturns, benchReturns, WindowMonth),
	}

	symVol := RealizedVolatility(symReturns, WindowMonth, volBarsPerDay)
	benchVol := RealizedVolatility(benchReturns, WindowMonth, volBarsPerDay)
	beta := 0.0
	if benchVol > 0 {
		beta = windows.Month * symVol / benchVol
	}

	out := models.CorrelationAnalysis{
		Symbol:       symbol,
		Benchmark:    benchmark,
		Correlations: windows,
		Beta:         beta,
		Regime:       regimeLabel(Drift(benchSeries, WindowWeek), windows.Month),
		Strength:     strengthLabel(windows.Month),
	}

	if a.isCrypto != nil && a.isCrypto(symbol) {
		dom := gateway.Noise("BTC", "dominance", 45, 55)
		out.BTCDominance = &dom
	}
	return out
}

func (a *CorrelationAnalyzer) stepFor(symbol string) float64 {
	if a.isCrypto != nil && a.isCrypto(symbol) {
		return cryptoStep
	}
	return stockStep
}

func windowPearson(a, b []float64, window int) float64 {
	if len(a) < window || len(b) < window {
		return 0
	}
	return Pearson(a[len(a)-window:], b[len(b)-window:])
}

func regimeLabel(benchDrift, corr float64) string {
	switch {
	case benchDrift > 0.002 && corr > 0.2:
		return "RISK_ON"
	case benchDrift < -0.002 && corr > 0.2:
		return "RISK_OFF"
	default:
		return "NEUTRAL"
	}
}

func strengthLabel(corr float64) string {
	switch abs := math.Abs(corr); {
	case abs >= 0.7:
		return "STRONG"
	case abs >= 0.4:
		return "MODERATE"
	default:
		return "WEAK"
	}
}
