package analyzer

import (
	"fmt"
	"math"

	"MarketPulse/internal/gateway"
)

// Hourly points per correlation window.
const (
	WindowDay   = 24
	WindowWeek  = 168
	WindowMonth = 720
)

// Series reconstructs a deterministic hourly close series for a symbol,
// anchored so the final point equals the given price. Step sizes are
// drawn from the symbol's own hash, so the series is stable across
// calls and processes.
func Series(symbol string, anchor float64, points int, maxStep float64) []float64 {
	if points < 2 || anchor <= 0 {
		return nil
	}

	out := make([]float64, points)
	out[points-1] = anchor
	for i := points - 1; i > 0; i-- {
		r := gateway.Noise(symbol, fmt.Sprintf("series_%d", i), -maxStep, maxStep)
		out[i-1] = out[i] / (1 + r)
	}
	return out
}

// LogReturns computes r_t = ln(C_t / C_{t-1}). It returns a slice of
// length len(closes)-1, or nil if insufficient data.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		cur := closes[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility computes realized volatility over the latest
// rolling window, scaled by the given bars-per-period factor (e.g. 24
// hourly bars for a daily sigma).
func RealizedVolatility(logReturns []float64, window int, barsPerPeriod float64) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(logReturns) - window; i < len(logReturns); i++ {
		r := logReturns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * barsPerPeriod)
}

// Pearson computes the Pearson correlation coefficient of two equal
// length samples. Returns 0 when either side has no variance.
func Pearson(a, b []float64) float64 {
	n := len(a)
	if n != len(b) || n < 2 {
		return 0
	}

	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Drift returns the relative change over the last n points of a series.
func Drift(closes []float64, n int) float64 {
	if len(closes) < 2 {
		return 0
	}
	if n >= len(closes) {
		n = len(closes) - 1
	}
	start := closes[len(closes)-1-n]
	end := closes[len(closes)-1]
	if start <= 0 {
		return 0
	}
	return (end - start) / start
}
