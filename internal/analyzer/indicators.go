package analyzer

import (
	"MarketPulse/internal/domain/models"

	"github.com/markcheno/go-talib"
)

// step sizes for reconstructed hourly series per asset class
const (
	cryptoStep = 0.02
	stockStep  = 0.01
	forexStep  = 0.003
)

// seriesPoints is long enough for SMA-50 and the MACD warmup.
const seriesPoints = 200

// volBarsPerDay scales hourly returns to the daily volatility reported
// in analyses.
const volBarsPerDay = 24

// ComputeIndicators derives the shared indicator block from a close
// series. The series must be at least seriesPoints long.
func ComputeIndicators(closes []float64) models.TechnicalIndicators {
	var ind models.TechnicalIndicators
	if len(closes) < 60 {
		return ind
	}

	rsi := talib.Rsi(closes, 14)
	macd, signal, hist := talib.Macd(closes, 12, 26, 9)
	sma20 := talib.Sma(closes, 20)
	sma50 := talib.Sma(closes, 50)

	last := len(closes) - 1
	ind.RSI = rsi[last]
	ind.MACD = macd[last]
	ind.MACDSignal = signal[last]
	ind.MACDHist = hist[last]
	ind.SMA20 = sma20[last]
	ind.SMA50 = sma50[last]
	return ind
}

// Recommend scores indicator agreement into a stance and a confidence
// grade. Four signals vote; the stance needs a two-vote majority and
// the confidence reflects how many votes agree.
func Recommend(price float64, ind models.TechnicalIndicators) (models.Recommendation, models.Confidence) {
	score := 0

	switch {
	case ind.RSI < 35:
		score++
	case ind.RSI > 65:
		score--
	}
	if ind.MACDHist > 0 {
		score++
	} else if ind.MACDHist < 0 {
		score--
	}
	if ind.SMA20 > 0 {
		if price > ind.SMA20 {
			score++
		} else {
			score--
		}
	}
	if ind.SMA20 > 0 && ind.SMA50 > 0 {
		if ind.SMA20 > ind.SMA50 {
			score++
		} else {
			score--
		}
	}

	rec := models.RecommendationHold
	if score >= 2 {
		rec = models.RecommendationBuy
	} else if score <= -2 {
		rec = models.RecommendationSell
	}

	conf := models.ConfidenceLow
	switch abs(score) {
	case 2:
		conf = models.ConfidenceMedium
	case 3, 4:
		conf = models.ConfidenceHigh
	}
	return rec, conf
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
