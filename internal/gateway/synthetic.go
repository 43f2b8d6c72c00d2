package gateway

import (
	"fmt"
	"math"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

// FNV-1a 64-bit, stable across builds and machines. Synthetic values
// must not change between identical requests.
const (
	fnvOffset uint64 = 0xcbf29ce484222325
	fnvPrime  uint64 = 0x100000001b3
)

func fnv1a64(data []byte) uint64 {
	h := fnvOffset
	for _, b := range data {
		h ^= uint64(b)
		h *= fnvPrime
	}
	return h
}

// Noise returns a deterministic value in [min, max) keyed by symbol and
// salt.
func Noise(symbol, salt string, min, max float64) float64 {
	h := fnv1a64([]byte(symbol + "|" + salt))
	unit := float64(h) / float64(math.MaxUint64)
	return min + unit*(max-min)
}

var cryptoBasePrices = map[string]float64{
	"BTC":   43000,
	"ETH":   2600,
	"ADA":   0.52,
	"SOL":   98,
	"DOT":   7.2,
	"MATIC": 0.85,
	"BNB":   310,
	"XRP":   0.62,
	"DOGE":  0.082,
	"LINK":  14.5,
}

var stockBasePrices = map[string]float64{
	"AAPL":  175,
	"MSFT":  380,
	"GOOGL": 140,
	"AMZN":  150,
	"META":  350,
	"NVDA":  500,
	"TSLA":  250,
	"JPM":   150,
	"V":     250,
	"JNJ":   160,
}

var stockVolumes = map[string]float64{
	"AAPL":  50_000_000,
	"MSFT":  25_000_000,
	"GOOGL": 20_000_000,
	"AMZN":  30_000_000,
	"META":  15_000_000,
	"NVDA":  40_000_000,
	"TSLA":  80_000_000,
	"JPM":   10_000_000,
	"V":     5_000_000,
	"JNJ":   8_000_000,
}

var forexBaseRates = map[string]float64{
	"EURUSD": 1.085,
	"GBPUSD": 1.27,
	"USDJPY": 149.5,
	"AUDUSD": 0.655,
	"USDCAD": 1.36,
	"USDCHF": 0.88,
	"NZDUSD": 0.61,
	"EURGBP": 0.855,
	"EURJPY": 162.2,
	"GBPJPY": 189.9,
}

// SyntheticQuote builds a deterministic quote used when every upstream
// provider failed. The same symbol always yields the same quote.
func SyntheticQuote(symbol string, domain models.Domain) models.Quote {
	base, changeLo, changeHi, volume := syntheticBase(symbol, domain)

	price := base * Noise(symbol, "price_factor", 0.98, 1.02)
	change := Noise(symbol, "change_24h", changeLo, changeHi)
	prev := price / (1 + change/100)
	high := price * (1 + Noise(symbol, "high", 0.001, 0.015))
	low := price * (1 - Noise(symbol, "low", 0.001, 0.015))

	return models.Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(price),
		Open:          decimal.NewFromFloat(prev),
		High:          decimal.NewFromFloat(high),
		Low:           decimal.NewFromFloat(low),
		PrevClose:     decimal.NewFromFloat(prev),
		PercentChange: change,
		Volume:        volume,
		Source:        models.SourceSynthetic,
		Timestamp:     time.Now().UTC(),
	}
}

func syntheticBase(symbol string, domain models.Domain) (base, changeLo, changeHi, volume float64) {
	switch domain {
	case models.DomainCrypto:
		base = cryptoBasePrices[symbol]
		if base == 0 {
			base = Noise(symbol, "crypto_base", 0.1, 500)
		}
		return base, -8, 8, Noise(symbol, "volume", 1e6, 5e9)
	case models.DomainForex:
		base = forexBaseRates[symbol]
		if base == 0 {
			base = Noise(symbol, "fx_base", 0.5, 1.5)
			if strings.HasSuffix(symbol, "JPY") {
				base *= 150
			}
		}
		return base, -0.8, 0.8, Noise(symbol, "volume", 1e8, 5e9)
	default:
		base = stockBasePrices[symbol]
		if base == 0 {
			base = 100
		}
		volume = stockVolumes[symbol]
		if volume == 0 {
			volume = 5_000_000
		}
		return base, -3, 3, volume
	}
}

var bullishHeadlines = []string{
	"%s extends rally on strong momentum",
	"Analysts raise targets for %s after upbeat outlook",
	"%s draws inflows as risk appetite returns",
}

var bearishHeadlines = []string{
	"%s slides as traders trim exposure",
	"Pressure mounts on %s after weak session",
	"%s retreats amid broad risk-off move",
}

var neutralHeadlines = []string{
	"%s little changed in quiet trading",
	"Markets weigh mixed signals on %s",
	"%s holds range as volumes thin out",
}

// SyntheticSamples builds deterministic sentiment samples for a symbol.
// Tone counts are split consistently with the scores so the per-signal
// breakdowns add up.
func SyntheticSamples(symbol string) models.SentimentSamples {
	newsScore := Noise(symbol, "news_score", -0.6, 0.6)
	socialScore := Noise(symbol, "social_score", -0.7, 0.7)

	articles := int(Noise(symbol, "news_volume", 5, 120))
	newsPos, newsNeg := toneSplit(symbol, "news", articles, newsScore)

	mentions := int(Noise(symbol, "social_volume", 50, 8000))
	socialPos, socialNeg := toneSplit(symbol, "social", mentions, socialScore)

	return models.SentimentSamples{
		Symbol:         symbol,
		NewsArticles:   articles,
		NewsPositive:   newsPos,
		NewsNegative:   newsNeg,
		NewsScore:      newsScore,
		TopHeadlines:   syntheticHeadlines(symbol, newsScore),
		SocialMentions: mentions,
		SocialPositive: socialPos,
		SocialNegative: socialNeg,
		Engagement:     Noise(symbol, "engagement", 1.5, 40),
		SocialScore:    socialScore,
		Source:         models.SourceSynthetic,
		Timestamp:      time.Now().UTC(),
	}
}

// toneSplit partitions total samples into positive/negative counts whose
// balance matches the score; the remainder is neutral.
func toneSplit(symbol, salt string, total int, score float64) (pos, neg int) {
	neutralFrac := Noise(symbol, salt+"_neutral", 0.10, 0.30)
	scored := float64(total) * (1 - neutralFrac)
	pos = int(scored * (0.5 + score/2))
	neg = int(scored) - pos
	if pos < 0 {
		pos = 0
	}
	if neg < 0 {
		neg = 0
	}
	return pos, neg
}

func syntheticHeadlines(symbol string, score float64) []string {
	templates := neutralHeadlines
	switch {
	case score > 0.2:
		templates = bullishHeadlines
	case score < -0.2:
		templates = bearishHeadlines
	}
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, fmt.Sprintf(t, symbol))
	}
	return out
}
