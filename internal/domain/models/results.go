package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisResult is the envelope every analyzer output travels in, over
// HTTP, the stream and the result cache alike. Data keeps the payload as
// raw JSON so a cache hit can be re-tagged without touching the payload.
type AnalysisResult struct {
	Domain      Domain          `json:"domain"`
	Symbol      string          `json:"symbol"`
	Source      Source          `json:"source"`
	GeneratedAt time.Time       `json:"generated_at"`
	Data        json.RawMessage `json:"data"`
}

// NewAnalysisResult wraps a typed payload into an envelope.
func NewAnalysisResult(domain Domain, symbol string, source Source, payload interface{}) (AnalysisResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return AnalysisResult{}, err
	}
	return AnalysisResult{
		Domain:      domain,
		Symbol:      symbol,
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Data:        data,
	}, nil
}

// TechnicalIndicators is the shared indicator block for price analyses.
type TechnicalIndicators struct {
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_histogram"`
	SMA20      float64 `json:"sma_20"`
	SMA50      float64 `json:"sma_50"`
}

// CryptoAnalysis is the payload for crypto-domain results.
type CryptoAnalysis struct {
	Symbol         string              `json:"symbol"`
	Price          decimal.Decimal     `json:"price"`
	Change24h      float64             `json:"change_24h"`
	Volume24h      float64             `json:"volume_24h"`
	Volatility     float64             `json:"volatility"`
	RiskScore      float64             `json:"risk_score"`
	Indicators     TechnicalIndicators `json:"indicators"`
	Recommendation Recommendation      `json:"recommendation"`
	Confidence     Confidence          `json:"confidence"`
}

// StockAnalysis is the payload for stock-domain results.
type StockAnalysis struct {
	Symbol         string              `json:"symbol"`
	Price          decimal.Decimal     `json:"price"`
	Change24h      float64             `json:"change_24h"`
	Volatility     float64             `json:"volatility"`
	RiskScore      float64             `json:"risk_score"`
	PERatio        float64             `json:"pe_ratio"`
	DividendYield  float64             `json:"dividend_yield"`
	MarketCapTier  string              `json:"market_cap_tier"`
	Indicators     TechnicalIndicators `json:"indicators"`
	Recommendation Recommendation      `json:"recommendation"`
	Confidence     Confidence          `json:"confidence"`
}

// Greeks are the standard option-pricing sensitivities for the
// representative at-the-money contract.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// StrikeRecommendation is one suggested strike with its risk profile.
type StrikeRecommendation struct {
	Strike          decimal.Decimal `json:"strike"`
	Moneyness       string          `json:"moneyness"`
	Delta           float64         `json:"delta"`
	RiskLevel       string          `json:"risk_level"`
	ReturnPotential string          `json:"return_potential"`
}

// OptionsAnalysis is the payload for options-domain results.
type OptionsAnalysis struct {
	Symbol             string                 `json:"symbol"`
	SpotPrice          decimal.Decimal        `json:"spot_price"`
	Expiry             string                 `json:"expiry"`
	ATMVolatility      float64                `json:"atm_volatility"`
	VolatilitySkew     float64                `json:"volatility_skew"`
	TermStructure      map[string]float64     `json:"term_structure"`
	Greeks             Greeks                 `json:"greeks"`
	RecommendedStrikes []StrikeRecommendation `json:"recommended_strikes"`
	PutCallRatio       float64                `json:"put_call_ratio"`
	IVRank             float64                `json:"iv_rank"`
	Recommendation     Recommendation         `json:"recommendation"`
	Confidence         Confidence             `json:"confidence"`
}

// ForexAnalysis is the payload for forex-domain results.
type ForexAnalysis struct {
	Pair              string          `json:"pair"`
	BaseCurrency      string          `json:"base_currency"`
	QuoteCurrency     string          `json:"quote_currency"`
	Rate              decimal.Decimal `json:"rate"`
	Bid               decimal.Decimal `json:"bid"`
	Ask               decimal.Decimal `json:"ask"`
	Spread            decimal.Decimal `json:"spread"`
	PipValue          decimal.Decimal `json:"pip_value"`
	Change24h         float64         `json:"change_24h"`
	Volatility        float64         `json:"volatility"`
	Trend             string          `json:"trend"`
	Support           decimal.Decimal `json:"support"`
	Resistance        decimal.Decimal `json:"resistance"`
	BasketCorrelation float64         `json:"basket_correlation"`
}

// NewsSentiment is the news sub-signal: article counts by tone, the
// derived score and the top headlines of the trailing window.
type NewsSentiment struct {
	Score        float64  `json:"score"`
	Articles     int      `json:"articles"`
	Positive     int      `json:"positive"`
	Negative     int      `json:"negative"`
	Neutral      int      `json:"neutral"`
	TopHeadlines []string `json:"top_headlines"`
}

// SocialSentiment is the social sub-signal: mention counts by tone, an
// engagement measure and the trending flag.
type SocialSentiment struct {
	Score      float64 `json:"score"`
	Mentions   int     `json:"mentions"`
	Positive   int     `json:"positive"`
	Negative   int     `json:"negative"`
	Engagement float64 `json:"engagement"`
	Trending   bool    `json:"trending"`
}

// SentimentAnalysis is the payload for sentiment-domain results.
type SentimentAnalysis struct {
	Symbol         string          `json:"symbol"`
	News           NewsSentiment   `json:"news_sentiment"`
	Social         SocialSentiment `json:"social_sentiment"`
	CompositeScore float64         `json:"composite_score"`
	Label          string          `json:"label"`
	SampleVolume   int             `json:"sample_volume"`
	Confidence     float64         `json:"confidence"`
}

// CorrelationWindows holds Pearson coefficients per lookback window.
type CorrelationWindows struct {
	Day   float64 `json:"1d"`
	Week  float64 `json:"7d"`
	Month float64 `json:"30d"`
}

// CorrelationAnalysis is the payload for correlation-domain results.
type CorrelationAnalysis struct {
	Symbol       string             `json:"symbol"`
	Benchmark    string             `json:"benchmark"`
	Correlations CorrelationWindows `json:"correlations"`
	Beta         float64            `json:"beta"`
	BTCDominance *float64           `json:"btc_dominance,omitempty"`
	Regime       string             `json:"regime"`
	Strength     string             `json:"strength"`
}

// RecommendationEntry is one row of the ranked crypto board.
type RecommendationEntry struct {
	Symbol         string          `json:"symbol"`
	Price          decimal.Decimal `json:"price"`
	Change24h      float64         `json:"change_24h"`
	RiskScore      float64         `json:"risk_score"`
	Recommendation Recommendation  `json:"recommendation"`
	Confidence     Confidence      `json:"confidence"`
	Score          float64         `json:"score"`
}
