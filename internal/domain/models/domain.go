package models

// Domain identifies which analyzer produced a result.
type Domain string

const (
	DomainCrypto      Domain = "crypto"
	DomainStock       Domain = "stock"
	DomainOptions     Domain = "options"
	DomainForex       Domain = "forex"
	DomainSentiment   Domain = "sentiment"
	DomainCorrelation Domain = "correlation"
)

// Source tags where the data behind a result came from.
type Source string

const (
	SourceLive      Source = "live"
	SourceCached    Source = "cached"
	SourceSynthetic Source = "synthetic-fallback"
)

// Recommendation is the three-way trading stance attached to analyses.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationSell Recommendation = "SELL"
	RecommendationHold Recommendation = "HOLD"
)

// Confidence grades how strongly the indicators agree.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)
