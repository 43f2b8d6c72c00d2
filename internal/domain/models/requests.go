package models

// AnalyzeRequest asks for a crypto or stock analysis. AssetType is an
// optional caller hint that overrides classification when present.
type AnalyzeRequest struct {
	Symbol    string `json:"symbol" validate:"required,alphanum,min=2,max=15"`
	AssetType string `json:"asset_type,omitempty" validate:"omitempty,oneof=crypto stock"`
}

// OptionsAnalyzeRequest asks for an options surface on an underlying.
type OptionsAnalyzeRequest struct {
	Symbol string `json:"symbol" validate:"required,alphanum,min=2,max=15"`
	Expiry string `json:"expiry,omitempty" default:"30d" validate:"omitempty,oneof=7d 14d 30d 60d 90d"`
}

// ForexAnalyzeRequest asks for a currency pair analysis. Pair is the
// six-letter concatenated form, e.g. EURUSD.
type ForexAnalyzeRequest struct {
	Pair string `json:"pair" validate:"required,alpha,len=6"`
}

// SentimentAnalyzeRequest asks for a sentiment read on any symbol.
type SentimentAnalyzeRequest struct {
	Symbol string `json:"symbol" validate:"required,alphanum,min=2,max=15"`
}

// CorrelationAnalyzeRequest asks how a symbol moves against a benchmark.
// Benchmark defaults to the configured market benchmark when empty.
type CorrelationAnalyzeRequest struct {
	Symbol    string `json:"symbol" validate:"required,alphanum,min=2,max=15"`
	Benchmark string `json:"benchmark,omitempty" validate:"omitempty,alphanum,min=2,max=15"`
}
