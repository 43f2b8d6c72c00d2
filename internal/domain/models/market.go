package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price snapshot from the data gateway.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	PrevClose     decimal.Decimal `json:"prev_close"`
	PercentChange float64         `json:"percent_change"`
	Volume        float64         `json:"volume"`
	Source        Source          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
}

// SentimentSamples is the raw material for a sentiment analysis: scored
// news articles and social mentions over the lookback window, with the
// per-tone breakdowns behind each score.
type SentimentSamples struct {
	Symbol         string    `json:"symbol"`
	NewsArticles   int       `json:"news_articles"`
	NewsPositive   int       `json:"news_positive"`
	NewsNegative   int       `json:"news_negative"`
	NewsScore      float64   `json:"news_score"`
	TopHeadlines   []string  `json:"top_headlines"`
	SocialMentions int       `json:"social_mentions"`
	SocialPositive int       `json:"social_positive"`
	SocialNegative int       `json:"social_negative"`
	Engagement     float64   `json:"engagement"`
	SocialScore    float64   `json:"social_score"`
	Source         Source    `json:"source"`
	Timestamp      time.Time `json:"timestamp"`
}
