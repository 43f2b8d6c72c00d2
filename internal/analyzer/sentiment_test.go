package analyzer

import (
	"testing"

	"MarketPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSentimentConfig() SentimentConfig {
	return SentimentConfig{
		NewsWeight:        0.6,
		SocialWeight:      0.4,
		TrendingMentions:  5000,
		LowVolumeSamples:  20,
		FullVolumeSamples: 500,
	}
}

func TestSentimentWeightedFusion(t *testing.T) {
	a := NewSentimentAnalyzer(testSentimentConfig())

	res := a.Analyze(models.SentimentSamples{
		Symbol:         "AAPL",
		NewsScore:      1.0,
		SocialScore:    -1.0,
		NewsArticles:   50,
		SocialMentions: 100,
	})

	// news carries more weight, so fusion lands positive
	assert.InDelta(t, 0.2, res.CompositeScore, 1e-9)
	assert.Equal(t, "NEUTRAL", res.Label)
}

func TestSentimentLabels(t *testing.T) {
	a := NewSentimentAnalyzer(testSentimentConfig())

	bull := a.Analyze(models.SentimentSamples{NewsScore: 0.8, SocialScore: 0.6, NewsArticles: 10, SocialMentions: 10})
	assert.Equal(t, "BULLISH", bull.Label)

	bear := a.Analyze(models.SentimentSamples{NewsScore: -0.8, SocialScore: -0.6, NewsArticles: 10, SocialMentions: 10})
	assert.Equal(t, "BEARISH", bear.Label)
}

func TestSentimentSubSignalBreakdowns(t *testing.T) {
	a := NewSentimentAnalyzer(testSentimentConfig())

	res := a.Analyze(models.SentimentSamples{
		Symbol:         "TSLA",
		NewsArticles:   40,
		NewsPositive:   22,
		NewsNegative:   8,
		NewsScore:      0.35,
		TopHeadlines:   []string{"TSLA extends rally on strong momentum"},
		SocialMentions: 1200,
		SocialPositive: 700,
		SocialNegative: 300,
		Engagement:     12.5,
		SocialScore:    0.33,
	})

	require.Equal(t, 40, res.News.Articles)
	assert.Equal(t, 22, res.News.Positive)
	assert.Equal(t, 8, res.News.Negative)
	assert.Equal(t, 10, res.News.Neutral)
	assert.Equal(t, 0.35, res.News.Score)
	require.Len(t, res.News.TopHeadlines, 1)

	assert.Equal(t, 1200, res.Social.Mentions)
	assert.Equal(t, 700, res.Social.Positive)
	assert.Equal(t, 300, res.Social.Negative)
	assert.Equal(t, 12.5, res.Social.Engagement)
	assert.Equal(t, 0.33, res.Social.Score)
	assert.False(t, res.Social.Trending)
}

func TestSentimentConfidenceTracksVolumeOnly(t *testing.T) {
	a := NewSentimentAnalyzer(testSentimentConfig())

	strong := a.Analyze(models.SentimentSamples{NewsScore: 0.9, SocialScore: 0.9, NewsArticles: 100, SocialMentions: 100})
	weak := a.Analyze(models.SentimentSamples{NewsScore: -0.1, SocialScore: 0.05, NewsArticles: 100, SocialMentions: 100})

	// same volume, wildly different scores: identical confidence
	assert.Equal(t, strong.Confidence, weak.Confidence)

	sparse := a.Analyze(models.SentimentSamples{NewsScore: 0.9, SocialScore: 0.9, NewsArticles: 5, SocialMentions: 5})
	assert.Less(t, sparse.Confidence, strong.Confidence)

	flood := a.Analyze(models.SentimentSamples{NewsScore: 0.9, SocialScore: 0.9, NewsArticles: 400, SocialMentions: 400})
	assert.Equal(t, 0.95, flood.Confidence)
}

func TestSentimentTrendingFlag(t *testing.T) {
	a := NewSentimentAnalyzer(testSentimentConfig())

	quiet := a.Analyze(models.SentimentSamples{SocialMentions: 100})
	assert.False(t, quiet.Social.Trending)

	viral := a.Analyze(models.SentimentSamples{SocialMentions: 6000})
	assert.True(t, viral.Social.Trending)
}
