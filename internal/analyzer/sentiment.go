package analyzer

import (
	"MarketPulse/internal/domain/models"
)

// SentimentConfig carries the fusion weights and volume thresholds.
type SentimentConfig struct {
	NewsWeight        float64
	SocialWeight      float64
	TrendingMentions  int
	LowVolumeSamples  int
	FullVolumeSamples int
}

// SentimentAnalyzer fuses news and social sentiment into one read.
type SentimentAnalyzer struct {
	cfg SentimentConfig
}

// NewSentimentAnalyzer creates a sentiment analyzer.
func NewSentimentAnalyzer(cfg SentimentConfig) *SentimentAnalyzer {
	return &SentimentAnalyzer{cfg: cfg}
}

// Analyze fuses scored samples into a composite read. Confidence is a
// function of sample volume only, never of the scores themselves.
func (a *SentimentAnalyzer) Analyze(s models.SentimentSamples) models.SentimentAnalysis {
	wSum := a.cfg.NewsWeight + a.cfg.SocialWeight
	composite := (a.cfg.NewsWeight*s.NewsScore + a.cfg.SocialWeight*s.SocialScore) / wSum

	volume := s.NewsArticles + s.SocialMentions

	neutral := s.NewsArticles - s.NewsPositive - s.NewsNegative
	if neutral < 0 {
		neutral = 0
	}

	return models.SentimentAnalysis{
		Symbol: s.Symbol,
		News: models.NewsSentiment{
			Score:        s.NewsScore,
			Articles:     s.NewsArticles,
			Positive:     s.NewsPositive,
			Negative:     s.NewsNegative,
			Neutral:      neutral,
			TopHeadlines: s.TopHeadlines,
		},
		Social: models.SocialSentiment{
			Score:      s.SocialScore,
			Mentions:   s.SocialMentions,
			Positive:   s.SocialPositive,
			Negative:   s.SocialNegative,
			Engagement: s.Engagement,
			Trending:   s.SocialMentions >= a.cfg.TrendingMentions,
		},
		CompositeScore: composite,
		Label:          sentimentLabel(composite),
		SampleVolume:   volume,
		Confidence:     a.volumeConfidence(volume),
	}
}

func sentimentLabel(score float64) string {
	switch {
	case score > 0.2:
		return "BULLISH"
	case score < -0.2:
		return "BEARISH"
	default:
		return "NEUTRAL"
	}
}

// volumeConfidence maps total sample volume onto [0.2, 0.95] linearly
// between the low and full thresholds.
func (a *SentimentAnalyzer) volumeConfidence(volume int) float64 {
	low := a.cfg.LowVolumeSamples
	full := a.cfg.FullVolumeSamples
	if volume <= low {
		return 0.2
	}
	if volume >= full {
		return 0.95
	}
	frac := float64(volume-low) / float64(full-low)
	return 0.2 + frac*0.75
}
