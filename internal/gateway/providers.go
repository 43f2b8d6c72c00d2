package gateway

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketPulse/internal/domain/models"
	pkghttp "MarketPulse/pkg/http"

	"github.com/shopspring/decimal"
)

// QuoteProvider talks to a finnhub-style quote API:
// GET {base}/quote?symbol=SYM&token=KEY.
type QuoteProvider struct {
	client  *pkghttp.Client
	baseURL string
	apiKey  string
}

// NewQuoteProvider creates the primary quote provider.
func NewQuoteProvider(client *pkghttp.Client, baseURL, apiKey string) *QuoteProvider {
	return &QuoteProvider{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (p *QuoteProvider) Name() string { return "quote-api" }

type quoteAPIResponse struct {
	Current       float64 `json:"c"`
	Open          float64 `json:"o"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	PrevClose     float64 `json:"pc"`
	PercentChange float64 `json:"dp"`
}

func (p *QuoteProvider) Quote(ctx context.Context, symbol string, domain models.Domain) (models.Quote, error) {
	if p.baseURL == "" || p.apiKey == "" {
		return models.Quote{}, fmt.Errorf("quote-api: not configured")
	}

	var resp quoteAPIResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    p.baseURL + "/quote",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.Quote{}, fmt.Errorf("quote-api: %w", err)
	}
	if resp.Current <= 0 {
		return models.Quote{}, fmt.Errorf("quote-api: empty quote for %s", symbol)
	}

	return models.Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(resp.Current),
		Open:          decimal.NewFromFloat(resp.Open),
		High:          decimal.NewFromFloat(resp.High),
		Low:           decimal.NewFromFloat(resp.Low),
		PrevClose:     decimal.NewFromFloat(resp.PrevClose),
		PercentChange: resp.PercentChange,
		Source:        models.SourceLive,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// GlobalQuoteProvider talks to an alpha-vantage-style API:
// GET {base}?function=GLOBAL_QUOTE&symbol=SYM&apikey=KEY.
type GlobalQuoteProvider struct {
	client  *pkghttp.Client
	baseURL string
	apiKey  string
}

// NewGlobalQuoteProvider creates the secondary quote provider.
func NewGlobalQuoteProvider(client *pkghttp.Client, baseURL, apiKey string) *GlobalQuoteProvider {
	return &GlobalQuoteProvider{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (p *GlobalQuoteProvider) Name() string { return "global-quote-api" }

type globalQuoteResponse struct {
	GlobalQuote struct {
		Price         string `json:"05. price"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		PrevClose     string `json:"08. previous close"`
		ChangePercent string `json:"10. change percent"`
		Volume        string `json:"06. volume"`
	} `json:"Global Quote"`
}

func (p *GlobalQuoteProvider) Quote(ctx context.Context, symbol string, domain models.Domain) (models.Quote, error) {
	if p.baseURL == "" || p.apiKey == "" {
		return models.Quote{}, fmt.Errorf("global-quote-api: not configured")
	}

	var resp globalQuoteResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    p.baseURL,
		QueryParams: map[string][]string{
			"function": {"GLOBAL_QUOTE"},
			"symbol":   {symbol},
			"apikey":   {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.Quote{}, fmt.Errorf("global-quote-api: %w", err)
	}

	g := resp.GlobalQuote
	price, err := decimal.NewFromString(g.Price)
	if err != nil || price.IsZero() {
		return models.Quote{}, fmt.Errorf("global-quote-api: empty quote for %s", symbol)
	}

	q := models.Quote{
		Symbol:    symbol,
		Price:     price,
		Source:    models.SourceLive,
		Timestamp: time.Now().UTC(),
	}
	q.Open, _ = decimal.NewFromString(g.Open)
	q.High, _ = decimal.NewFromString(g.High)
	q.Low, _ = decimal.NewFromString(g.Low)
	q.PrevClose, _ = decimal.NewFromString(g.PrevClose)
	if n := len(g.ChangePercent); n > 0 && g.ChangePercent[n-1] == '%' {
		q.PercentChange, _ = strconv.ParseFloat(g.ChangePercent[:n-1], 64)
	}
	q.Volume, _ = strconv.ParseFloat(g.Volume, 64)
	return q, nil
}

// NewsProvider talks to a news sentiment API:
// GET {base}/sentiment?symbol=SYM&token=KEY.
type NewsProvider struct {
	client  *pkghttp.Client
	baseURL string
	apiKey  string
}

// NewNewsProvider creates the news/social sentiment provider.
func NewNewsProvider(client *pkghttp.Client, baseURL, apiKey string) *NewsProvider {
	return &NewsProvider{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (p *NewsProvider) Name() string { return "news-api" }

type newsAPIResponse struct {
	Articles         int      `json:"articles"`
	ArticlesPositive int      `json:"articles_positive"`
	ArticlesNegative int      `json:"articles_negative"`
	ArticleScore     float64  `json:"article_score"`
	TopHeadlines     []string `json:"top_headlines"`
	SocialMentions   int      `json:"social_mentions"`
	SocialPositive   int      `json:"social_positive"`
	SocialNegative   int      `json:"social_negative"`
	Engagement       float64  `json:"engagement"`
	SocialScore      float64  `json:"social_score"`
}

func (p *NewsProvider) Samples(ctx context.Context, symbol string) (models.SentimentSamples, error) {
	if p.baseURL == "" || p.apiKey == "" {
		return models.SentimentSamples{}, fmt.Errorf("news-api: not configured")
	}

	var resp newsAPIResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    p.baseURL + "/sentiment",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.SentimentSamples{}, fmt.Errorf("news-api: %w", err)
	}
	if resp.Articles == 0 && resp.SocialMentions == 0 {
		return models.SentimentSamples{}, fmt.Errorf("news-api: no samples for %s", symbol)
	}

	return models.SentimentSamples{
		Symbol:         symbol,
		NewsArticles:   resp.Articles,
		NewsPositive:   resp.ArticlesPositive,
		NewsNegative:   resp.ArticlesNegative,
		NewsScore:      clampScore(resp.ArticleScore),
		TopHeadlines:   resp.TopHeadlines,
		SocialMentions: resp.SocialMentions,
		SocialPositive: resp.SocialPositive,
		SocialNegative: resp.SocialNegative,
		Engagement:     resp.Engagement,
		SocialScore:    clampScore(resp.SocialScore),
		Source:         models.SourceLive,
		Timestamp:      time.Now().UTC(),
	}, nil
}

func clampScore(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
