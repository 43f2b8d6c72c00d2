package usecase

import (
	"context"
	"sort"
	"time"

	"MarketPulse/internal/analyzer"
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/gateway"
	"MarketPulse/internal/router"
	svccache "MarketPulse/internal/service/cache"
	applogger "MarketPulse/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Engine orchestrates one analysis: route, check the result store,
// compute under singleflight, store, push to the stream and optionally
// publish. Concurrent requests for the same key share one computation.
type Engine struct {
	router    *router.Router
	gateway   *gateway.Gateway
	crypto    *analyzer.CryptoAnalyzer
	stock     *analyzer.StockAnalyzer
	options   *analyzer.OptionsAnalyzer
	forex     *analyzer.ForexAnalyzer
	sentiment *analyzer.SentimentAnalyzer
	corr      *analyzer.CorrelationAnalyzer

	store       repository.ResultStore
	hub         repository.Broadcaster
	publisher   repository.Publisher
	publishTo   string
	benchmark   string
	metrics     repository.Metrics
	log         *applogger.Logger
	group       singleflight.Group
}

// Config wires an Engine.
type Config struct {
	Router      *router.Router
	Gateway     *gateway.Gateway
	Crypto      *analyzer.CryptoAnalyzer
	Stock       *analyzer.StockAnalyzer
	Options     *analyzer.OptionsAnalyzer
	Forex       *analyzer.ForexAnalyzer
	Sentiment   *analyzer.SentimentAnalyzer
	Correlation *analyzer.CorrelationAnalyzer
	Store       repository.ResultStore
	Hub         repository.Broadcaster
	Publisher   repository.Publisher
	PublishTo   string
	Benchmark   string
	Metrics     repository.Metrics
	Logger      *applogger.Logger
}

// New creates an Engine.
func New(cfg Config) *Engine {
	return &Engine{
		router:    cfg.Router,
		gateway:   cfg.Gateway,
		crypto:    cfg.Crypto,
		stock:     cfg.Stock,
		options:   cfg.Options,
		forex:     cfg.Forex,
		sentiment: cfg.Sentiment,
		corr:      cfg.Correlation,
		store:     cfg.Store,
		hub:       cfg.Hub,
		publisher: cfg.Publisher,
		publishTo: cfg.PublishTo,
		benchmark: cfg.Benchmark,
		metrics:   cfg.Metrics,
		log:       cfg.Logger,
	}
}

// Analyze serves the unified crypto/stock endpoint.
func (e *Engine) Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalysisResult, error) {
	domain, sym, err := e.router.Classify(req.Symbol, req.AssetType)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	key := svccache.Key(domain, sym)
	return e.serve(ctx, domain, key, func(ctx context.Context) (models.AnalysisResult, error) {
		q, err := e.gateway.Quote(ctx, sym, domain)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		if domain == models.DomainCrypto {
			return models.NewAnalysisResult(domain, sym, q.Source, e.crypto.Analyze(q))
		}
		return models.NewAnalysisResult(domain, sym, q.Source, e.stock.Analyze(q))
	})
}

// AnalyzeOptions serves the options endpoint.
func (e *Engine) AnalyzeOptions(ctx context.Context, req models.OptionsAnalyzeRequest) (models.AnalysisResult, error) {
	sym, err := normalize(req.Symbol)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	expiry := req.Expiry
	if expiry == "" {
		expiry = "30d"
	}

	key := svccache.Key(models.DomainOptions, sym, expiry)
	return e.serve(ctx, models.DomainOptions, key, func(ctx context.Context) (models.AnalysisResult, error) {
		q, err := e.gateway.Quote(ctx, sym, models.DomainStock)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		return models.NewAnalysisResult(models.DomainOptions, sym+":"+expiry, q.Source, e.options.Analyze(q, expiry))
	})
}

// AnalyzeForex serves the forex endpoint.
func (e *Engine) AnalyzeForex(ctx context.Context, req models.ForexAnalyzeRequest) (models.AnalysisResult, error) {
	pair, err := normalize(req.Pair)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	if !router.IsForexPair(pair) {
		return models.AnalysisResult{}, router.ErrUnclassifiable
	}

	key := svccache.Key(models.DomainForex, pair)
	return e.serve(ctx, models.DomainForex, key, func(ctx context.Context) (models.AnalysisResult, error) {
		q, err := e.gateway.Quote(ctx, pair, models.DomainForex)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		return models.NewAnalysisResult(models.DomainForex, pair, q.Source, e.forex.Analyze(q))
	})
}

// AnalyzeSentiment serves the sentiment endpoint.
func (e *Engine) AnalyzeSentiment(ctx context.Context, req models.SentimentAnalyzeRequest) (models.AnalysisResult, error) {
	sym, err := normalize(req.Symbol)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	key := svccache.Key(models.DomainSentiment, sym)
	return e.serve(ctx, models.DomainSentiment, key, func(ctx context.Context) (models.AnalysisResult, error) {
		samples, err := e.gateway.Samples(ctx, sym)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		return models.NewAnalysisResult(models.DomainSentiment, sym, samples.Source, e.sentiment.Analyze(samples))
	})
}

// AnalyzeCorrelation serves the correlation endpoint.
func (e *Engine) AnalyzeCorrelation(ctx context.Context, req models.CorrelationAnalyzeRequest) (models.AnalysisResult, error) {
	sym, err := normalize(req.Symbol)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	benchmark := req.Benchmark
	if benchmark == "" {
		benchmark = e.benchmark
	}
	benchmark, err = normalize(benchmark)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	key := svccache.Key(models.DomainCorrelation, sym, benchmark)
	return e.serve(ctx, models.DomainCorrelation, key, func(ctx context.Context) (models.AnalysisResult, error) {
		symDomain := models.DomainStock
		if e.router.IsCrypto(sym) {
			symDomain = models.DomainCrypto
		}
		symQuote, err := e.gateway.Quote(ctx, sym, symDomain)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		benchDomain := models.DomainStock
		if e.router.IsCrypto(benchmark) {
			benchDomain = models.DomainCrypto
		}
		benchQuote, err := e.gateway.Quote(ctx, benchmark, benchDomain)
		if err != nil {
			return models.AnalysisResult{}, err
		}

		symPrice, _ := symQuote.Price.Float64()
		benchPrice, _ := benchQuote.Price.Float64()
		payload := e.corr.Analyze(sym, symPrice, benchmark, benchPrice)

		source := symQuote.Source
		if benchQuote.Source == models.SourceSynthetic {
			source = models.SourceSynthetic
		}
		return models.NewAnalysisResult(models.DomainCorrelation, sym+":"+benchmark, source, payload)
	})
}

// Recommendations ranks the crypto allow-list by indicator score.
func (e *Engine) Recommendations(ctx context.Context) ([]models.RecommendationEntry, error) {
	symbols := e.router.CryptoSymbols()
	sort.Strings(symbols)

	out := make([]models.RecommendationEntry, 0, len(symbols))
	for _, sym := range symbols {
		q, err := e.gateway.Quote(ctx, sym, models.DomainCrypto)
		if err != nil {
			return nil, err
		}
		a := e.crypto.Analyze(q)
		out = append(out, models.RecommendationEntry{
			Symbol:         sym,
			Price:          a.Price,
			Change24h:      a.Change24h,
			RiskScore:      a.RiskScore,
			Recommendation: a.Recommendation,
			Confidence:     a.Confidence,
			Score:          recommendationScore(a),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// serve implements the shared cache/compute/distribute path.
func (e *Engine) serve(ctx context.Context, domain models.Domain, key string, compute func(context.Context) (models.AnalysisResult, error)) (models.AnalysisResult, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordLatency("analyze_"+string(domain), time.Since(start).Seconds())
	}()

	if res, ok := e.store.Get(ctx, key); ok {
		e.metrics.RecordCacheHit(string(domain))
		e.metrics.RecordAnalysis(string(domain), string(res.Source))
		return res, nil
	}
	e.metrics.RecordCacheMiss(string(domain))

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have filled the store already.
		if res, ok := e.store.Get(ctx, key); ok {
			return res, nil
		}

		res, err := compute(ctx)
		if err != nil {
			return models.AnalysisResult{}, err
		}

		e.store.Put(ctx, key, res, 0)
		e.hub.Push(res)
		e.publish(ctx, key, res)
		return res, nil
	})
	if err != nil {
		e.metrics.RecordError("analyze_" + string(domain))
		return models.AnalysisResult{}, err
	}

	res := v.(models.AnalysisResult)
	e.metrics.RecordAnalysis(string(domain), string(res.Source))
	return res, nil
}

func (e *Engine) publish(ctx context.Context, key string, res models.AnalysisResult) {
	if e.publisher == nil || e.publishTo == "" {
		return
	}
	if err := e.publisher.Publish(ctx, e.publishTo, []byte(key), res); err != nil {
		e.log.Warn("publish result failed",
			applogger.String("key", key),
			applogger.Error(err),
		)
		e.metrics.RecordError("publish")
	}
}

func recommendationScore(a models.CryptoAnalysis) float64 {
	score := a.Change24h / 10
	switch a.Recommendation {
	case models.RecommendationBuy:
		score += 1
	case models.RecommendationSell:
		score -= 1
	}
	switch a.Confidence {
	case models.ConfidenceHigh:
		score *= 1.5
	case models.ConfidenceLow:
		score *= 0.5
	}
	return score - a.RiskScore/2
}

func normalize(symbol string) (string, error) {
	return router.Normalize(symbol)
}
