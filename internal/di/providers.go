package di

import (
	"fmt"

	"MarketPulse/internal/analyzer"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/gateway"
	"MarketPulse/internal/handler/api"
	"MarketPulse/internal/router"
	svccache "MarketPulse/internal/service/cache"
	"MarketPulse/internal/stream"
	"MarketPulse/internal/usecase"
	pkgcache "MarketPulse/pkg/cache"
	"MarketPulse/pkg/config"
	pkghttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRouter creates the symbol router from the configured
// crypto allow-list.
func ProvideRouter(cfg *config.Config) *router.Router {
	return router.New(cfg.Engine.CryptoSymbols)
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *pkghttp.Client {
	return pkghttp.NewClient(pkghttp.WithTimeout(cfg.Providers.Timeout))
}

// ProvideGateway assembles the quote provider chain. Providers missing
// their URL or key stay in the chain and fail fast, keeping ordering
// stable; the synthetic fallback covers a fully unconfigured setup.
func ProvideGateway(cfg *config.Config, client *pkghttp.Client, log *applogger.Logger, m repository.Metrics) *gateway.Gateway {
	providers := []repository.MarketProvider{
		gateway.NewQuoteProvider(client, cfg.Providers.QuoteURL, cfg.Providers.QuoteAPIKey),
		gateway.NewGlobalQuoteProvider(client, cfg.Providers.FallbackURL, cfg.Providers.FallbackAPIKey),
	}
	news := gateway.NewNewsProvider(client, cfg.Providers.NewsURL, cfg.Providers.NewsAPIKey)
	return gateway.New(providers, news, cfg.Providers.Timeout, cfg.Providers.Retries, log, m)
}

// ProvideBytesCache picks the cache backend: a memory-over-Redis
// layered cache when Redis is enabled, otherwise the in-process TTL
// cache.
func ProvideBytesCache(cfg *config.Config) (svccache.BytesCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return svccache.NewTTLCache(), nil
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	layered := pkgcache.NewLayeredCache(redisCache,
		pkgcache.WithLayeredMemorySize(cfg.Cache.MaxEntries),
	)
	return svccache.NewServiceCache(layered), nil
}

// ProvideResultStore creates the per-domain result cache.
func ProvideResultStore(cfg *config.Config, bc svccache.BytesCache, log *applogger.Logger, m repository.Metrics) repository.ResultStore {
	return svccache.NewResultStore(bc, svccache.TTLConfig{
		Crypto:      cfg.Cache.TTL.Crypto,
		Stock:       cfg.Cache.TTL.Stock,
		Options:     cfg.Cache.TTL.Options,
		Forex:       cfg.Cache.TTL.Forex,
		Sentiment:   cfg.Cache.TTL.Sentiment,
		Correlation: cfg.Cache.TTL.Correlation,
	}, log, m)
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(cfg *config.Config, log *applogger.Logger, m repository.Metrics) *stream.Hub {
	return stream.NewHub(stream.Config{
		Heartbeat:    cfg.Stream.HeartbeatInterval,
		SendBuffer:   cfg.Stream.SendBuffer,
		WriteTimeout: cfg.Stream.WriteTimeout,
		PongTimeout:  cfg.Stream.PongTimeout,
	}, log, m)
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher adapts the producer to the publisher port. A nil
// producer yields a nil interface so callers can skip publishing.
func ProvidePublisher(producer *pkgkafka.Producer) repository.Publisher {
	if producer == nil {
		return nil
	}
	return producer
}

// ProvideEngine assembles the analysis engine with all its analyzers.
func ProvideEngine(
	cfg *config.Config,
	rt *router.Router,
	gw *gateway.Gateway,
	store repository.ResultStore,
	hub *stream.Hub,
	pub repository.Publisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Engine {
	vol := cfg.Engine.Volatility
	sent := cfg.Engine.Sentiment
	return usecase.New(usecase.Config{
		Router:  rt,
		Gateway: gw,
		Crypto:  analyzer.NewCryptoAnalyzer(analyzer.VolBounds{Min: vol.CryptoMin, Max: vol.CryptoMax}),
		Stock:   analyzer.NewStockAnalyzer(analyzer.VolBounds{Min: vol.StockMin, Max: vol.StockMax}),
		Options: analyzer.NewOptionsAnalyzer(),
		Forex:   analyzer.NewForexAnalyzer(analyzer.VolBounds{Min: vol.ForexMin, Max: vol.ForexMax}),
		Sentiment: analyzer.NewSentimentAnalyzer(analyzer.SentimentConfig{
			NewsWeight:        sent.NewsWeight,
			SocialWeight:      sent.SocialWeight,
			TrendingMentions:  sent.TrendingMentions,
			LowVolumeSamples:  sent.LowVolumeSamples,
			FullVolumeSamples: sent.FullVolumeSamples,
		}),
		Correlation: analyzer.NewCorrelationAnalyzer(rt.IsCrypto),
		Store:       store,
		Hub:         hub,
		Publisher:   pub,
		PublishTo:   cfg.Kafka.Topic,
		Benchmark:   cfg.Engine.BenchmarkSymbol,
		Metrics:     m,
		Logger:      log,
	})
}

// ProvideHandlers wires every HTTP handler into one registration point.
func ProvideHandlers(cfg *config.Config, log *applogger.Logger, eng *usecase.Engine, hub *stream.Hub) *api.Handlers {
	analysis := api.NewAnalysisHandler(log, eng, api.RateLimitConfig{
		Enabled:      cfg.RateLimit.Enabled,
		Capacity:     cfg.RateLimit.Capacity,
		RefillPerSec: cfg.RateLimit.RefillPerSec,
	})
	ws := api.NewStreamHandler(log, hub)
	health := api.NewHealthHandler(cfg.Environment)
	return api.NewHandlers(analysis, ws, health)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	hub *stream.Hub,
	handlers *api.Handlers,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, log, hub, handlers, producer)
}
