package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Providers struct {
		QuoteURL       string        `yaml:"quote_url"`
		QuoteAPIKey    string        `yaml:"quote_api_key"`
		FallbackURL    string        `yaml:"fallback_url"`
		FallbackAPIKey string        `yaml:"fallback_api_key"`
		NewsURL        string        `yaml:"news_url"`
		NewsAPIKey     string        `yaml:"news_api_key"`
		Timeout        time.Duration `yaml:"timeout"`
		Retries        int           `yaml:"retries"`
	} `yaml:"providers"`
	Engine struct {
		CryptoSymbols   []string `yaml:"crypto_symbols"`
		BenchmarkSymbol string   `yaml:"benchmark_symbol"`
		Volatility      struct {
			CryptoMin float64 `yaml:"crypto_min"`
			CryptoMax float64 `yaml:"crypto_max"`
			StockMin  float64 `yaml:"stock_min"`
			StockMax  float64 `yaml:"stock_max"`
			ForexMin  float64 `yaml:"forex_min"`
			ForexMax  float64 `yaml:"forex_max"`
		} `yaml:"volatility"`
		Sentiment struct {
			NewsWeight        float64 `yaml:"news_weight"`
			SocialWeight      float64 `yaml:"social_weight"`
			TrendingMentions  int     `yaml:"trending_mentions"`
			LowVolumeSamples  int     `yaml:"low_volume_samples"`
			FullVolumeSamples int     `yaml:"full_volume_samples"`
		} `yaml:"sentiment"`
	} `yaml:"engine"`
	Cache struct {
		TTL struct {
			Crypto      time.Duration `yaml:"crypto"`
			Stock       time.Duration `yaml:"stock"`
			Options     time.Duration `yaml:"options"`
			Forex       time.Duration `yaml:"forex"`
			Sentiment   time.Duration `yaml:"sentiment"`
			Correlation time.Duration `yaml:"correlation"`
		} `yaml:"ttl"`
		MaxEntries int `yaml:"max_entries"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Stream struct {
		HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
		SendBuffer        int           `yaml:"send_buffer"`
		WriteTimeout      time.Duration `yaml:"write_timeout"`
		PongTimeout       time.Duration `yaml:"pong_timeout"`
	} `yaml:"stream"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		c.Providers.QuoteAPIKey = v
	}
	if v := os.Getenv("FALLBACK_API_KEY"); v != "" {
		c.Providers.FallbackAPIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.Providers.NewsAPIKey = v
	}
	if v := os.Getenv("CRYPTO_SYMBOLS"); v != "" {
		c.Engine.CryptoSymbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

// applyDefaults fills zero-valued tunables so a minimal YAML still runs.
func (c *Config) applyDefaults() {
	if len(c.Engine.CryptoSymbols) == 0 {
		c.Engine.CryptoSymbols = []string{"BTC", "ETH", "ADA", "SOL", "DOT", "MATIC", "BNB", "XRP", "DOGE", "LINK"}
	}
	if c.Engine.BenchmarkSymbol == "" {
		c.Engine.BenchmarkSymbol = "SPY"
	}
	v := &c.Engine.Volatility
	if v.CryptoMax == 0 {
		v.CryptoMin, v.CryptoMax = 0.02, 0.12
	}
	if v.StockMax == 0 {
		v.StockMin, v.StockMax = 0.008, 0.06
	}
	if v.ForexMax == 0 {
		v.ForexMin, v.ForexMax = 0.002, 0.02
	}
	s := &c.Engine.Sentiment
	if s.NewsWeight == 0 && s.SocialWeight == 0 {
		s.NewsWeight, s.SocialWeight = 0.6, 0.4
	}
	if s.TrendingMentions == 0 {
		s.TrendingMentions = 5000
	}
	if s.LowVolumeSamples == 0 {
		s.LowVolumeSamples = 20
	}
	if s.FullVolumeSamples == 0 {
		s.FullVolumeSamples = 500
	}
	ttl := &c.Cache.TTL
	if ttl.Crypto == 0 {
		ttl.Crypto = 90 * time.Second
	}
	if ttl.Stock == 0 {
		ttl.Stock = 90 * time.Second
	}
	if ttl.Options == 0 {
		ttl.Options = 2 * time.Minute
	}
	if ttl.Forex == 0 {
		ttl.Forex = 30 * time.Second
	}
	if ttl.Sentiment == 0 {
		ttl.Sentiment = 5 * time.Minute
	}
	if ttl.Correlation == 0 {
		ttl.Correlation = 5 * time.Minute
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 10000
	}
	if c.Providers.Timeout == 0 {
		c.Providers.Timeout = 5 * time.Second
	}
	if c.Providers.Retries == 0 {
		c.Providers.Retries = 2
	}
	if c.Stream.HeartbeatInterval == 0 {
		c.Stream.HeartbeatInterval = 30 * time.Second
	}
	if c.Stream.SendBuffer == 0 {
		c.Stream.SendBuffer = 256
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = 10 * time.Second
	}
	if c.Stream.PongTimeout == 0 {
		c.Stream.PongTimeout = 60 * time.Second
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 100
	}
	if c.RateLimit.RefillPerSec == 0 {
		c.RateLimit.RefillPerSec = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if len(c.Engine.CryptoSymbols) == 0 {
		return fmt.Errorf("engine.crypto_symbols cannot be empty")
	}
	s := c.Engine.Sentiment
	if s.NewsWeight+s.SocialWeight <= 0 {
		return fmt.Errorf("engine.sentiment weights must sum to a positive value")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka is enabled")
	}
	return nil
}
