package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Fetch strategies for the aggregator page
const (
	FetchPlain    = "plain"
	FetchHeadered = "headered"
	FetchRendered = "rendered"
)

// Quote providers
const (
	ProviderChart     = "chart"
	ProviderFinanceGo = "financego"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// Cache
	Cache CacheConfig

	// External sources
	Source SourceConfig
	Quote  QuoteConfig

	// Pipeline
	Screener ScreenerConfig

	// HTTP
	HTTPTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// CacheConfig holds pipeline cache configuration
type CacheConfig struct {
	Backend string        // memory, redis
	TTL     time.Duration // 기본 1시간
	Prefix  string
}

// SourceConfig holds aggregator page (Dataroma) configuration
type SourceConfig struct {
	URL           string
	TableSelector string
	Strategy      string // plain, headered, rendered
	UserAgent     string
	RenderTimeout time.Duration
}

// QuoteConfig holds market-data provider configuration
type QuoteConfig struct {
	Provider  string // chart, financego
	BaseURL   string
	RateLimit float64 // requests per second, 0 = unlimited
}

// ScreenerConfig holds pipeline configuration
type ScreenerConfig struct {
	Concurrency     int    // 1 = sequential
	RefreshSchedule string // cron expression (with seconds)
}

// DefaultUserAgent is the browser identity sent by the headered and rendered fetchers
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/122.0.0.0 Safari/537.36"

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", CacheMemory),
			TTL:     getEnvAsDuration("CACHE_TTL", "1h"),
			Prefix:  getEnv("CACHE_PREFIX", "screener"),
		},

		Source: SourceConfig{
			URL:           getEnv("SOURCE_URL", "https://www.dataroma.com/m/grid.php"),
			TableSelector: getEnv("SOURCE_TABLE_SELECTOR", "table.grid"),
			Strategy:      getEnv("FETCH_STRATEGY", FetchHeadered),
			UserAgent:     getEnv("USER_AGENT", DefaultUserAgent),
			RenderTimeout: getEnvAsDuration("RENDER_TIMEOUT", "60s"),
		},

		Quote: QuoteConfig{
			Provider:  getEnv("QUOTE_PROVIDER", ProviderChart),
			BaseURL:   getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			RateLimit: getEnvAsFloat("QUOTE_RATE_LIMIT", 5),
		},

		Screener: ScreenerConfig{
			Concurrency:     getEnvAsInt("SCREENER_CONCURRENCY", 1),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 * * * *"),
		},

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "30s"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate re-checks the config after command-line overrides
func (c *Config) Validate() error {
	return c.validate()
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Source.Strategy {
	case FetchPlain, FetchHeadered, FetchRendered:
	default:
		return fmt.Errorf("FETCH_STRATEGY must be one of: plain, headered, rendered")
	}

	switch c.Quote.Provider {
	case ProviderChart, ProviderFinanceGo:
	default:
		return fmt.Errorf("QUOTE_PROVIDER must be one of: chart, financego")
	}

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("CACHE_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}

	if c.Source.URL == "" {
		return fmt.Errorf("SOURCE_URL is required")
	}

	if c.Screener.Concurrency < 1 {
		return fmt.Errorf("SCREENER_CONCURRENCY must be >= 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
