package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Impact analyzers
const (
	AnalyzerKeyword = "keyword"
	AnalyzerNone    = "none"
)

// Cache backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Cache
	DataDir      string
	CacheBackend string // file, postgres, redis
	PostsLimit   int

	Database DatabaseConfig
	Redis    RedisConfig

	// Upstream collaborators
	Social   FeedConfig
	News     FeedConfig
	Fetch    FetchConfig
	Analyzer string // keyword, none
	Lexicon  string

	// Relay
	Proxy ProxyConfig

	// Scheduled explicit refresh, empty = disabled
	RefreshSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration for the postgres cache backend
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration for the redis cache backend
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// FeedConfig describes one acquisition feed
type FeedConfig struct {
	BaseURL string
	Query   string
	Enabled bool
}

// FetchConfig is the HTTP discipline shared by feeds
type FetchConfig struct {
	Timeout    time.Duration
	RatePerSec float64
	MaxRetries int
}

// ProxyConfig holds relay settings
type ProxyConfig struct {
	Port   string
	Target string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "5001"),
		Env:  getEnv("ENV", "development"),

		DataDir:      getEnv("DATA_DIR", "data"),
		CacheBackend: getEnv("CACHE_BACKEND", BackendFile),
		PostsLimit:   getEnvAsInt("POSTS_LIMIT", 10),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "tickerpulse"),
		},

		Social: FeedConfig{
			BaseURL: getEnv("SOCIAL_FEED_URL", "https://www.reddit.com"),
			Query:   getEnv("SOCIAL_QUERY", "trump"),
			Enabled: getEnvAsBool("SOCIAL_ENABLED", true),
		},
		News: FeedConfig{
			BaseURL: getEnv("NEWS_FEED_URL", "https://news.google.com"),
			Query:   getEnv("NEWS_QUERY", "trump"),
			Enabled: getEnvAsBool("NEWS_ENABLED", true),
		},
		Fetch: FetchConfig{
			Timeout:    getEnvAsDuration("FEED_TIMEOUT", "15s"),
			RatePerSec: getEnvAsFloat("FEED_RATE_PER_SEC", 2),
			MaxRetries: getEnvAsInt("FEED_MAX_RETRIES", 1),
		},
		Analyzer: getEnv("ANALYZER", AnalyzerKeyword),
		Lexicon:  getEnv("LEXICON_PATH", ""),

		Proxy: ProxyConfig{
			Port:   getEnv("PROXY_PORT", "8080"),
			Target: getEnv("PROXY_TARGET", "http://localhost:5001"),
		},

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.CacheBackend {
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file cache backend")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres cache backend")
		}
	case BackendRedis:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: file, postgres, redis")
	}

	if c.Analyzer != AnalyzerKeyword && c.Analyzer != AnalyzerNone {
		return fmt.Errorf("ANALYZER must be one of: keyword, none")
	}

	if c.PostsLimit <= 0 {
		return fmt.Errorf("POSTS_LIMIT must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

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
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
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
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
