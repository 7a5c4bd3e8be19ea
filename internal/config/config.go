package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	LLM          LLMConfig
	Cache        CacheConfig
	Catalog      CatalogConfig
	Tickets      TicketConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN disables Postgres.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// LLMConfig lists the completion providers. Providers without a usable key are skipped.
type LLMConfig struct {
	GoogleAPIKey      string
	GeminiModel       string
	AnthropicAPIKey   string
	AnthropicModel    string
	OpenAIAPIKey      string
	OpenAIModel       string
	MaxTokens         int
	TimeoutSeconds    int
	RequestsPerSecond float64
	Burst             int
}

// CacheConfig configures the decision cache.
type CacheConfig struct {
	Backend    string
	TTLSeconds int
	MaxEntries int
	KeyPrefix  string
}

// CatalogConfig selects where parts, models and orders are read from.
type CatalogConfig struct {
	Source string
	Path   string
}

// TicketConfig controls support ticket numbering.
type TicketConfig struct {
	NumberPrefix string
	StartNumber  int64
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	CatalogSourceEmbedded = "embedded"
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("LLM_REQUESTS_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_REQUESTS_PER_SECOND: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "parts-assistant"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		LLM: LLMConfig{
			GoogleAPIKey:      providerKey("GOOGLE_API_KEY"),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			AnthropicAPIKey:   providerKey("ANTHROPIC_API_KEY"),
			AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
			OpenAIAPIKey:      providerKey("OPENAI_API_KEY"),
			OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 1024),
			TimeoutSeconds:    getEnvAsInt("LLM_TIMEOUT_SECONDS", 20),
			RequestsPerSecond: rps,
			Burst:             getEnvAsInt("LLM_BURST", 10),
		},
		Cache: CacheConfig{
			Backend:    strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 300),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 100),
			KeyPrefix:  getEnv("CACHE_KEY_PREFIX", "parts-assistant:decision:"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceEmbedded)),
			Path:   os.Getenv("CATALOG_PATH"),
		},
		Tickets: TicketConfig{
			NumberPrefix: getEnv("TICKET_NUMBER_PREFIX", "ST-2024"),
			StartNumber:  int64(getEnvAsInt("TICKET_START_NUMBER", 10001)),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q", c.Cache.Backend)
	}
	switch c.Catalog.Source {
	case CatalogSourceEmbedded:
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH required when CATALOG_SOURCE=file")
		}
	case CatalogSourcePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN required when CATALOG_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q", c.Catalog.Source)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout bounds a single completion call.
func (l LLMConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// providerKey reads an API key and discards unset or placeholder values.
func providerKey(key string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" || strings.HasPrefix(val, "your_") || strings.HasSuffix(val, "_here") {
		return ""
	}
	return val
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
