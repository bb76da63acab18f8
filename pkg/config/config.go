package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// LLM providers understood by LLMConfig.Provider
const (
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Fireflies FirefliesConfig
	LLM       LLMConfig
	NATS      NATSConfig
	Sync      SyncConfig
	Webhook   WebhookConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
	// URL overrides the discrete fields when set
	URL string
	// AutoMigrate applies pending migrations at API startup
	AutoMigrate bool
}

// RedisConfig holds Redis configuration. When Host is empty the in-memory
// claim store is used instead.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds the bearer verification settings
type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// FirefliesConfig is decoded from FIREFLIES_* variables
type FirefliesConfig struct {
	BaseURL       string        `envconfig:"BASE_URL" default:"https://api.fireflies.ai/graphql"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"30s"`
	WebhookSecret string        `envconfig:"WEBHOOK_SECRET"`
	LookbackDays  int           `envconfig:"LOOKBACK_DAYS" default:"30"`
	FetchLimit    int           `envconfig:"FETCH_LIMIT" default:"50"`
}

// LLMConfig is decoded from LLM_* variables
type LLMConfig struct {
	Provider string        `envconfig:"PROVIDER" default:"anthropic"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"120s"`

	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5-20250929"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com"`

	GroqAPIKey  string `envconfig:"GROQ_API_KEY"`
	GroqModel   string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
	GroqBaseURL string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// NATSConfig is decoded from NATS_* variables. An empty URL disables events.
type NATSConfig struct {
	URL           string `envconfig:"URL"`
	SubjectPrefix string `envconfig:"SUBJECT_PREFIX" default:"salescoach"`
}

// SyncConfig is decoded from SYNC_* variables
type SyncConfig struct {
	Interval    time.Duration `envconfig:"INTERVAL" default:"0"`
	Concurrency int           `envconfig:"CONCURRENCY" default:"4"`
	RunTimeout  time.Duration `envconfig:"RUN_TIMEOUT" default:"10m"`
}

// WebhookConfig is decoded from WEBHOOK_* variables
type WebhookConfig struct {
	DefaultAccountID   string        `envconfig:"DEFAULT_ACCOUNT_ID"`
	DefaultMethodology string        `envconfig:"DEFAULT_METHODOLOGY" default:"sandler"`
	ClaimTTL           time.Duration `envconfig:"CLAIM_TTL" default:"10m"`
}

// Load loads configuration from environment variables. It does not validate
// provider credentials; callers that talk to providers call Validate.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "sales_coach"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
			URL:      getEnv("DATABASE_URL", ""),

			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "your-access-secret-change-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", "15m"),
			Issuer:       getEnv("JWT_ISSUER", ""),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "sales-coach"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
	}

	sections := []struct {
		prefix string
		target interface{}
	}{
		{"FIREFLIES", &config.Fireflies},
		{"LLM", &config.LLM},
		{"NATS", &config.NATS},
		{"SYNC", &config.Sync},
		{"WEBHOOK", &config.Webhook},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.prefix, err)
		}
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderAnthropic:
		if c.LLM.AnthropicAPIKey == "" {
			return fmt.Errorf("LLM_ANTHROPIC_API_KEY is required")
		}
	case ProviderGroq:
		if c.LLM.GroqAPIKey == "" {
			return fmt.Errorf("LLM_GROQ_API_KEY is required")
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("LLM_GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.Webhook.DefaultAccountID != "" {
		if _, err := uuid.Parse(c.Webhook.DefaultAccountID); err != nil {
			return fmt.Errorf("WEBHOOK_DEFAULT_ACCOUNT_ID is not a uuid: %w", err)
		}
	}
	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("SYNC_CONCURRENCY must be at least 1")
	}
	return nil
}

// WebhookDefaultAccount returns the parsed fallback account for webhook
// deliveries, or nil when none is configured.
func (c *Config) WebhookDefaultAccount() *uuid.UUID {
	id, err := uuid.Parse(c.Webhook.DefaultAccountID)
	if err != nil {
		return nil
	}
	return &id
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address, or "" when Redis is not configured
func (c *Config) GetRedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
