package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Search     SearchConfig
	Agent      AgentConfig
	Session    SessionConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred over the fields below
	Host               string `validate:"required_without=DSN"`
	Port               int    `validate:"min=1,max=65535"`
	User               string
	Password           string
	Database           string `validate:"required_without=DSN"`
	SSLMode            string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxConnections     int    `validate:"min=1"`
	MaxIdleConnections int    `validate:"min=0,ltefield=MaxConnections"`
	SearchLogEnabled   bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int    `validate:"min=1,max=65535"`
	Host            string `validate:"required"`
	GinMode         string `validate:"oneof=debug release test"`
	AllowedOrigins  string
	AllowedMethods  string
	AllowedHeaders  string
	ShutdownTimeout time.Duration `validate:"min=0"`
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	PageSize int `validate:"min=1,max=100"`
}

// AgentConfig bounds the dialogue engine
type AgentConfig struct {
	MaxPages      int  `validate:"min=1,max=100"`
	MaxDepth      int  `validate:"min=5,max=1000"`
	ContextWindow int  `validate:"min=1,max=50"`
	RulesOnly     bool // skip the LLM extractor even when a key is configured
}

// SessionConfig selects where the server keeps conversation state
type SessionConfig struct {
	Store string        `validate:"oneof=memory badger"`
	Path  string        `validate:"required_if=Store badger"`
	TTL   time.Duration `validate:"min=0"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey          string
	APIBase         string  `validate:"omitempty,url"`
	ChatModel       string  `validate:"required_with=APIKey"`
	ChatTemperature float32 `validate:"min=0,max=2"`
	ChatTopP        float32 `validate:"min=0,max=1"`
	ChatMaxTokens   int     `validate:"min=0"`
	Timeout         int     `validate:"min=1"`
	Enabled         bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "wareongo"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			SearchLogEnabled:   getEnvAsBool("SEARCH_LOG_ENABLED", true),
		},
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:         getEnv("GIN_MODE", "release"),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods:  getEnv("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders:  getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
			ShutdownTimeout: time.Duration(getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 10)) * time.Second,
		},
		Search: SearchConfig{
			PageSize: getEnvAsInt("SEARCH_PAGE_SIZE", 5),
		},
		Agent: AgentConfig{
			MaxPages:      getEnvAsInt("AGENT_MAX_PAGES", 10),
			MaxDepth:      getEnvAsInt("AGENT_MAX_DEPTH", 50),
			ContextWindow: getEnvAsInt("AGENT_CONTEXT_WINDOW", 6),
			RulesOnly:     getEnvAsBool("AGENT_RULES_ONLY", false),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			Path:  getEnv("SESSION_PATH", ""),
			TTL:   time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: float32(getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2)),
			ChatTopP:        float32(getEnvAsFloat("OPENAI_CHAT_TOP_P", 0.7)),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:         getEnv("OPENAI_API_KEY", "") != "",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// NewLogger builds the process logger from the logging section
func NewLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("Invalid integer value, using default", "key", key, "default", defaultValue)
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
		slog.Warn("Invalid float value, using default", "key", key, "default", defaultValue)
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
		slog.Warn("Invalid boolean value, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}
