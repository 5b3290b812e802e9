// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (config.yaml in the working directory or ~/.knowledgebot/)
//  3. Default values
//
// A .env file in the working directory is loaded into the environment before
// resolution, matching common cloud-deployment practice.
//
// Error Handling:
//   - Sentinel errors enable Go-idiomatic checking with errors.Is()
//   - Wrapped with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates the OpenAI API key is not set.
	ErrMissingAPIKey = errors.New("missing OpenAI API key")

	// ErrInvalidChunking indicates chunk size/overlap values are inconsistent.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrInvalidTopK indicates the retrieval top-k value is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidHistoryWindow indicates the conversation window is out of range.
	ErrInvalidHistoryWindow = errors.New("invalid conversation history window")

	// ErrInvalidFallbackChunks indicates the fallback context bound is out of range.
	ErrInvalidFallbackChunks = errors.New("invalid max_fallback_chunks")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")
)

const (
	// DefaultEmbeddingModel matches the 1536-dimension column in the
	// document_embeddings migration; see store.VectorDimension.
	DefaultEmbeddingModel = "text-embedding-ada-002"

	// DefaultChatModel is the chat-completion model used for answers.
	DefaultChatModel = "gpt-4o-mini"

	// DefaultMaxHistory is the per-channel conversation window.
	DefaultMaxHistory = 10

	// DefaultMaxChannels bounds the total number of tracked channels so an
	// attacker opening many channels cannot exhaust memory.
	DefaultMaxChannels = 1000
)

// Config stores application configuration.
type Config struct {
	// OpenAI provider configuration
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	// Model selection
	EmbeddingModel string `mapstructure:"embedding_model"`
	ChatModel      string `mapstructure:"chat_model"`

	// Retrieval and generation tuning
	TopK              int `mapstructure:"top_k"`
	MaxFallbackChunks int `mapstructure:"max_fallback_chunks"`
	ChunkSize         int `mapstructure:"chunk_size"`
	ChunkOverlap      int `mapstructure:"chunk_overlap"`

	// Conversation memory
	MaxHistory  int `mapstructure:"max_conversation_history"`
	MaxChannels int `mapstructure:"max_channels"`

	// Storage configuration (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE: never logged
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// Twitter sync collaborator (optional; sync disabled when token empty)
	TwitterBearerToken string `mapstructure:"twitter_bearer_token"` // SENSITIVE: never logged
	TwitterUsername    string `mapstructure:"twitter_username"`

	// HTTP server
	HTTPAddr string `mapstructure:"http_addr"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	// Load .env if present; absence is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".knowledgebot"))
	}

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding_model", DefaultEmbeddingModel)
	v.SetDefault("chat_model", DefaultChatModel)

	v.SetDefault("top_k", 5)
	v.SetDefault("max_fallback_chunks", 30)
	v.SetDefault("chunk_size", 1000)
	v.SetDefault("chunk_overlap", 200)

	v.SetDefault("max_conversation_history", DefaultMaxHistory)
	v.SetDefault("max_channels", DefaultMaxChannels)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "knowledgebot")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_db_name", "knowledgebot")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("twitter_username", "sol_pollinet")

	v.SetDefault("http_addr", "127.0.0.1:8080")
}

// bindEnvVariables binds sensitive environment variables explicitly.
// Secrets are only accepted from the environment, never from config.yaml
// checked into a repository by mistake.
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("twitter_bearer_token", "TWITTER_BEARER_TOKEN", "TWITTER_API_KEY")
	_ = v.BindEnv("postgres_password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
}
