// Package provider contains HTTP clients for the external embedding and
// chat-completion providers.
//
// Both clients speak the OpenAI wire format and accept a configurable base
// URL, so any compatible endpoint (Azure OpenAI, local gateways) works. No
// caching, batching, or retries happen here; retry policy belongs to the
// caller or the transport beneath.
package provider

import (
	"fmt"
	"net/http"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultEmbedTimeout   = 60 * time.Second
	DefaultChatTimeout    = 120 * time.Second
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultChatModel      = "gpt-4o-mini"
)

// Error reports a failed or malformed provider call. StatusCode is zero when
// the failure happened before a response arrived (transport error, bad
// schema).
type Error struct {
	Op         string // "embeddings" or "chat/completions"
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is one entry of a chat-completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Config holds shared configuration for the provider clients.
type Config struct {
	// APIKey is the provider API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string

	// ChatModel is the chat-completion model identifier.
	ChatModel string

	// HTTPClient overrides the default client; mainly for tests.
	HTTPClient *http.Client
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	return cfg
}
