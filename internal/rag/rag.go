package rag

import (
	"context"

	"github.com/pollinet/knowledgebot/internal/provider"
	"github.com/pollinet/knowledgebot/internal/store"
)

// Embedder converts text into a fixed-dimension vector.
// *provider.EmbeddingClient implements this interface.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer calls a chat-completion provider with a constructed message
// sequence. *provider.ChatClient implements this interface.
type Completer interface {
	Complete(ctx context.Context, messages []provider.Message, temperature float32, maxTokens int) (string, error)
}

// VectorStore is the subset of store operations the engine needs.
// *store.Store implements this interface.
type VectorStore interface {
	Upsert(ctx context.Context, chunk store.Chunk) error
	Search(ctx context.Context, queryVec []float32, k int) ([]string, error)
	ListRecent(ctx context.Context, limit int) ([]string, error)
}

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	TopK              int // similarity search depth (default 5)
	ChunkSize         int // ingestion chunk size in runes (default 1000)
	ChunkOverlap      int // overlap between consecutive chunks (default 200)
	MaxHistory        int // conversation messages included per prompt (default 10)
	MaxFallbackChunks int // whole-corpus context bound (default 30)
}

// Engine option defaults.
const (
	DefaultTopK              = 5
	DefaultMaxHistory        = 10
	DefaultMaxFallbackChunks = 30
)

func (o Options) withDefaults() Options {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 1000
	}
	if o.ChunkOverlap <= 0 {
		o.ChunkOverlap = 200
	}
	if o.ChunkOverlap >= o.ChunkSize {
		// Keep the splitter's step positive for unusually small sizes.
		o.ChunkOverlap = o.ChunkSize / 5
	}
	if o.MaxHistory <= 0 {
		o.MaxHistory = DefaultMaxHistory
	}
	if o.MaxFallbackChunks <= 0 {
		o.MaxFallbackChunks = DefaultMaxFallbackChunks
	}
	return o
}

// trimHistory returns the most recent max entries of history.
// The engine never includes more conversation context than this, independent
// of the caller's own sliding window.
func trimHistory(history []provider.Message, max int) []provider.Message {
	if len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}
