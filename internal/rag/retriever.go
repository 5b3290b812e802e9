package rag

import (
	"context"
	"fmt"

	"github.com/pollinet/knowledgebot/internal/log"
)

// Retriever embeds a query and runs top-k similarity search against the
// vector store. It is stateless given its store and embedder handles.
type Retriever struct {
	embedder Embedder
	vs       VectorStore
	topK     int
	logger   log.Logger
}

// NewRetriever creates a Retriever. topK <= 0 falls back to DefaultTopK.
func NewRetriever(embedder Embedder, vs VectorStore, topK int, logger log.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Retriever{embedder: embedder, vs: vs, topK: topK, logger: logger}
}

// Retrieve returns the content of the chunks most similar to query, nearest
// first. An empty result is a valid, non-error outcome meaning "no relevant
// context"; callers use it to trigger the fallback generation path.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	chunks, err := r.vs.Search(ctx, queryVec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	r.logger.Debug("retrieved chunks", "count", len(chunks), "top_k", r.topK)
	return chunks, nil
}
