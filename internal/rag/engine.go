package rag

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pollinet/knowledgebot/internal/chunker"
	"github.com/pollinet/knowledgebot/internal/log"
	"github.com/pollinet/knowledgebot/internal/provider"
	"github.com/pollinet/knowledgebot/internal/store"
)

// Engine is the top-level entry point of the RAG system. It orchestrates
// retrieval, grounded generation, the fallback decision, and document
// ingestion. Engine holds no state across calls.
type Engine struct {
	embedder  Embedder
	vs        VectorStore
	retriever *Retriever
	generator *Generator
	opts      Options
	logger    log.Logger
}

// NewEngine wires up the engine from its collaborators.
func NewEngine(embedder Embedder, chat Completer, vs VectorStore, opts Options, logger log.Logger) *Engine {
	opts = opts.withDefaults()
	if logger == nil {
		logger = log.NewNop()
	}
	return &Engine{
		embedder:  embedder,
		vs:        vs,
		retriever: NewRetriever(embedder, vs, opts.TopK, logger),
		generator: NewGenerator(chat, vs, opts.MaxHistory, opts.MaxFallbackChunks, logger),
		opts:      opts,
		logger:    logger,
	}
}

// Retriever exposes the engine's retriever for collaborators that need raw
// similarity search, such as the ingestion deduplicator.
func (e *Engine) Retriever() *Retriever { return e.retriever }

// Answer runs the full query path: retrieve, generate grounded, and fall
// back to whole-corpus generation when grounding fails.
//
// Fallback triggers in two cases:
//   - retrieval returns no chunks (grounded generation is skipped entirely)
//   - the grounded answer contains the Sentinel phrase, meaning the model
//     could not answer from the supplied context
//
// The fallback result is always returned as-is; there is no further
// escalation tier.
func (e *Engine) Answer(ctx context.Context, query string, history []provider.Message) (string, error) {
	chunks, err := e.retriever.Retrieve(ctx, query)
	if err != nil {
		var provErr *provider.Error
		if errors.As(err, &provErr) {
			return "", err
		}
		// A store-side search failure degrades to the fallback path;
		// the corpus read there may still succeed.
		e.logger.Warn("similarity search failed, trying fallback", "error", err)
		return e.generator.GenerateFallback(ctx, query, history)
	}

	if len(chunks) == 0 {
		e.logger.Info("no relevant chunks found, using fallback", "query_length", len(query))
		return e.generator.GenerateFallback(ctx, query, history)
	}

	answer, err := e.generator.Generate(ctx, query, chunks, history)
	if err != nil {
		return "", err
	}

	if strings.Contains(answer, Sentinel) {
		e.logger.Info("grounded answer hit sentinel, using fallback")
		return e.generator.GenerateFallback(ctx, query, history)
	}

	return answer, nil
}

// Ingest chunks the document, embeds each chunk, and upserts it into the
// store. Chunk IDs are {name}_{index}, so re-ingesting the same document
// overwrites in place.
//
// Ingestion is not transactional across the document: on error the chunks
// ingested so far stay in the store and the count returned reflects them.
// Re-running Ingest is safe because upserts are idempotent.
func (e *Engine) Ingest(ctx context.Context, name, text string, metadata map[string]string) (int, error) {
	chunks := chunker.Split(text, e.opts.ChunkSize, e.opts.ChunkOverlap)
	e.logger.Info("ingesting document", "name", name, "chunks", len(chunks))

	for idx, content := range chunks {
		embedding, err := e.embedder.Embed(ctx, content)
		if err != nil {
			return idx, fmt.Errorf("embedding chunk %d of %q: %w", idx, name, err)
		}

		chunkMetadata := make(map[string]string, len(metadata)+2)
		for k, v := range metadata {
			chunkMetadata[k] = v
		}
		chunkMetadata["document"] = name
		chunkMetadata["chunk_index"] = strconv.Itoa(idx)

		chunk := store.Chunk{
			ID:        fmt.Sprintf("%s_%d", name, idx),
			Content:   content,
			Embedding: embedding,
			Metadata:  chunkMetadata,
		}
		if err := e.vs.Upsert(ctx, chunk); err != nil {
			return idx, fmt.Errorf("storing chunk %d of %q: %w", idx, name, err)
		}
	}

	return len(chunks), nil
}
