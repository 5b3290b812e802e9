package rag

import (
	"context"
	"fmt"

	"github.com/pollinet/knowledgebot/internal/log"
	"github.com/pollinet/knowledgebot/internal/provider"
)

// Generation tuning. Grounded answers run cold to stay extractive; fallback
// answers run warmer so the model can phrase things naturally from the
// whole-corpus context.
const (
	groundedTemperature float32 = 0.3
	fallbackTemperature float32 = 0.7
	maxAnswerTokens             = 500
)

// Generator builds prompts from retrieved context plus conversation history
// and calls the chat-completion provider. It implements both the grounded
// mode and the whole-corpus fallback mode.
type Generator struct {
	chat              Completer
	vs                VectorStore
	maxHistory        int
	maxFallbackChunks int
	logger            log.Logger
}

// NewGenerator creates a Generator. Non-positive bounds fall back to the
// package defaults.
func NewGenerator(chat Completer, vs VectorStore, maxHistory, maxFallbackChunks int, logger log.Logger) *Generator {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	if maxFallbackChunks <= 0 {
		maxFallbackChunks = DefaultMaxFallbackChunks
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Generator{
		chat:              chat,
		vs:                vs,
		maxHistory:        maxHistory,
		maxFallbackChunks: maxFallbackChunks,
		logger:            logger,
	}
}

// Generate produces a grounded answer constrained to the supplied chunks.
// When the context does not contain the answer, the model replies with the
// exact Sentinel phrase instead of speculating.
func (g *Generator) Generate(ctx context.Context, query string, chunks []string, history []provider.Message) (string, error) {
	messages := buildMessages(groundedSystemPrompt(chunks), history, g.maxHistory, query)

	answer, err := g.chat.Complete(ctx, messages, groundedTemperature, maxAnswerTokens)
	if err != nil {
		return "", fmt.Errorf("grounded generation: %w", err)
	}

	g.logger.Debug("grounded answer generated", "context_chunks", len(chunks))
	return answer, nil
}

// GenerateFallback produces an answer from a bounded whole-corpus context
// instead of similarity-matched chunks. Used when targeted retrieval yields
// nothing usable. Questions entirely unrelated to the domain get the fixed
// FallbackRefusal sentence.
func (g *Generator) GenerateFallback(ctx context.Context, query string, history []provider.Message) (string, error) {
	corpus, err := g.vs.ListRecent(ctx, g.maxFallbackChunks)
	if err != nil {
		return "", fmt.Errorf("loading fallback corpus: %w", err)
	}

	messages := buildMessages(fallbackSystemPrompt(corpus), history, g.maxHistory, query)

	answer, err := g.chat.Complete(ctx, messages, fallbackTemperature, maxAnswerTokens)
	if err != nil {
		return "", fmt.Errorf("fallback generation: %w", err)
	}

	g.logger.Debug("fallback answer generated", "corpus_chunks", len(corpus))
	return answer, nil
}

// buildMessages assembles [system, ...trimmed history, user].
func buildMessages(systemPrompt string, history []provider.Message, maxHistory int, query string) []provider.Message {
	trimmed := trimHistory(history, maxHistory)

	messages := make([]provider.Message, 0, len(trimmed)+2)
	messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: systemPrompt})
	messages = append(messages, trimmed...)
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: query})
	return messages
}
