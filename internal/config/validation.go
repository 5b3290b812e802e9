package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values that would fail later at
// runtime. It is called by Load and fails fast with sentinel errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}

	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk_size must be >= 1, got %d", ErrInvalidChunking, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap %d must be in [0, chunk_size)", ErrInvalidChunking, c.ChunkOverlap)
	}

	if c.TopK < 1 || c.TopK > 100 {
		return fmt.Errorf("%w: top_k %d must be in [1, 100]", ErrInvalidTopK, c.TopK)
	}

	if c.MaxHistory < 1 || c.MaxHistory > 1000 {
		return fmt.Errorf("%w: max_conversation_history %d must be in [1, 1000]", ErrInvalidHistoryWindow, c.MaxHistory)
	}
	if c.MaxChannels < 1 {
		return fmt.Errorf("%w: max_channels %d must be >= 1", ErrInvalidHistoryWindow, c.MaxChannels)
	}

	if c.MaxFallbackChunks < 1 || c.MaxFallbackChunks > 1000 {
		return fmt.Errorf("%w: max_fallback_chunks %d must be in [1, 1000]", ErrInvalidFallbackChunks, c.MaxFallbackChunks)
	}

	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: postgres_host is empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: postgres_port %d must be in [1, 65535]", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if strings.TrimSpace(c.PostgresDBName) == "" {
		return fmt.Errorf("%w: postgres_db_name is empty", ErrInvalidPostgresDBName)
	}

	return nil
}
