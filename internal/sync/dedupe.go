package sync

import (
	"context"
	"fmt"
	"strings"
)

// dedupePrefixLen is how many leading runes two texts must share to be
// considered the same document. Tweets are short, so a matching prefix of
// this length almost always means a re-fetch of the same tweet.
const dedupePrefixLen = 50

// ChunkRetriever finds stored chunks semantically similar to a query text.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query string) ([]string, error)
}

// Deduplicator decides whether a candidate document is already in the
// knowledge base. It reuses the retrieval path: the candidate text is
// embedded and searched, and the nearest stored chunks are compared against
// the candidate.
type Deduplicator struct {
	retriever ChunkRetriever
}

// NewDeduplicator creates a Deduplicator on top of a retriever.
func NewDeduplicator(retriever ChunkRetriever) *Deduplicator {
	return &Deduplicator{retriever: retriever}
}

// IsDuplicate reports whether text is already represented in the store.
// A stored chunk counts as a duplicate when it contains externalID (the
// source's stable identifier, such as a tweet id) or when its first
// dedupePrefixLen runes exactly equal the candidate's.
func (d *Deduplicator) IsDuplicate(ctx context.Context, text, externalID string) (bool, error) {
	chunks, err := d.retriever.Retrieve(ctx, text)
	if err != nil {
		return false, fmt.Errorf("retrieving similar chunks: %w", err)
	}

	prefix := runePrefix(text, dedupePrefixLen)
	for _, chunk := range chunks {
		if externalID != "" && strings.Contains(chunk, externalID) {
			return true, nil
		}
		if prefix != "" && runePrefix(chunk, dedupePrefixLen) == prefix {
			return true, nil
		}
	}
	return false, nil
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
