// Package sync pulls fresh content from external sources into the knowledge
// base. It fetches tweets, filters out noise, drops documents that are
// already stored, and ingests the rest.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pollinet/knowledgebot/internal/log"
	"github.com/pollinet/knowledgebot/internal/twitter"
)

// ErrSyncInProgress is returned when a sync is requested while another one
// is still running. Only one sync runs at a time.
var ErrSyncInProgress = errors.New("sync already in progress")

// TweetFetcher fetches recent tweets for a username.
type TweetFetcher interface {
	FetchRecent(ctx context.Context, username string, max int) ([]twitter.Tweet, error)
}

// Ingester chunks, embeds, and stores one document.
type Ingester interface {
	Ingest(ctx context.Context, name, text string, metadata map[string]string) (int, error)
}

// Result summarizes one sync run.
type Result struct {
	Added    int       `json:"added"`
	Skipped  int       `json:"skipped"`
	LastSync time.Time `json:"last_sync"`
}

// Syncer runs the fetch, filter, dedup, ingest pipeline. The mutex makes
// runs single-flight: a second Run while one is active fails fast with
// ErrSyncInProgress instead of queueing.
type Syncer struct {
	mu       sync.Mutex
	fetcher  TweetFetcher
	ingester Ingester
	dedup    *Deduplicator
	username string
	maxFetch int
	logger   log.Logger
}

// NewSyncer creates a Syncer for the given official account.
func NewSyncer(fetcher TweetFetcher, ingester Ingester, dedup *Deduplicator, username string, logger log.Logger) *Syncer {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Syncer{
		fetcher:  fetcher,
		ingester: ingester,
		dedup:    dedup,
		username: username,
		maxFetch: twitter.DefaultMaxResults,
		logger:   logger,
	}
}

// Run executes one sync. It returns ErrSyncInProgress if another run holds
// the lock. A dedup or ingest failure on one tweet does not abort the run;
// the tweet is skipped and the pipeline continues.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	if !s.mu.TryLock() {
		return Result{}, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	s.logger.Info("sync started", "username", s.username)

	tweets, err := s.fetcher.FetchRecent(ctx, s.username, s.maxFetch)
	if err != nil {
		return Result{}, fmt.Errorf("fetching tweets: %w", err)
	}

	kept := twitter.Filter(tweets, s.username)
	res := Result{Skipped: len(tweets) - len(kept)}

	for _, tw := range kept {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		category := twitter.Categorize(tw)
		content := twitter.FormatContent(tw, category, s.username)

		dup, err := s.dedup.IsDuplicate(ctx, content, tw.ID)
		if err != nil {
			s.logger.Warn("dedup check failed, skipping tweet", "tweet_id", tw.ID, "error", err)
			res.Skipped++
			continue
		}
		if dup {
			s.logger.Debug("skipping duplicate tweet", "tweet_id", tw.ID)
			res.Skipped++
			continue
		}

		name := "tweet_" + tw.ID
		if _, err := s.ingester.Ingest(ctx, name, content, twitter.Metadata(tw, category, s.username)); err != nil {
			s.logger.Warn("ingest failed, skipping tweet", "tweet_id", tw.ID, "error", err)
			res.Skipped++
			continue
		}
		res.Added++
	}

	res.LastSync = time.Now().UTC()
	s.logger.Info("sync finished", "added", res.Added, "skipped", res.Skipped)
	return res, nil
}
