// Package twitter fetches, filters, and formats tweets for knowledge-base
// ingestion. It is the upstream side of the sync collaborator; the dedup and
// ingest decisions live in the sync package.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pollinet/knowledgebot/internal/log"
)

const (
	// DefaultBaseURL is the Twitter API v2 base URL.
	DefaultBaseURL = "https://api.twitter.com/2"

	// DefaultMaxResults keeps each sync well inside free-tier quotas.
	DefaultMaxResults = 12

	// requestTimeout bounds one search round-trip.
	requestTimeout = 30 * time.Second
)

// Tweet is one tweet returned by the recent-search endpoint.
type Tweet struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	AuthorID  string  `json:"author_id"`
	CreatedAt string  `json:"created_at"` // RFC 3339
	Metrics   Metrics `json:"public_metrics"`

	// Username is resolved from the response's user expansion; empty when
	// the API omitted the author.
	Username string `json:"-"`
}

// Metrics holds public engagement counts.
type Metrics struct {
	Likes    int `json:"like_count"`
	Retweets int `json:"retweet_count"`
	Replies  int `json:"reply_count"`
}

// searchResponse is the recent-search wire format.
type searchResponse struct {
	Data     []Tweet `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// Client talks to the Twitter API v2 with Bearer-token auth.
// A rate limiter spaces out requests so scheduled and manual syncs together
// stay under the monthly request quota.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	logger  log.Logger
}

// NewClient creates a Client. The limiter allows one request per minute with
// a small burst, which is far below the API ceiling but matches how rarely
// syncs should run.
func NewClient(token string, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: DefaultBaseURL,
		token:   token,
		limiter: rate.NewLimiter(rate.Every(time.Minute), 2),
		logger:  logger,
	}
}

// SetBaseURL overrides the API base URL; used in tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// FetchRecent returns up to max recent tweets authored by username, newest
// first. It blocks on the rate limiter before sending the request.
func (c *Client) FetchRecent(ctx context.Context, username string, max int) ([]Tweet, error) {
	if max <= 0 {
		max = DefaultMaxResults
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("query", "from:"+username)
	q.Set("max_results", strconv.Itoa(max))
	q.Set("tweet.fields", "created_at,author_id,public_metrics")
	q.Set("expansions", "author_id")
	q.Set("user.fields", "username,name")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/tweets/search/recent?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tweets: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("twitter API rate limited (429), reset at %s",
				rateLimitReset(resp.Header))
		}
		return nil, fmt.Errorf("twitter API error (status %d): %s", resp.StatusCode, body)
	}

	if remaining := resp.Header.Get("x-rate-limit-remaining"); remaining != "" {
		c.logger.Debug("twitter rate limit", "remaining", remaining)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	// Resolve usernames from the user expansion.
	usernames := make(map[string]string, len(parsed.Includes.Users))
	for _, u := range parsed.Includes.Users {
		usernames[u.ID] = u.Username
	}
	for i := range parsed.Data {
		parsed.Data[i].Username = usernames[parsed.Data[i].AuthorID]
	}

	return parsed.Data, nil
}

// rateLimitReset renders the x-rate-limit-reset header as a wall-clock time.
func rateLimitReset(h http.Header) string {
	epoch, err := strconv.ParseInt(h.Get("x-rate-limit-reset"), 10, 64)
	if err != nil {
		return "unknown"
	}
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}
