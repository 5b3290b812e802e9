package twitter

import "strings"

// Quality thresholds for ingestion.
const (
	// minTweetLength drops very short tweets, which are usually noise.
	minTweetLength = 50

	// minEngagementLikes is the like floor for tweets from non-official
	// authors; the official account is kept regardless of engagement.
	minEngagementLikes = 10
)

// Filter returns the tweets worth ingesting. Retweets and very short tweets
// are dropped; tweets from authors other than official need a minimum of
// engagement.
func Filter(tweets []Tweet, official string) []Tweet {
	kept := make([]Tweet, 0, len(tweets))
	for _, t := range tweets {
		if strings.HasPrefix(t.Text, "RT @") {
			continue
		}
		if len(t.Text) < minTweetLength {
			continue
		}
		if !strings.EqualFold(t.Username, official) && t.Metrics.Likes < minEngagementLikes {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
