package twitter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category pairs a stable metadata key with a human-readable label.
type Category struct {
	Key   string
	Label string
}

// categoryRules maps content keywords to categories, checked in order.
var categoryRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"announcement", "announcing", "we're excited", "introducing"},
		Category{"pollinet_announcement", "Announcement"}},
	{[]string{"update", "updated", "updates", "changelog", "version"},
		Category{"pollinet_updates", "Update"}},
	{[]string{"news", "headline", "breaking", "report"},
		Category{"pollinet_news", "News"}},
	{[]string{"talk", "speaking", "presentation", "conference", "event", "webinar"},
		Category{"pollinet_talks", "Talk/Event"}},
	{[]string{"partnership", "collaboration", "integrated", "working with"},
		Category{"pollinet_partnerships", "Partnership"}},
	{[]string{"tutorial", "guide", "how to", "documentation", "docs"},
		Category{"pollinet_information", "Information/Guide"}},
}

// defaultCategory is used when no keyword rule matches.
var defaultCategory = Category{"pollinet_information", "Information"}

// Categorize picks a category for the tweet from its content.
func Categorize(t Tweet) Category {
	text := strings.ToLower(t.Text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return defaultCategory
}

// FormatContent renders the tweet as a readable knowledge-base document with
// a category header and a source/date/engagement footer. The footer gives
// the retriever and the model provenance context that raw tweet text lacks.
func FormatContent(t Tweet, c Category, official string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Pollinet %s:\n\n", c.Label)
	sb.WriteString(t.Text)
	sb.WriteString("\n\n---\n")
	fmt.Fprintf(&sb, "Source: @%s (Official Pollinet Account)\n", official)

	if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
		fmt.Fprintf(&sb, "Date: %s\n", ts.Format("January 2, 2006 at 3:04 PM UTC"))
	}

	var engagement []string
	if t.Metrics.Likes > 0 {
		engagement = append(engagement, fmt.Sprintf("%d likes", t.Metrics.Likes))
	}
	if t.Metrics.Retweets > 0 {
		engagement = append(engagement, fmt.Sprintf("%d retweets", t.Metrics.Retweets))
	}
	if len(engagement) > 0 {
		fmt.Fprintf(&sb, "Engagement: %s\n", strings.Join(engagement, ", "))
	}

	sb.WriteString("---\n")
	return sb.String()
}

// Metadata assembles the chunk metadata for an ingested tweet.
func Metadata(t Tweet, c Category, official string) map[string]string {
	author := t.Username
	if author == "" {
		author = official
	}

	md := map[string]string{
		"source":         "twitter",
		"category":       c.Key,
		"category_label": c.Label,
		"tweet_id":       t.ID,
		"author":         author,
	}

	if t.CreatedAt != "" {
		md["created_at"] = t.CreatedAt
		if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			md["date_formatted"] = ts.Format("January 2, 2006")
		}
	}
	if t.Metrics.Likes > 0 {
		md["likes"] = strconv.Itoa(t.Metrics.Likes)
	}
	if t.Metrics.Retweets > 0 {
		md["retweets"] = strconv.Itoa(t.Metrics.Retweets)
	}

	return md
}
