package source

import "time"

// ContentItem is one fetched piece of content. Scoring fields are copied
// down from the source at fetch time, so later registry edits never
// retroactively change already-fetched items.
type ContentItem struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	Credibility float64   `json:"credibility"`
	Relevance   float64   `json:"relevance"`
	Domains     []string  `json:"domains"`
	Kind        string    `json:"type"`
	Hash        string    `json:"hash"`
	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Tier returns the quality band of the item's copied-down credibility.
func (c ContentItem) Tier() Tier {
	return DeriveTier(c.Credibility)
}
