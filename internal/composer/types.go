package composer

import (
	"time"

	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/insight"
)

// Platform tags for generated pieces.
const (
	PlatformLinkedIn = "linkedin"
	PlatformTwitter  = "twitter"
	PlatformBlog     = "blog"
)

// Review states for the approvals ledger.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Piece is one generated artifact awaiting review. Body holds the post
// or outline text; Tweets is populated for Twitter threads instead.
type Piece struct {
	ID          uuid.UUID `json:"id"`
	Platform    string    `json:"platform"`
	Body        string    `json:"body,omitempty"`
	Tweets      []string  `json:"tweets,omitempty"`
	Tier        int       `json:"tier"`
	Credibility float64   `json:"credibility"`
	Evidence    []string  `json:"evidence"`
	Status      string    `json:"status"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Bundle is the full output of one pipeline run.
type Bundle struct {
	LinkedInPosts  []Piece                `json:"linkedin_posts"`
	TwitterThreads []Piece                `json:"twitter_threads"`
	BlogOutlines   []Piece                `json:"blog_outlines"`
	Summary        insight.Summary        `json:"insights_summary"`
	Evidence       insight.EvidenceReport `json:"evidence_report"`
	Metadata       Metadata               `json:"generation_metadata"`
}

// Metadata records how a bundle was produced.
type Metadata struct {
	Query              string    `json:"query"`
	TotalInsights      int       `json:"total_insights"`
	EvidenceSources    int       `json:"evidence_sources"`
	AverageCredibility float64   `json:"credibility_score"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// Pieces returns every piece in the bundle across platforms.
func (b Bundle) Pieces() []Piece {
	var all []Piece
	all = append(all, b.LinkedInPosts...)
	all = append(all, b.TwitterThreads...)
	all = append(all, b.BlogOutlines...)
	return all
}
