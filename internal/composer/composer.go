package composer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/insight"
	"github.com/prosora-labs/prosora/internal/llm"
	"github.com/prosora-labs/prosora/internal/query"
)

const (
	maxLinkedInPosts  = 2
	maxTwitterThreads = 1
)

// Composer turns insights into platform-ready drafts. Like the insight
// engine, every LLM call is one best-effort attempt: a failure logs and
// skips that piece.
type Composer struct {
	llm    llm.Client
	logger *slog.Logger
}

func New(client llm.Client, logger *slog.Logger) *Composer {
	return &Composer{llm: client, logger: logger}
}

// Compose generates the bundle the query's intent asks for. A
// comprehensive intent generates every platform.
func (c *Composer) Compose(ctx context.Context, cls query.Classification, insights []insight.Insight) Bundle {
	bundle := Bundle{
		Summary:  insight.Summarize(insights),
		Evidence: insight.Report(insights),
	}

	wantAll := cls.Intent == query.IntentComprehensive || cls.Intent == query.IntentAnalysis

	if wantAll || cls.Intent == query.IntentLinkedInPost {
		bundle.LinkedInPosts = c.linkedinPosts(ctx, insights)
	}
	if wantAll || cls.Intent == query.IntentTwitterThread {
		bundle.TwitterThreads = c.twitterThreads(ctx, insights)
	}
	if wantAll || cls.Intent == query.IntentBlogOutline {
		bundle.BlogOutlines = c.blogOutlines(ctx, cls.Text, insights)
	}

	bundle.Metadata = Metadata{
		Query:              cls.Text,
		TotalInsights:      len(insights),
		EvidenceSources:    bundle.Evidence.TotalSources,
		AverageCredibility: bundle.Summary.AverageCredibility,
		GeneratedAt:        time.Now().UTC(),
	}

	c.logger.Info("content composition complete",
		"query", cls.Text,
		"linkedin", len(bundle.LinkedInPosts),
		"twitter", len(bundle.TwitterThreads),
		"blog", len(bundle.BlogOutlines),
	)
	return bundle
}

func (c *Composer) linkedinPosts(ctx context.Context, insights []insight.Insight) []Piece {
	var posts []Piece
	for _, in := range insights {
		if len(posts) >= maxLinkedInPosts {
			break
		}
		reply, err := c.llm.Generate(ctx, linkedinPrompt(in))
		if err != nil {
			c.logger.Warn("linkedin generation failed, skipping piece", "insight", in.Title, "error", err)
			continue
		}
		body := strings.TrimSpace(reply)
		if body == "" {
			continue
		}
		posts = append(posts, c.piece(PlatformLinkedIn, in, body, nil))
	}
	return posts
}

func (c *Composer) twitterThreads(ctx context.Context, insights []insight.Insight) []Piece {
	var threads []Piece
	for _, in := range insights {
		if len(threads) >= maxTwitterThreads {
			break
		}
		reply, err := c.llm.Generate(ctx, twitterPrompt(in))
		if err != nil {
			c.logger.Warn("twitter generation failed, skipping piece", "insight", in.Title, "error", err)
			continue
		}
		tweets := ParseThread(reply)
		if len(tweets) == 0 {
			continue
		}
		threads = append(threads, c.piece(PlatformTwitter, in, "", tweets))
	}
	return threads
}

func (c *Composer) blogOutlines(ctx context.Context, queryText string, insights []insight.Insight) []Piece {
	if len(insights) == 0 {
		return nil
	}
	reply, err := c.llm.Generate(ctx, blogPrompt(queryText, insights))
	if err != nil {
		c.logger.Warn("blog outline generation failed, skipping piece", "error", err)
		return nil
	}
	body := strings.TrimSpace(reply)
	if body == "" {
		return nil
	}
	// The outline synthesizes every insight, so it carries the union of
	// evidence and the best (lowest) tier present.
	best := insights[0]
	names := map[string]bool{}
	var evidence []string
	for _, in := range insights {
		if in.Tier < best.Tier {
			best = in
		}
		for _, n := range in.EvidenceNames() {
			if !names[n] {
				names[n] = true
				evidence = append(evidence, n)
			}
		}
	}
	p := c.piece(PlatformBlog, best, body, nil)
	p.Evidence = evidence
	return []Piece{p}
}

func (c *Composer) piece(platform string, in insight.Insight, body string, tweets []string) Piece {
	return Piece{
		ID:          uuid.New(),
		Platform:    platform,
		Body:        body,
		Tweets:      tweets,
		Tier:        in.Tier,
		Credibility: in.Credibility,
		Evidence:    in.EvidenceNames(),
		Status:      StatusPending,
		GeneratedAt: time.Now().UTC(),
	}
}
