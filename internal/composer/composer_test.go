package composer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prosora-labs/prosora/internal/insight"
	"github.com/prosora-labs/prosora/internal/query"
	"github.com/prosora-labs/prosora/internal/source"
)

type scriptedLLM struct {
	err   error
	calls int
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(prompt, "Twitter") {
		return "1/2 First tweet.\n2/2 Second tweet.", nil
	}
	return "A polished draft body.", nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleInsights() []insight.Insight {
	evidence := []source.Source{
		{Name: "Stratechery", Credibility: 0.95, Relevance: 0.9, Domains: []string{"tech"}},
	}
	return []insight.Insight{
		{Title: "First", Content: "body one", Tier: insight.TierPremium, Credibility: 0.95, Evidence: evidence, Domains: []string{"tech"}},
		{Title: "Second", Content: "body two", Tier: insight.TierCrossDomain, Credibility: 0.8, Evidence: evidence, Domains: []string{"tech", "politics"}},
		{Title: "Third", Content: "body three", Tier: insight.TierCrossDomain, Credibility: 0.8, Evidence: evidence, Domains: []string{"product"}},
	}
}

func classificationFor(intent query.Intent) query.Classification {
	return query.Classification{Text: "test query", Intent: intent, Domains: []string{"tech"}}
}

func TestCompose_IntentRouting(t *testing.T) {
	tests := []struct {
		name         string
		intent       query.Intent
		wantLinkedIn int
		wantTwitter  int
		wantBlog     int
	}{
		{"linkedin only", query.IntentLinkedInPost, 2, 0, 0},
		{"twitter only", query.IntentTwitterThread, 0, 1, 0},
		{"blog only", query.IntentBlogOutline, 0, 0, 1},
		{"comprehensive gets everything", query.IntentComprehensive, 2, 1, 1},
		{"analysis gets everything", query.IntentAnalysis, 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&scriptedLLM{}, discard())
			b := c.Compose(context.Background(), classificationFor(tt.intent), sampleInsights())

			if got := len(b.LinkedInPosts); got != tt.wantLinkedIn {
				t.Errorf("linkedin posts = %d, want %d", got, tt.wantLinkedIn)
			}
			if got := len(b.TwitterThreads); got != tt.wantTwitter {
				t.Errorf("twitter threads = %d, want %d", got, tt.wantTwitter)
			}
			if got := len(b.BlogOutlines); got != tt.wantBlog {
				t.Errorf("blog outlines = %d, want %d", got, tt.wantBlog)
			}
		})
	}
}

func TestCompose_PieceShape(t *testing.T) {
	c := New(&scriptedLLM{}, discard())
	b := c.Compose(context.Background(), classificationFor(query.IntentComprehensive), sampleInsights())

	post := b.LinkedInPosts[0]
	if post.Platform != PlatformLinkedIn {
		t.Errorf("platform = %q", post.Platform)
	}
	if post.Status != StatusPending {
		t.Errorf("status = %q, want pending", post.Status)
	}
	if post.Body == "" {
		t.Error("post body is empty")
	}
	if len(post.Evidence) == 0 {
		t.Error("post carries no evidence names")
	}

	thread := b.TwitterThreads[0]
	if len(thread.Tweets) != 2 {
		t.Errorf("tweets = %d, want 2", len(thread.Tweets))
	}

	// The blog outline takes the best (lowest) tier among its inputs.
	if b.BlogOutlines[0].Tier != insight.TierPremium {
		t.Errorf("blog tier = %d, want 1", b.BlogOutlines[0].Tier)
	}
}

func TestCompose_LLMFailureSkipsPieces(t *testing.T) {
	c := New(&scriptedLLM{err: errors.New("upstream 500")}, discard())
	b := c.Compose(context.Background(), classificationFor(query.IntentComprehensive), sampleInsights())

	if len(b.LinkedInPosts)+len(b.TwitterThreads)+len(b.BlogOutlines) != 0 {
		t.Errorf("expected empty bundle on LLM failure, got %d pieces", len(b.Pieces()))
	}
	// The summary and evidence report are computed locally, not via the LLM.
	if b.Summary.Total != 3 {
		t.Errorf("summary total = %d, want 3", b.Summary.Total)
	}
	if b.Evidence.TotalSources != 1 {
		t.Errorf("evidence sources = %d, want 1", b.Evidence.TotalSources)
	}
}

func TestCompose_NoInsights(t *testing.T) {
	llm := &scriptedLLM{}
	c := New(llm, discard())
	b := c.Compose(context.Background(), classificationFor(query.IntentComprehensive), nil)

	if len(b.Pieces()) != 0 {
		t.Errorf("expected no pieces without insights, got %d", len(b.Pieces()))
	}
	if llm.calls != 0 {
		t.Errorf("llm calls = %d, want 0", llm.calls)
	}
}

func TestCompose_Metadata(t *testing.T) {
	c := New(&scriptedLLM{}, discard())
	b := c.Compose(context.Background(), classificationFor(query.IntentLinkedInPost), sampleInsights())

	if b.Metadata.Query != "test query" {
		t.Errorf("metadata query = %q", b.Metadata.Query)
	}
	if b.Metadata.TotalInsights != 3 {
		t.Errorf("metadata total insights = %d", b.Metadata.TotalInsights)
	}
	if b.Metadata.GeneratedAt.IsZero() {
		t.Error("metadata missing generation time")
	}
}
