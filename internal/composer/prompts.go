package composer

import (
	"fmt"
	"strings"

	"github.com/prosora-labs/prosora/internal/insight"
)

const linkedinTemplate = `You write LinkedIn posts for a cross-domain product leader. Turn the insight below into one post.

Insight: %s
%s
Evidence: backed by %d sources, average credibility %.2f.

Requirements:
- Open with a hook, not a preamble
- 150-300 words, short paragraphs
- Close with 2-3 relevant hashtags
- Professional but direct tone

Return only the post text.`

const twitterTemplate = `You write Twitter threads for a cross-domain product leader. Turn the insight below into a thread of 5-7 tweets.

Insight: %s
%s

Requirements:
- Number tweets as "1/ ...", "2/ ..." and so on
- Every tweet must stand alone and be at most 280 characters
- First tweet is the hook, last tweet invites discussion

Return only the numbered tweets, one per line.`

const blogTemplate = `You outline blog posts for a cross-domain product leader. Build a structured outline answering the query from the insights below.

Query: %s

Insights:
%s

Requirements:
- Markdown headings for sections: introduction, one section per insight theme, evidence summary, conclusion
- Bullet the key points under each heading
- Note which evidence source supports each section

Return only the outline.`

func linkedinPrompt(in insight.Insight) string {
	return fmt.Sprintf(linkedinTemplate, in.Title, insightBody(in), len(in.Evidence), in.Credibility)
}

func twitterPrompt(in insight.Insight) string {
	return fmt.Sprintf(twitterTemplate, in.Title, insightBody(in))
}

func blogPrompt(queryText string, insights []insight.Insight) string {
	var b strings.Builder
	for _, in := range insights {
		fmt.Fprintf(&b, "- %s (tier %d, credibility %.2f): %s\n", in.Title, in.Tier, in.Credibility, in.Content)
	}
	return fmt.Sprintf(blogTemplate, queryText, b.String())
}

func insightBody(in insight.Insight) string {
	body := in.Content
	if in.Hook != "" {
		body += "\nHook: " + in.Hook
	}
	return body
}
