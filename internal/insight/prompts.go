package insight

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/prosora-labs/prosora/internal/source"
)

// snippetCap bounds each source excerpt so total prompt size stays
// proportional to the source cap, not to article length.
const snippetCap = 800

const persona = `You are Prosora, a cross-domain analyst writing for a technical product leader with an engineering degree and an MBA. You connect technology, politics, product strategy, and finance, and you back every claim with the evidence provided.`

// Labels the parsers recognise in replies.
var insightLabels = []string{"Domains", "Insight", "Content Hook", "Supporting Evidence", "Confidence", "Discussion Starter"}

const tier1Template = `%s

Query: %s

Below are excerpts from high-credibility sources. Extract up to 3 distinct insights that answer the query.

Sources:
%s

Format each insight as:
1. [insight title]
Domains: [comma-separated domains]
Insight: [2-3 sentence analysis grounded in the sources]
Content Hook: [engaging angle for social media]
Confidence: [High/Medium/Low]`

const crossDomainTemplate = `%s

Query: %s

The excerpts below come from different expertise domains. Find non-obvious connections BETWEEN the domains, insights that only appear when you read them together.

Sources:
%s

Format each connection as:
1. [connection title]
Domains: [the two domains connected]
Insight: [what the intersection reveals]
Content Hook: [engaging angle for social media]`

const contrarianTemplate = `%s

Query: %s

The excerpts below come from experimental, lower-consensus sources. Identify defensible contrarian takes that challenge conventional wisdom on the query.

Sources:
%s

Format each take as:
1. [contrarian statement]
Insight: [why the conventional view may be wrong]
Supporting Evidence: [data or logic from the excerpts]
Discussion Starter: [question to open a debate]`

// tierPrompt selects the template for a tier. Template choice is a pure
// function of tier; the query and pre-formatted snippets are substituted in.
func tierPrompt(tier int, queryText, snippets string) string {
	var tmpl string
	switch tier {
	case TierCrossDomain:
		tmpl = crossDomainTemplate
	case TierContrarian:
		tmpl = contrarianTemplate
	default:
		tmpl = tier1Template
	}
	return fmt.Sprintf(tmpl, persona, queryText, snippets)
}

// formatSourceSnippets renders source descriptors with their credibility,
// so the model can weigh evidence the way the scorer does. Used when no
// fetched content is available for a source.
func formatSourceSnippets(sources []source.Source) string {
	var b strings.Builder
	for _, s := range sources {
		fmt.Fprintf(&b, "- %s (credibility %.2f, domains: %s)\n", s.Name, s.Credibility, strings.Join(s.Domains, ", "))
	}
	return b.String()
}

// formatContentSnippets renders fetched content excerpts, capped per item.
func formatContentSnippets(items []source.ContentItem) string {
	var b strings.Builder
	for _, item := range items {
		body := capRunes(item.Content, snippetCap)
		fmt.Fprintf(&b, "- %s [%s, credibility %.2f]: %s\n", item.Title, item.SourceName, item.Credibility, body)
	}
	return b.String()
}

// capRunes truncates at a rune boundary so a multibyte character is
// never split mid-sequence.
func capRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
