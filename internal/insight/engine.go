package insight

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/llm"
	"github.com/prosora-labs/prosora/internal/query"
	"github.com/prosora-labs/prosora/internal/source"
)

const (
	maxTier1Sources  = 3
	maxTier1Insights = 3
	maxTier2Insights = 2
	maxTier3Insights = 2

	// Contrarian takes carry deliberately discounted credibility.
	contrarianDiscount = 0.8
)

// Engine turns a classified query plus ranked sources into tiered
// insights. Each tier is one best-effort LLM call; a failed call yields
// an empty tier, never an aborted run.
type Engine struct {
	llm    llm.Client
	logger *slog.Logger
}

func NewEngine(client llm.Client, logger *slog.Logger) *Engine {
	return &Engine{llm: client, logger: logger}
}

// Generate produces insights for the query. Tier 1 always runs; tier 2
// runs for cross-domain and contrarian queries; tier 3 only for
// contrarian queries. Framework labels are applied before returning.
func (e *Engine) Generate(ctx context.Context, cls query.Classification, sources []source.Source, items []source.ContentItem) []Insight {
	var insights []Insight

	insights = append(insights, e.tier1(ctx, cls, sources, items)...)

	if cls.Complexity == query.ComplexityCrossDomain || cls.Complexity == query.ComplexityContrarian {
		insights = append(insights, e.crossDomain(ctx, cls, sources, items)...)
	}
	if cls.Complexity == query.ComplexityContrarian {
		insights = append(insights, e.contrarian(ctx, cls, sources, items)...)
	}

	applyFrameworks(insights)

	e.logger.Info("insight generation complete",
		"query", cls.Text,
		"total", len(insights),
	)
	return insights
}

// tier1 builds premium insights from the highest-credibility sources.
func (e *Engine) tier1(ctx context.Context, cls query.Classification, sources []source.Source, items []source.ContentItem) []Insight {
	var premium []source.Source
	for _, s := range sources {
		if s.Tier() == source.TierPremium {
			premium = append(premium, s)
		}
	}
	if len(premium) > maxTier1Sources {
		premium = premium[:maxTier1Sources]
	}
	if len(premium) == 0 {
		return nil
	}

	parsed := e.generate(ctx, TierPremium, cls.Text, premium, items)
	return e.build(parsed, TierPremium, premium, maxTier1Insights, avgCredibility(premium))
}

// crossDomain connects sources from different matched domains.
func (e *Engine) crossDomain(ctx context.Context, cls query.Classification, sources []source.Source, items []source.ContentItem) []Insight {
	// One representative source per matched query domain. A source that
	// covers several domains counts once, so the >= 2 gate below really
	// means two distinct perspectives.
	var picked []source.Source
	used := map[string]bool{}
	for _, d := range cls.Domains {
		for _, s := range sources {
			if s.HasDomain(d) && !used[s.Name] {
				picked = append(picked, s)
				used[s.Name] = true
				break
			}
		}
	}
	if len(picked) < 2 {
		return nil
	}

	parsed := e.generate(ctx, TierCrossDomain, cls.Text, picked, items)
	return e.build(parsed, TierCrossDomain, picked, maxTier2Insights, avgCredibility(picked))
}

// contrarian pulls alternatives from the experimental pool.
func (e *Engine) contrarian(ctx context.Context, cls query.Classification, sources []source.Source, items []source.ContentItem) []Insight {
	var experimental []source.Source
	for _, s := range sources {
		if s.Tier() == source.TierExperimental {
			experimental = append(experimental, s)
		}
	}
	if len(experimental) == 0 {
		return nil
	}

	parsed := e.generate(ctx, TierContrarian, cls.Text, experimental, items)
	insights := e.build(parsed, TierContrarian, experimental, maxTier3Insights, avgCredibility(experimental)*contrarianDiscount)
	for i := range insights {
		insights[i].ContrarianAngle = "Challenges conventional wisdom about " + cls.Text
	}
	return insights
}

// generate makes the single LLM attempt for a tier and parses the reply.
func (e *Engine) generate(ctx context.Context, tier int, queryText string, picked []source.Source, items []source.ContentItem) []ParsedItem {
	snippets := snippetsFor(picked, items)
	reply, err := e.llm.Generate(ctx, tierPrompt(tier, queryText, snippets))
	if err != nil {
		e.logger.Warn("insight generation failed, continuing with empty tier",
			"tier", tier,
			"error", err,
		)
		return nil
	}
	return ParseItems(reply, insightLabels)
}

// snippetsFor prefers fetched content from the picked sources; when none
// exists it falls back to source descriptors.
func snippetsFor(picked []source.Source, items []source.ContentItem) string {
	names := map[string]bool{}
	for _, s := range picked {
		names[s.Name] = true
	}
	var matched []source.ContentItem
	for _, item := range items {
		if names[item.SourceName] {
			matched = append(matched, item)
		}
	}
	if len(matched) == 0 {
		return formatSourceSnippets(picked)
	}
	return formatContentSnippets(matched)
}

// build converts parsed items into insights carrying the evidence that
// produced them.
func (e *Engine) build(parsed []ParsedItem, tier int, evidence []source.Source, max int, credibility float64) []Insight {
	if len(parsed) > max {
		parsed = parsed[:max]
	}

	var insights []Insight
	for _, p := range parsed {
		if p.Heading == "" {
			continue
		}
		domains := splitList(p.Field("Domains"))
		if len(domains) == 0 {
			domains = domainsOf(evidence)
		}
		insights = append(insights, Insight{
			ID:          uuid.New(),
			Title:       p.Heading,
			Content:     p.Field("Insight"),
			Hook:        p.Field("Content Hook"),
			Tier:        tier,
			Credibility: credibility,
			Evidence:    evidence,
			Domains:     domains,
		})
	}
	return insights
}

// applyFrameworks attaches the personal methodology labels implied by an
// insight's domain combination.
func applyFrameworks(insights []Insight) {
	for i := range insights {
		has := map[string]bool{}
		for _, d := range insights[i].Domains {
			has[d] = true
		}
		if has["tech"] && has["product"] {
			insights[i].Frameworks = append(insights[i].Frameworks, "IIT-MBA Technical Leadership Framework")
		}
		if has["politics"] && has["product"] {
			insights[i].Frameworks = append(insights[i].Frameworks, "Political Product Management Framework")
		}
		if has["finance"] && has["politics"] {
			insights[i].Frameworks = append(insights[i].Frameworks, "Fintech Regulatory Navigation Framework")
		}
		if insights[i].Tier == TierContrarian {
			insights[i].Frameworks = append(insights[i].Frameworks, "Contrarian Analysis Framework")
		}
	}
}

func avgCredibility(sources []source.Source) float64 {
	if len(sources) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range sources {
		sum += s.Credibility
	}
	return sum / float64(len(sources))
}

func domainsOf(sources []source.Source) []string {
	seen := map[string]bool{}
	var domains []string
	for _, s := range sources {
		for _, d := range s.Domains {
			if !seen[d] {
				seen[d] = true
				domains = append(domains, d)
			}
		}
	}
	return domains
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}
