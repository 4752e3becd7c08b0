package insight

import (
	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/source"
)

// Tier labels where an insight came from, not how good it is:
// 1 = premium sources, 2 = cross-domain connection, 3 = contrarian.
const (
	TierPremium     = 1
	TierCrossDomain = 2
	TierContrarian  = 3
)

// Insight is one LLM-derived observation with its evidence trail.
type Insight struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Hook            string          `json:"hook,omitempty"`
	Tier            int             `json:"tier"`
	Credibility     float64         `json:"credibility"`
	Evidence        []source.Source `json:"evidence"`
	Domains         []string        `json:"domains"`
	Frameworks      []string        `json:"frameworks"`
	ContrarianAngle string          `json:"contrarian_angle,omitempty"`
}

// EvidenceNames returns the names of the contributing sources.
func (i Insight) EvidenceNames() []string {
	names := make([]string, len(i.Evidence))
	for j, s := range i.Evidence {
		names[j] = s.Name
	}
	return names
}

// Summary aggregates one run's insights.
type Summary struct {
	Total              int      `json:"total_insights"`
	Tier1Count         int      `json:"tier_1_count"`
	Tier2Count         int      `json:"tier_2_count"`
	Tier3Count         int      `json:"tier_3_count"`
	AverageCredibility float64  `json:"average_credibility"`
	DomainsCovered     []string `json:"domains_covered"`
	FrameworksApplied  []string `json:"frameworks_applied"`
}

// EvidenceReport breaks down the unique sources behind a run's insights.
type EvidenceReport struct {
	TotalSources       int             `json:"total_sources"`
	PremiumSources     int             `json:"premium_sources"`
	StandardSources    int             `json:"standard_sources"`
	ExperimentalCount  int             `json:"experimental_sources"`
	AverageCredibility float64         `json:"average_credibility"`
	Sources            []source.Source `json:"sources"`
}

// Summarize builds the per-run summary over a set of insights.
func Summarize(insights []Insight) Summary {
	s := Summary{Total: len(insights)}
	if len(insights) == 0 {
		return s
	}

	domains := map[string]bool{}
	frameworks := map[string]bool{}
	credSum := 0.0
	for _, in := range insights {
		switch in.Tier {
		case TierPremium:
			s.Tier1Count++
		case TierCrossDomain:
			s.Tier2Count++
		case TierContrarian:
			s.Tier3Count++
		}
		credSum += in.Credibility
		for _, d := range in.Domains {
			if !domains[d] {
				domains[d] = true
				s.DomainsCovered = append(s.DomainsCovered, d)
			}
		}
		for _, f := range in.Frameworks {
			if !frameworks[f] {
				frameworks[f] = true
				s.FrameworksApplied = append(s.FrameworksApplied, f)
			}
		}
	}
	s.AverageCredibility = credSum / float64(len(insights))
	return s
}

// Report builds the evidence report over a set of insights, deduplicating
// sources by name.
func Report(insights []Insight) EvidenceReport {
	seen := map[string]bool{}
	var report EvidenceReport
	credSum := 0.0
	for _, in := range insights {
		for _, src := range in.Evidence {
			if seen[src.Name] {
				continue
			}
			seen[src.Name] = true
			report.Sources = append(report.Sources, src)
			credSum += src.Credibility
			switch src.Tier() {
			case source.TierPremium:
				report.PremiumSources++
			case source.TierStandard:
				report.StandardSources++
			default:
				report.ExperimentalCount++
			}
		}
	}
	report.TotalSources = len(report.Sources)
	if report.TotalSources > 0 {
		report.AverageCredibility = credSum / float64(report.TotalSources)
	}
	return report
}
