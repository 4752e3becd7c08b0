package source

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultRankCap bounds how many sources a single query can feed into
// prompt construction.
const DefaultRankCap = 20

// Registry holds the curated source list, loaded once at startup and
// never mutated afterwards.
type Registry struct {
	sources []Source
}

// registryFile mirrors the on-disk YAML layout: sources grouped by the
// band the curator filed them under. Band membership is advisory; the
// effective tier always comes from Source.Tier().
type registryFile struct {
	Premium      []Source `yaml:"premium_sources"`
	Standard     []Source `yaml:"standard_sources"`
	Experimental []Source `yaml:"experimental_sources"`
}

// Load reads the source registry from a YAML file. Credibility and
// relevance are clamped to [0,1]. A missing or malformed file is a
// startup error, there is no degraded mode without sources.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	var sources []Source
	for _, group := range [][]Source{file.Premium, file.Standard, file.Experimental} {
		sources = append(sources, group...)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("sources file %s contains no sources", path)
	}

	for i := range sources {
		if sources[i].Name == "" {
			return nil, fmt.Errorf("source %d in %s has no name", i, path)
		}
		sources[i].Credibility = clamp01(sources[i].Credibility)
		sources[i].Relevance = clamp01(sources[i].Relevance)
	}

	return &Registry{sources: sources}, nil
}

// NewRegistry builds a registry from an in-memory list, clamping scores.
// Used by tests and by callers that assemble sources programmatically.
func NewRegistry(sources []Source) *Registry {
	cloned := make([]Source, len(sources))
	copy(cloned, sources)
	for i := range cloned {
		cloned[i].Credibility = clamp01(cloned[i].Credibility)
		cloned[i].Relevance = clamp01(cloned[i].Relevance)
	}
	return &Registry{sources: cloned}
}

// All returns every registered source.
func (r *Registry) All() []Source {
	return r.sources
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.sources)
}

// FilterRank selects sources whose domains intersect the query domains
// (all sources when domains is empty or contains "general"), orders them
// descending by (credibility, relevance), and truncates to cap. The sort
// is stable so ties keep registry order, which keeps prompt construction
// reproducible.
func (r *Registry) FilterRank(domains []string, cap int) []Source {
	if cap <= 0 {
		cap = DefaultRankCap
	}

	general := len(domains) == 0
	for _, d := range domains {
		if d == "general" {
			general = true
		}
	}

	var selected []Source
	for _, s := range r.sources {
		if general || s.IntersectsDomains(domains) {
			selected = append(selected, s)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Credibility != selected[j].Credibility {
			return selected[i].Credibility > selected[j].Credibility
		}
		return selected[i].Relevance > selected[j].Relevance
	})

	if len(selected) > cap {
		selected = selected[:cap]
	}
	return selected
}
