package scoring

import (
	"fmt"
	"math"

	"github.com/prosora-labs/prosora/internal/source"
)

// weightEpsilon is the tolerance when checking that composite weights sum to 1.
const weightEpsilon = 1e-6

// DefaultWeights are the expertise-domain weights for the composite index.
var DefaultWeights = map[string]float64{
	"tech":     0.30,
	"politics": 0.20,
	"product":  0.25,
	"finance":  0.25,
}

// DomainScores computes per-domain scores in [0,100] from a list of
// content items. Each item contributes credibility x relevance, split
// evenly across its domain tags; domain sums are normalized against the
// total weight. An empty or all-zero input yields all-zero scores.
func DomainScores(items []source.ContentItem) map[string]float64 {
	sums := make(map[string]float64)
	total := 0.0

	for _, item := range items {
		weight := item.Credibility * item.Relevance
		total += weight
		if len(item.Domains) == 0 {
			continue
		}
		share := weight / float64(len(item.Domains))
		for _, d := range item.Domains {
			sums[d] += share
		}
	}

	scores := make(map[string]float64, len(sums))
	if total == 0 {
		for d := range sums {
			scores[d] = 0
		}
		return scores
	}

	for d, sum := range sums {
		scores[d] = clamp100(sum / total * 100)
	}
	return scores
}

// CompositeIndex blends per-domain scores with a weight map into a single
// scalar. Weights must sum to 1.0 within epsilon; anything else is a
// configuration error, not a silent rescale.
func CompositeIndex(domainScores, weights map[string]float64) (float64, error) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > weightEpsilon {
		return 0, fmt.Errorf("composite weights sum to %g, want 1.0", sum)
	}

	index := 0.0
	for d, w := range weights {
		index += domainScores[d] * w
	}
	return index, nil
}

// AverageCredibility returns the mean credibility across items, 0 for none.
func AverageCredibility(items []source.ContentItem) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, item := range items {
		sum += item.Credibility
	}
	return sum / float64(len(items))
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
