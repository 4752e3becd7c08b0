package source

// Tier is a source quality band derived from credibility.
type Tier string

const (
	TierPremium      Tier = "premium"
	TierStandard     Tier = "standard"
	TierExperimental Tier = "experimental"
)

// Source is a curated content origin. Credibility and relevance are
// clamped to [0,1] at load time; Tier() is the only way a quality band
// is assigned unless OverrideTier is set explicitly.
type Source struct {
	Name        string   `yaml:"name" json:"name"`
	URL         string   `yaml:"url" json:"url"`
	Kind        string   `yaml:"type" json:"type"` // newsletter | youtube | blog | social | email
	Credibility float64  `yaml:"credibility" json:"credibility"`
	Relevance   float64  `yaml:"relevance" json:"relevance"`
	Domains     []string `yaml:"domains" json:"domains"`
	Frequency   string   `yaml:"frequency,omitempty" json:"frequency,omitempty"`

	// OverrideTier pins a source into a band regardless of measured
	// credibility (personal trust override). Empty means derived.
	OverrideTier Tier `yaml:"override_tier,omitempty" json:"override_tier,omitempty"`
}

// DeriveTier maps credibility to a quality band. Boundaries are inclusive:
// 0.8 is premium, 0.6 is standard.
func DeriveTier(credibility float64) Tier {
	switch {
	case credibility >= 0.8:
		return TierPremium
	case credibility >= 0.6:
		return TierStandard
	default:
		return TierExperimental
	}
}

// Tier returns the source's quality band, honouring an explicit override.
func (s Source) Tier() Tier {
	if s.OverrideTier != "" {
		return s.OverrideTier
	}
	return DeriveTier(s.Credibility)
}

// HasDomain reports whether the source is tagged with the given domain.
func (s Source) HasDomain(domain string) bool {
	for _, d := range s.Domains {
		if d == domain {
			return true
		}
	}
	return false
}

// IntersectsDomains reports whether the source shares at least one domain
// with the given set.
func (s Source) IntersectsDomains(domains []string) bool {
	for _, d := range domains {
		if s.HasDomain(d) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
