package query

import "strings"

// Intent is the content type the user is asking for.
type Intent string

const (
	IntentLinkedInPost  Intent = "linkedin_post"
	IntentTwitterThread Intent = "twitter_thread"
	IntentBlogOutline   Intent = "blog_outline"
	IntentAnalysis      Intent = "analysis"
	IntentComprehensive Intent = "comprehensive"
)

// Complexity grades how much evidence a query needs.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityCrossDomain Complexity = "cross_domain"
	ComplexityContrarian  Complexity = "contrarian"
)

// EvidenceLevel selects which source pools feed the pipeline.
type EvidenceLevel string

const (
	EvidenceBasic         EvidenceLevel = "basic"
	EvidencePremium       EvidenceLevel = "premium"
	EvidenceComprehensive EvidenceLevel = "comprehensive"
)

// Classification is the structured reading of a free-text query.
type Classification struct {
	Text          string        `json:"text"`
	Intent        Intent        `json:"intent"`
	Domains       []string      `json:"domains"`
	Complexity    Complexity    `json:"complexity"`
	EvidenceLevel EvidenceLevel `json:"evidence_level"`
}

// Keywords drives classification. The tables are data, not code, so a
// deployment can extend the vocabulary without touching the classifier.
type Keywords struct {
	Intents    []IntentKeywords    `yaml:"intents"`
	Domains    map[string][]string `yaml:"domains"`
	Contrarian []string            `yaml:"contrarian"`
	CrossCut   []string            `yaml:"cross_cut"`
}

// IntentKeywords maps trigger words to an intent. Order matters: the
// first matching entry wins.
type IntentKeywords struct {
	Intent Intent   `yaml:"intent"`
	Words  []string `yaml:"words"`
}

// DefaultKeywords is the built-in vocabulary.
func DefaultKeywords() Keywords {
	return Keywords{
		Intents: []IntentKeywords{
			{Intent: IntentLinkedInPost, Words: []string{"linkedin", "post", "professional"}},
			{Intent: IntentTwitterThread, Words: []string{"twitter", "thread", "tweets"}},
			{Intent: IntentBlogOutline, Words: []string{"blog", "article", "outline"}},
			{Intent: IntentAnalysis, Words: []string{"analyze", "analysis", "insights"}},
		},
		Domains: map[string][]string{
			"tech":     {"ai", "tech", "software", "digital", "automation", "blockchain"},
			"politics": {"regulation", "policy", "government", "political", "law"},
			"product":  {"product", "strategy", "market", "user", "growth"},
			"finance":  {"fintech", "finance", "investment", "funding", "startup"},
		},
		Contrarian: []string{"contrarian", "alternative", "different", "opposite"},
		CrossCut:   []string{"cross", "intersection", "bridge"},
	}
}

// Classifier maps free-text queries to discrete facets by keyword
// matching. Deterministic and total: it always returns a value.
type Classifier struct {
	keywords Keywords
}

// NewClassifier builds a classifier; zero-value keyword tables fall back
// to the defaults.
func NewClassifier(kw Keywords) *Classifier {
	if len(kw.Intents) == 0 && len(kw.Domains) == 0 {
		kw = DefaultKeywords()
	}
	return &Classifier{keywords: kw}
}

// Classify derives intent, domains, complexity, and evidence level from
// the lower-cased query text.
func (c *Classifier) Classify(text string) Classification {
	lower := strings.ToLower(text)

	intent := IntentComprehensive
	for _, ik := range c.keywords.Intents {
		if containsAny(lower, ik.Words) {
			intent = ik.Intent
			break
		}
	}

	var domains []string
	// Fixed iteration order keeps output deterministic across runs.
	for _, d := range []string{"tech", "politics", "product", "finance"} {
		if containsAny(lower, c.keywords.Domains[d]) {
			domains = append(domains, d)
		}
	}
	if len(domains) == 0 {
		domains = []string{"general"}
	}

	complexity := ComplexitySimple
	switch {
	case containsAny(lower, c.keywords.Contrarian):
		complexity = ComplexityContrarian
	case len(domains) > 1 || containsAny(lower, c.keywords.CrossCut):
		complexity = ComplexityCrossDomain
	}

	return Classification{
		Text:          text,
		Intent:        intent,
		Domains:       domains,
		Complexity:    complexity,
		EvidenceLevel: evidenceFor(complexity),
	}
}

// evidenceFor is a lookup table from complexity to evidence level.
func evidenceFor(c Complexity) EvidenceLevel {
	switch c {
	case ComplexityContrarian:
		return EvidenceComprehensive
	case ComplexityCrossDomain:
		return EvidencePremium
	default:
		return EvidenceBasic
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
