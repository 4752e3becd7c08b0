package source

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
premium_sources:
  - name: Stratechery
    url: https://stratechery.com/feed/
    type: newsletter
    credibility: 0.95
    relevance: 0.9
    domains: [tech, product]
standard_sources:
  - name: TechCrunch
    url: https://techcrunch.com/feed/
    type: blog
    credibility: 1.4
    relevance: 0.7
    domains: [tech]
experimental_sources:
  - name: Indie Notes
    url: https://example.org/rss
    type: blog
    credibility: 0.4
    relevance: 0.6
    domains: [finance]
    override_tier: standard
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	r, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 sources, got %d", r.Len())
	}

	byName := map[string]Source{}
	for _, s := range r.All() {
		byName[s.Name] = s
	}

	// Out-of-range credibility is clamped at load.
	if byName["TechCrunch"].Credibility != 1.0 {
		t.Errorf("credibility = %f, want clamped 1.0", byName["TechCrunch"].Credibility)
	}
	// Override survives loading.
	if got := byName["Indie Notes"].Tier(); got != TierStandard {
		t.Errorf("override tier = %s, want standard", got)
	}
	if got := byName["Stratechery"].Tier(); got != TierPremium {
		t.Errorf("tier = %s, want premium", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{"missing file", "", true},
		{"malformed yaml", "premium_sources: [unclosed", false},
		{"no sources", "premium_sources: []\n", false},
		{"unnamed source", "premium_sources:\n  - url: https://x.test\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if !tt.missing {
				path = writeTemp(t, tt.content)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
