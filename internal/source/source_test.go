package source

import "testing"

func TestDeriveTier(t *testing.T) {
	tests := []struct {
		name        string
		credibility float64
		want        Tier
	}{
		{"high is premium", 0.95, TierPremium},
		{"premium boundary inclusive", 0.8, TierPremium},
		{"mid is standard", 0.7, TierStandard},
		{"standard boundary inclusive", 0.6, TierStandard},
		{"low is experimental", 0.3, TierExperimental},
		{"zero is experimental", 0.0, TierExperimental},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTier(tt.credibility); got != tt.want {
				t.Errorf("DeriveTier(%f) = %s, want %s", tt.credibility, got, tt.want)
			}
		})
	}
}

func TestSource_Tier_Override(t *testing.T) {
	s := Source{Credibility: 0.4, OverrideTier: TierStandard}
	if got := s.Tier(); got != TierStandard {
		t.Errorf("override tier = %s, want standard", got)
	}

	s.OverrideTier = ""
	if got := s.Tier(); got != TierExperimental {
		t.Errorf("derived tier = %s, want experimental", got)
	}
}

func TestNewRegistry_ClampsScores(t *testing.T) {
	r := NewRegistry([]Source{
		{Name: "over", Credibility: 1.5, Relevance: -0.2},
	})
	s := r.All()[0]
	if s.Credibility != 1.0 {
		t.Errorf("credibility = %f, want clamped 1.0", s.Credibility)
	}
	if s.Relevance != 0.0 {
		t.Errorf("relevance = %f, want clamped 0.0", s.Relevance)
	}
}

func TestFilterRank_DomainIntersection(t *testing.T) {
	r := NewRegistry([]Source{
		{Name: "tech-a", Credibility: 0.9, Relevance: 0.9, Domains: []string{"tech"}},
		{Name: "pol-a", Credibility: 0.7, Relevance: 0.7, Domains: []string{"politics"}},
		{Name: "fin-a", Credibility: 0.5, Relevance: 0.5, Domains: []string{"finance"}},
	})

	got := r.FilterRank([]string{"tech", "politics"}, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(got))
	}
	if got[0].Name != "tech-a" || got[1].Name != "pol-a" {
		t.Errorf("unexpected order: %s, %s", got[0].Name, got[1].Name)
	}
}

func TestFilterRank_GeneralMatchesAll(t *testing.T) {
	r := NewRegistry([]Source{
		{Name: "a", Credibility: 0.9, Relevance: 0.9, Domains: []string{"tech"}},
		{Name: "b", Credibility: 0.7, Relevance: 0.7, Domains: []string{"finance"}},
	})

	if got := r.FilterRank([]string{"general"}, 10); len(got) != 2 {
		t.Errorf("general should match all sources, got %d", len(got))
	}
	if got := r.FilterRank(nil, 10); len(got) != 2 {
		t.Errorf("empty domains should match all sources, got %d", len(got))
	}
}

func TestFilterRank_OrderAndTies(t *testing.T) {
	// Same credibility: relevance breaks the tie; same both: registry
	// order is preserved (stable sort).
	r := NewRegistry([]Source{
		{Name: "first", Credibility: 0.8, Relevance: 0.5, Domains: []string{"tech"}},
		{Name: "higher-rel", Credibility: 0.8, Relevance: 0.9, Domains: []string{"tech"}},
		{Name: "tied-with-first", Credibility: 0.8, Relevance: 0.5, Domains: []string{"tech"}},
		{Name: "top", Credibility: 0.95, Relevance: 0.1, Domains: []string{"tech"}},
	})

	got := r.FilterRank([]string{"tech"}, 10)
	wantOrder := []string{"top", "higher-rel", "first", "tied-with-first"}
	for i, want := range wantOrder {
		if got[i].Name != want {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, want)
		}
	}
}

func TestFilterRank_Cap(t *testing.T) {
	var sources []Source
	for i := 0; i < 30; i++ {
		sources = append(sources, Source{Name: "s", Credibility: 0.5, Relevance: 0.5, Domains: []string{"tech"}})
	}
	r := NewRegistry(sources)

	if got := r.FilterRank([]string{"tech"}, 20); len(got) != 20 {
		t.Errorf("expected cap at 20, got %d", len(got))
	}
	// Non-positive cap falls back to the default.
	if got := r.FilterRank([]string{"tech"}, 0); len(got) != DefaultRankCap {
		t.Errorf("expected default cap %d, got %d", DefaultRankCap, len(got))
	}
}

func TestContentItem_Tier(t *testing.T) {
	if got := (ContentItem{Credibility: 0.85}).Tier(); got != TierPremium {
		t.Errorf("item tier = %s, want premium", got)
	}
}
