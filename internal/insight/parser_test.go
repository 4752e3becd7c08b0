package insight

import "testing"

func TestParseItems_Numbered(t *testing.T) {
	reply := `Here are the insights:

1. AI regulation reshapes fintech
Domains: tech, politics
Insight: Compliance is becoming a product surface.
Content Hook: Your compliance team is your new growth team.

2. Open models change procurement
Domains: tech
Insight: Buyers now evaluate weights, not vendors.
`
	items := ParseItems(reply, insightLabels)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Heading != "AI regulation reshapes fintech" {
		t.Errorf("heading = %q", items[0].Heading)
	}
	if got := items[0].Field("Domains"); got != "tech, politics" {
		t.Errorf("Domains = %q", got)
	}
	if got := items[0].Field("Content Hook"); got != "Your compliance team is your new growth team." {
		t.Errorf("Content Hook = %q", got)
	}
	if got := items[1].Field("Insight"); got != "Buyers now evaluate weights, not vendors." {
		t.Errorf("Insight = %q", got)
	}
}

func TestParseItems_BoldMarkers(t *testing.T) {
	reply := `**The API economy inverts**
Insight: Platforms now pay developers.
**Confidence**: High
`
	items := ParseItems(reply, insightLabels)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Heading != "The API economy inverts" {
		t.Errorf("heading = %q", items[0].Heading)
	}
	if got := items[0].Field("Confidence"); got != "High" {
		t.Errorf("Confidence = %q", got)
	}
}

func TestParseItems_UnknownLabelsSkipped(t *testing.T) {
	reply := `1. Title here
Insight: the point
Secret Sauce: should be ignored
Vibe: also ignored
`
	items := ParseItems(reply, insightLabels)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if _, ok := items[0].Fields["Secret Sauce"]; ok {
		t.Error("unknown label was captured")
	}
	if got := items[0].Field("Insight"); got != "the point" {
		t.Errorf("Insight = %q", got)
	}
}

func TestParseItems_NoMarkers(t *testing.T) {
	// Absence of structure is a valid no-results outcome, never a panic.
	tests := []struct {
		name  string
		reply string
	}{
		{"empty", ""},
		{"prose", "I could not find anything relevant to this query."},
		{"whitespace", "   \n\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if items := ParseItems(tt.reply, insightLabels); len(items) != 0 {
				t.Errorf("expected no items, got %d", len(items))
			}
		})
	}
}

func TestParseItems_DashFields(t *testing.T) {
	reply := `1. Prediction time
- Confidence: Medium
- Supporting Evidence: prior cycles
`
	items := ParseItems(reply, insightLabels)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if got := items[0].Field("Confidence"); got != "Medium" {
		t.Errorf("Confidence = %q", got)
	}
	if got := items[0].Field("Supporting Evidence"); got != "prior cycles" {
		t.Errorf("Supporting Evidence = %q", got)
	}
}

func TestParsedItem_FieldFallback(t *testing.T) {
	p := ParsedItem{Fields: map[string]string{"Supporting Evidence": "data"}}
	if got := p.Field("Evidence", "Supporting Evidence"); got != "data" {
		t.Errorf("Field fallback = %q", got)
	}
	if got := p.Field("Missing"); got != "" {
		t.Errorf("missing field = %q, want empty", got)
	}
}
