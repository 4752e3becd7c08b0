package insight

import (
	"regexp"
	"strings"
)

// The LLM replies in a loose human-readable layout: items begin at a
// top-level numbered marker ("1.", "2)") or a bold markdown header
// ("**Label**"), and fields inside an item are "Label: value" lines.
// The parser is total: unrecognized lines are skipped and a reply with
// no markers parses to an empty list, never an error.

var (
	numberedMarker = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.*)$`)
	boldMarker     = regexp.MustCompile(`^\s*\*\*(.+?)\*\*:?\s*(.*)$`)
	fieldLine      = regexp.MustCompile(`^\s*[-*]?\s*([A-Za-z][A-Za-z ]{1,30}):\s*(.+)$`)
)

// ParsedItem is one candidate record from a reply.
type ParsedItem struct {
	Heading string
	Fields  map[string]string
}

// Field returns a named field, trying each label in order.
func (p ParsedItem) Field(labels ...string) string {
	for _, l := range labels {
		if v, ok := p.Fields[l]; ok {
			return v
		}
	}
	return ""
}

// ParseItems splits a reply into items at top-level markers and collects
// recognized "Label: value" fields within each item.
func ParseItems(reply string, knownLabels []string) []ParsedItem {
	known := make(map[string]bool, len(knownLabels))
	for _, l := range knownLabels {
		known[strings.ToLower(l)] = true
	}

	var items []ParsedItem
	var current *ParsedItem

	for _, line := range strings.Split(reply, "\n") {
		if m := numberedMarker.FindStringSubmatch(line); m != nil {
			if current != nil {
				items = append(items, *current)
			}
			current = &ParsedItem{Heading: cleanHeading(m[2]), Fields: map[string]string{}}
			continue
		}
		if m := boldMarker.FindStringSubmatch(line); m != nil {
			label := strings.TrimSpace(m[1])
			rest := strings.TrimSpace(m[2])
			// A bold line that is a known label is a field of the current
			// item; any other bold line starts a new item.
			if current != nil && known[strings.ToLower(label)] {
				current.Fields[label] = rest
				continue
			}
			if current != nil {
				items = append(items, *current)
			}
			heading := label
			if rest != "" {
				heading = label + ": " + rest
			}
			current = &ParsedItem{Heading: cleanHeading(heading), Fields: map[string]string{}}
			continue
		}
		if current == nil {
			continue
		}
		if m := fieldLine.FindStringSubmatch(line); m != nil {
			label := strings.TrimSpace(m[1])
			if known[strings.ToLower(label)] {
				current.Fields[label] = strings.TrimSpace(m[2])
			}
			// Unknown labels are skipped, not errors.
		}
	}
	if current != nil {
		items = append(items, *current)
	}
	return items
}

func cleanHeading(h string) string {
	h = strings.TrimSpace(h)
	h = strings.Trim(h, "*")
	return strings.TrimSpace(h)
}
