package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prosora-labs/prosora/internal/source"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item>
      <title>First article</title>
      <link>https://example.com/a</link>
      <description><![CDATA[<p>Body <b>one</b></p>]]></description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
    </item>
    <item>
      <title>Second article</title>
      <link>https://example.com/b</link>
      <description>Body two</description>
    </item>
  </channel>
</rss>`

const sampleAtom = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>Atom entry</title>
    <link rel="alternate" href="https://example.com/atom-1"/>
    <summary>Atom body</summary>
    <updated>2024-03-01T10:00:00Z</updated>
  </entry>
</feed>`

type mapSeen struct {
	seen map[string]bool
	err  error
}

func (m mapSeen) SeenHashes(_ context.Context, hashes []string) (map[string]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]bool{}
	for _, h := range hashes {
		if m.seen[h] {
			out[h] = true
		}
	}
	return out, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseFeed_RSS(t *testing.T) {
	entries, err := parseFeed([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("parseFeed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Title != "First article" || entries[0].Link != "https://example.com/a" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[0].Published.IsZero() {
		t.Error("pubDate not parsed")
	}
	if !entries[1].Published.IsZero() {
		t.Error("missing pubDate should yield zero time")
	}
}

func TestParseFeed_Atom(t *testing.T) {
	entries, err := parseFeed([]byte(sampleAtom))
	if err != nil {
		t.Fatalf("parseFeed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Link != "https://example.com/atom-1" {
		t.Errorf("link = %q", entries[0].Link)
	}
	if entries[0].Body != "Atom body" {
		t.Errorf("body = %q", entries[0].Body)
	}
}

func TestParseFeed_Garbage(t *testing.T) {
	if _, err := parseFeed([]byte("not xml at all")); err == nil {
		t.Error("expected error for non-feed payload")
	}
}

func TestContentHash_Stable(t *testing.T) {
	a := ContentHash("Title", "https://example.com")
	b := ContentHash("Title", "https://example.com")
	if a != b {
		t.Error("hash not deterministic")
	}
	if a == ContentHash("Other", "https://example.com") {
		t.Error("different titles should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestCapRunes_MultibyteBoundary(t *testing.T) {
	long := strings.Repeat("é", maxBodyChars+20)
	got := capRunes(long, maxBodyChars)
	if !utf8.ValidString(got) {
		t.Error("capped body contains invalid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != maxBodyChars {
		t.Errorf("capped body = %d runes, want %d", n, maxBodyChars)
	}
	if got := capRunes("short", maxBodyChars); got != "short" {
		t.Errorf("under-cap body altered: %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p>Hello <b>world</b></p>")
	if got != "Hello world" {
		t.Errorf("stripHTML = %q", got)
	}
}

func TestFetchAll_CopiesSourceFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := New(nil, discard())
	src := source.Source{
		Name:        "Example",
		URL:         srv.URL,
		Credibility: 0.9,
		Relevance:   0.8,
		Domains:     []string{"tech"},
	}

	items := f.FetchAll(context.Background(), []source.Source{src})
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	item := items[0]
	if item.SourceName != "Example" || item.Credibility != 0.9 || item.Relevance != 0.8 {
		t.Errorf("source fields not copied: %+v", item)
	}
	if strings.Contains(item.Content, "<") {
		t.Errorf("content not stripped of HTML: %q", item.Content)
	}
	if item.Hash == "" {
		t.Error("item missing content hash")
	}
	if item.FetchedAt.IsZero() {
		t.Error("item missing fetch time")
	}
}

func TestFetchAll_SkipsFailingSource(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := New(nil, discard())
	items := f.FetchAll(context.Background(), []source.Source{
		{Name: "Bad", URL: bad.URL},
		{Name: "NoURL"},
		{Name: "Good", URL: good.URL},
	})
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 from the good source only", len(items))
	}
	for _, item := range items {
		if item.SourceName != "Good" {
			t.Errorf("unexpected item from %q", item.SourceName)
		}
	}
}

func TestFetchAll_DropsSeenItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	seenHash := ContentHash("First article", "https://example.com/a")
	f := New(mapSeen{seen: map[string]bool{seenHash: true}}, discard())

	items := f.FetchAll(context.Background(), []source.Source{{Name: "Example", URL: srv.URL}})
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 after dedup", len(items))
	}
	if items[0].Title != "Second article" {
		t.Errorf("surviving item = %q", items[0].Title)
	}
}

func TestFetchAll_DedupFailureKeepsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := New(mapSeen{err: errors.New("db down")}, discard())
	items := f.FetchAll(context.Background(), []source.Source{{Name: "Example", URL: srv.URL}})
	if len(items) != 2 {
		t.Fatalf("items = %d, want all 2 when the dedup lookup fails", len(items))
	}
}
