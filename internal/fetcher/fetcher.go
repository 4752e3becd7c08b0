package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/prosora-labs/prosora/internal/source"
)

const (
	// maxBodyChars bounds stored content; prompts cap further downstream.
	maxBodyChars = 4000
	// maxEntriesPerSource bounds how much one feed can contribute to a run.
	maxEntriesPerSource = 5
)

// SeenFilter answers whether a content hash has been processed in a
// previous run. The store implements it; tests use a map.
type SeenFilter interface {
	SeenHashes(ctx context.Context, hashes []string) (map[string]bool, error)
}

// Fetcher pulls feed entries for registry sources and copies the
// source's scoring fields onto each item. Fetch failures skip the
// offending source and keep going.
type Fetcher struct {
	client *http.Client
	seen   SeenFilter
	logger *slog.Logger
}

func New(seen SeenFilter, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		seen:   seen,
		logger: logger,
	}
}

// FetchAll fetches every source's feed, deduplicates against previous
// runs by content hash, and returns the surviving items.
func (f *Fetcher) FetchAll(ctx context.Context, sources []source.Source) []source.ContentItem {
	var items []source.ContentItem
	for _, s := range sources {
		fetched, err := f.fetchSource(ctx, s)
		if err != nil {
			f.logger.Warn("source fetch failed, skipping", "source", s.Name, "error", err)
			continue
		}
		items = append(items, fetched...)
	}

	return f.dropSeen(ctx, items)
}

func (f *Fetcher) fetchSource(ctx context.Context, s source.Source) ([]source.ContentItem, error) {
	if s.URL == "" {
		return nil, fmt.Errorf("source has no url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "prosora/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	entries, err := parseFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(entries) > maxEntriesPerSource {
		entries = entries[:maxEntriesPerSource]
	}

	now := time.Now().UTC()
	items := make([]source.ContentItem, 0, len(entries))
	for _, entry := range entries {
		body := capRunes(stripHTML(entry.Body), maxBodyChars)
		items = append(items, source.ContentItem{
			Title:       strings.TrimSpace(entry.Title),
			Content:     body,
			URL:         entry.Link,
			SourceName:  s.Name,
			Credibility: s.Credibility,
			Relevance:   s.Relevance,
			Domains:     s.Domains,
			Kind:        s.Kind,
			Hash:        ContentHash(entry.Title, entry.Link),
			PublishedAt: entry.Published,
			FetchedAt:   now,
		})
	}
	return items, nil
}

// dropSeen removes items whose hash was processed in a previous run.
// A filter error degrades to keeping everything rather than losing a run.
func (f *Fetcher) dropSeen(ctx context.Context, items []source.ContentItem) []source.ContentItem {
	if f.seen == nil || len(items) == 0 {
		return items
	}
	hashes := make([]string, len(items))
	for i, item := range items {
		hashes[i] = item.Hash
	}
	seen, err := f.seen.SeenHashes(ctx, hashes)
	if err != nil {
		f.logger.Warn("dedup lookup failed, keeping all items", "error", err)
		return items
	}
	var fresh []source.ContentItem
	for _, item := range items {
		if !seen[item.Hash] {
			fresh = append(fresh, item)
		}
	}
	f.logger.Info("fetch dedup", "fetched", len(items), "fresh", len(fresh))
	return fresh
}

// ContentHash keys an item by title+url so re-fetching the same entry
// across runs is detectable.
func ContentHash(title, url string) string {
	sum := sha256.Sum256([]byte(title + "|" + url))
	return hex.EncodeToString(sum[:])
}

// capRunes truncates at a rune boundary so a multibyte character is
// never split mid-sequence.
func capRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// stripHTML reduces a feed body to plain text.
func stripHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(doc.Text())
}
