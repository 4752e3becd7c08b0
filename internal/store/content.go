package store

import (
	"context"
	"fmt"

	"github.com/prosora-labs/prosora/internal/source"
)

// SeenHashes reports which of the given content hashes already exist.
// Satisfies fetcher.SeenFilter.
func (s *Store) SeenHashes(ctx context.Context, hashes []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(hashes))
	if len(hashes) == 0 {
		return seen, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT hash FROM content_items WHERE hash = ANY($1)`,
		hashes,
	)
	if err != nil {
		return nil, fmt.Errorf("query seen hashes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan hash: %w", err)
		}
		seen[h] = true
	}
	return seen, rows.Err()
}

// WriteContentItems persists fetched items, keyed by content hash so a
// re-fetched entry is a no-op rather than a duplicate.
func (s *Store) WriteContentItems(ctx context.Context, items []source.ContentItem) error {
	for _, item := range items {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO content_items (hash, title, content, url, source_name, credibility, relevance, domains, kind, published_at, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (hash) DO NOTHING`,
			item.Hash, item.Title, item.Content, item.URL, item.SourceName,
			item.Credibility, item.Relevance, item.Domains, item.Kind,
			nullableTime(item.PublishedAt), item.FetchedAt,
		)
		if err != nil {
			return fmt.Errorf("insert content item %s: %w", item.Hash, err)
		}
	}
	return nil
}
