package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/insight"
	"github.com/prosora-labs/prosora/internal/query"
)

// Run records one pipeline execution.
type Run struct {
	ID             uuid.UUID
	Query          string
	Intent         string
	Domains        []string
	Complexity     string
	EvidenceLevel  string
	CompositeIndex float64
	CreatedAt      time.Time
}

// WriteRun persists a run record and its insights in one transaction.
func (s *Store) WriteRun(ctx context.Context, run Run, insights []insight.Insight) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO runs (id, query, intent, domains, complexity, evidence_level, composite_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		run.ID, run.Query, run.Intent, run.Domains, run.Complexity, run.EvidenceLevel, run.CompositeIndex,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, in := range insights {
		_, err = tx.Exec(ctx, `
			INSERT INTO insights (id, run_id, title, content, hook, tier, credibility, domains, frameworks, evidence, contrarian_angle, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())`,
			in.ID, run.ID, in.Title, in.Content, in.Hook, in.Tier, in.Credibility,
			in.Domains, in.Frameworks, in.EvidenceNames(), in.ContrarianAngle,
		)
		if err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// NewRun builds a run record from a classification and index.
func NewRun(cls query.Classification, compositeIndex float64) Run {
	return Run{
		ID:             uuid.New(),
		Query:          cls.Text,
		Intent:         string(cls.Intent),
		Domains:        cls.Domains,
		Complexity:     string(cls.Complexity),
		EvidenceLevel:  string(cls.EvidenceLevel),
		CompositeIndex: compositeIndex,
		CreatedAt:      time.Now().UTC(),
	}
}
