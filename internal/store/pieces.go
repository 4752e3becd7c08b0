package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/composer"
)

// ErrNotPending marks a review attempt on a piece that has already been
// decided. Callers can map it to a conflict rather than a server error.
var ErrNotPending = errors.New("piece is not pending")

// WritePieces persists a bundle's pieces as pending review items in one
// transaction, so a mid-bundle failure never leaves a partial bundle.
func (s *Store) WritePieces(ctx context.Context, runID uuid.UUID, pieces []composer.Piece) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range pieces {
		_, err := tx.Exec(ctx, `
			INSERT INTO content_pieces (id, run_id, platform, body, tweets, tier, credibility, evidence, status, generated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.ID, runID, p.Platform, p.Body, p.Tweets, p.Tier, p.Credibility, p.Evidence, p.Status, p.GeneratedAt,
		)
		if err != nil {
			return fmt.Errorf("insert piece %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListPieces returns pieces with the given status; empty status means all.
func (s *Store) ListPieces(ctx context.Context, status string) ([]composer.Piece, error) {
	q := `
		SELECT id, platform, body, tweets, tier, credibility, evidence, status, generated_at
		FROM content_pieces`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY generated_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pieces: %w", err)
	}
	defer rows.Close()

	var pieces []composer.Piece
	for rows.Next() {
		var p composer.Piece
		if err := rows.Scan(&p.ID, &p.Platform, &p.Body, &p.Tweets, &p.Tier, &p.Credibility, &p.Evidence, &p.Status, &p.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan piece: %w", err)
		}
		pieces = append(pieces, p)
	}
	return pieces, rows.Err()
}

// SetPieceStatus moves a piece through the review ledger. Only pending
// pieces can transition, so a second reviewer's decision is not silently
// overwritten.
func (s *Store) SetPieceStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE content_pieces
		SET status = $2, reviewed_at = now()
		WHERE id = $1 AND status = $3`,
		id, status, composer.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("update piece status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("piece %s: %w", id, ErrNotPending)
	}
	return nil
}

// SetPieceSlackTS records the Slack message timestamp posted for a piece,
// so reactions can be routed back to it.
func (s *Store) SetPieceSlackTS(ctx context.Context, id uuid.UUID, ts string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE content_pieces SET slack_ts = $2 WHERE id = $1`,
		id, ts,
	)
	if err != nil {
		return fmt.Errorf("update piece slack ts: %w", err)
	}
	return nil
}

// PieceBySlackTS resolves a Slack message timestamp to its piece ID.
func (s *Store) PieceBySlackTS(ctx context.Context, ts string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT id FROM content_pieces WHERE slack_ts = $1`,
		ts,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("piece for slack ts %s: %w", ts, err)
	}
	return id, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
