package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/composer"
	"github.com/prosora-labs/prosora/internal/events"
	"github.com/prosora-labs/prosora/internal/insight"
	"github.com/prosora-labs/prosora/internal/query"
	"github.com/prosora-labs/prosora/internal/scoring"
	"github.com/prosora-labs/prosora/internal/slack"
	"github.com/prosora-labs/prosora/internal/source"
	"github.com/prosora-labs/prosora/internal/store"
)

// Ledger is the persistence surface the pipeline needs.
type Ledger interface {
	WriteContentItems(ctx context.Context, items []source.ContentItem) error
	WriteRun(ctx context.Context, run store.Run, insights []insight.Insight) error
	WritePieces(ctx context.Context, runID uuid.UUID, pieces []composer.Piece) error
	SetPieceStatus(ctx context.Context, id uuid.UUID, status string) error
	SetPieceSlackTS(ctx context.Context, id uuid.UUID, ts string) error
	PieceBySlackTS(ctx context.Context, ts string) (uuid.UUID, error)
}

// ContentFetcher pulls fresh content for the selected sources.
type ContentFetcher interface {
	FetchAll(ctx context.Context, sources []source.Source) []source.ContentItem
}

// Reviewer posts drafts for human review.
type Reviewer interface {
	PostPiece(ctx context.Context, piece composer.Piece) (string, error)
}

// Bus publishes run and review events.
type Bus interface {
	Publish(subject string, data any) error
}

// Archiver exports run artifacts for offline inspection.
type Archiver interface {
	WriteRun(result *Result, items []source.ContentItem) error
}

// Result is what one pipeline run returns to the caller.
type Result struct {
	RunID          uuid.UUID            `json:"run_id"`
	Classification query.Classification `json:"classification"`
	DomainScores   map[string]float64   `json:"domain_scores"`
	CompositeIndex float64              `json:"composite_index"`
	Insights       []insight.Insight    `json:"insights"`
	Bundle         composer.Bundle      `json:"content"`
}

// Pipeline wires the full flow: classify, filter, fetch, score, generate
// insights, compose content, persist, and post for review. Mid-run
// failures degrade to partial results; only misconfiguration is fatal.
type Pipeline struct {
	registry   *source.Registry
	classifier *query.Classifier
	fetcher    ContentFetcher
	engine     *insight.Engine
	composer   *composer.Composer
	ledger     Ledger
	reviewer   Reviewer
	bus        Bus
	archiver   Archiver
	weights    map[string]float64
	logger     *slog.Logger
}

// New validates the composite weights up front so a bad weight map fails
// at startup, not mid-run.
func New(
	registry *source.Registry,
	classifier *query.Classifier,
	fetcher ContentFetcher,
	engine *insight.Engine,
	comp *composer.Composer,
	ledger Ledger,
	reviewer Reviewer,
	bus Bus,
	archiver Archiver,
	weights map[string]float64,
	logger *slog.Logger,
) (*Pipeline, error) {
	if weights == nil {
		weights = scoring.DefaultWeights
	}
	if _, err := scoring.CompositeIndex(map[string]float64{}, weights); err != nil {
		return nil, fmt.Errorf("invalid composite weights: %w", err)
	}
	return &Pipeline{
		registry:   registry,
		classifier: classifier,
		fetcher:    fetcher,
		engine:     engine,
		composer:   comp,
		ledger:     ledger,
		reviewer:   reviewer,
		bus:        bus,
		archiver:   archiver,
		weights:    weights,
		logger:     logger,
	}, nil
}

// Run executes the full flow for one query.
func (p *Pipeline) Run(ctx context.Context, queryText string) (*Result, error) {
	cls := p.classifier.Classify(queryText)
	p.logger.Info("query classified",
		"query", queryText,
		"intent", cls.Intent,
		"domains", cls.Domains,
		"complexity", cls.Complexity,
	)

	ranked := p.selectSources(cls)

	var items []source.ContentItem
	if p.fetcher != nil {
		items = p.fetcher.FetchAll(ctx, ranked)
	}
	if p.ledger != nil && len(items) > 0 {
		if err := p.ledger.WriteContentItems(ctx, items); err != nil {
			p.logger.Warn("persisting content items failed", "error", err)
		}
	}

	domainScores := scoring.DomainScores(items)
	index, err := scoring.CompositeIndex(domainScores, p.weights)
	if err != nil {
		// Weights were validated at construction; this is unreachable
		// unless the map was mutated since.
		return nil, fmt.Errorf("composite index: %w", err)
	}

	insights := p.engine.Generate(ctx, cls, ranked, items)
	bundle := p.composer.Compose(ctx, cls, insights)

	run := store.NewRun(cls, index)
	if p.ledger != nil {
		if err := p.ledger.WriteRun(ctx, run, insights); err != nil {
			p.logger.Warn("persisting run failed", "error", err)
		}
		if err := p.ledger.WritePieces(ctx, run.ID, bundle.Pieces()); err != nil {
			p.logger.Warn("persisting pieces failed", "error", err)
		}
	}

	p.postForReview(ctx, bundle.Pieces())

	if p.bus != nil {
		evt := events.RunCompleted{
			RunID:          run.ID.String(),
			Query:          queryText,
			Insights:       len(insights),
			Pieces:         len(bundle.Pieces()),
			CompositeIndex: index,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		}
		if err := p.bus.Publish(events.SubjectRunCompleted, evt); err != nil {
			p.logger.Warn("publishing run event failed", "error", err)
		}
	}

	result := &Result{
		RunID:          run.ID,
		Classification: cls,
		DomainScores:   domainScores,
		CompositeIndex: index,
		Insights:       insights,
		Bundle:         bundle,
	}

	if p.archiver != nil {
		if err := p.archiver.WriteRun(result, items); err != nil {
			p.logger.Warn("writing run artifact failed", "error", err)
		}
	}

	return result, nil
}

// selectSources filters and ranks the registry for the query, then trims
// the experimental pool unless the evidence level calls for it.
func (p *Pipeline) selectSources(cls query.Classification) []source.Source {
	ranked := p.registry.FilterRank(cls.Domains, source.DefaultRankCap)
	if cls.EvidenceLevel == query.EvidenceComprehensive {
		return ranked
	}
	var kept []source.Source
	for _, s := range ranked {
		if s.Tier() != source.TierExperimental {
			kept = append(kept, s)
		}
	}
	return kept
}

func (p *Pipeline) postForReview(ctx context.Context, pieces []composer.Piece) {
	if p.reviewer == nil {
		return
	}
	for _, piece := range pieces {
		ts, err := p.reviewer.PostPiece(ctx, piece)
		if err != nil {
			p.logger.Warn("posting draft for review failed", "piece", piece.ID, "error", err)
			continue
		}
		if p.ledger != nil {
			if err := p.ledger.SetPieceSlackTS(ctx, piece.ID, ts); err != nil {
				p.logger.Warn("recording slack ts failed", "piece", piece.ID, "error", err)
			}
		}
	}
}

// HandleReaction is the NATS handler for forwarded Slack reactions. A
// thumbs up approves the piece behind the message, a thumbs down rejects it.
func (p *Pipeline) HandleReaction(subject string, data []byte) {
	if p.ledger == nil {
		return
	}
	ctx := context.Background()

	evt, err := slack.ParseReactionEvent(data)
	if err != nil {
		p.logger.Warn("failed to parse reaction event", "error", err)
		return
	}

	verdict := slack.ParseReaction(evt.Reaction)
	if verdict == slack.VerdictUnknown {
		return
	}

	id, err := p.ledger.PieceBySlackTS(ctx, evt.MessageTS)
	if err != nil {
		p.logger.Warn("no piece for reaction", "ts", evt.MessageTS, "error", err)
		return
	}

	if err := p.Review(ctx, id, string(verdict), evt.UserID); err != nil {
		p.logger.Warn("review via reaction failed", "piece", id, "error", err)
	}
}

// Review moves a piece to approved or rejected and announces the outcome.
func (p *Pipeline) Review(ctx context.Context, id uuid.UUID, status, reviewer string) error {
	if status != composer.StatusApproved && status != composer.StatusRejected {
		return fmt.Errorf("invalid review status %q", status)
	}
	if p.ledger == nil {
		return fmt.Errorf("no ledger configured")
	}
	if err := p.ledger.SetPieceStatus(ctx, id, status); err != nil {
		return err
	}

	p.logger.Info("piece reviewed", "piece", id, "status", status, "reviewer", reviewer)

	if p.bus != nil {
		subject := events.SubjectContentApproved
		if status == composer.StatusRejected {
			subject = events.SubjectContentRejected
		}
		evt := events.ContentReviewed{
			PieceID:   id.String(),
			Status:    status,
			Reviewer:  reviewer,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if err := p.bus.Publish(subject, evt); err != nil {
			p.logger.Warn("publishing review event failed", "error", err)
		}
	}
	return nil
}
