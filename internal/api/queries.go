package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/composer"
	"github.com/prosora-labs/prosora/internal/pipeline"
	"github.com/prosora-labs/prosora/internal/scoring"
	"github.com/prosora-labs/prosora/internal/source"
	"github.com/prosora-labs/prosora/internal/store"
)

// PieceLister reads the review ledger.
type PieceLister interface {
	ListPieces(ctx context.Context, status string) ([]composer.Piece, error)
}

// ProsoraServer extends the base server with the intelligence endpoints.
type ProsoraServer struct {
	*Server
	pipeline *pipeline.Pipeline
	pieces   PieceLister
	registry *source.Registry
	weights  map[string]float64
}

// QueryRequest triggers one pipeline run.
type QueryRequest struct {
	Query string `json:"query"`
}

// ReviewRequest carries an optional reviewer identity.
type ReviewRequest struct {
	Reviewer string `json:"reviewer,omitempty"`
}

// IndexResponse is the score breakdown for the curated portfolio.
type IndexResponse struct {
	DomainScores   map[string]float64 `json:"domain_scores"`
	CompositeIndex float64            `json:"composite_index"`
	Weights        map[string]float64 `json:"weights"`
	Sources        int                `json:"sources"`
}

// NewProsoraServer wires the intelligence routes onto the base server.
func NewProsoraServer(port int, apiToken string, pl *pipeline.Pipeline, pieces PieceLister, registry *source.Registry, weights map[string]float64) *ProsoraServer {
	base := NewServer(port)
	if weights == nil {
		weights = scoring.DefaultWeights
	}
	ps := &ProsoraServer{
		Server:   base,
		pipeline: pl,
		pieces:   pieces,
		registry: registry,
		weights:  weights,
	}

	base.router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/queries", ps.runQuery)
		r.Get("/content", ps.listContent)
		r.Post("/content/{id}/approve", ps.reviewContent(composer.StatusApproved))
		r.Post("/content/{id}/reject", ps.reviewContent(composer.StatusRejected))
		r.Get("/index", ps.index)
	})

	return ps
}

// runQuery handles POST /api/v1/queries: one synchronous pipeline run.
func (ps *ProsoraServer) runQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
		return
	}

	result, err := ps.pipeline.Run(r.Context(), req.Query)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"run failed: %v"}`, err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// listContent handles GET /api/v1/content?status=pending|approved|rejected.
func (ps *ProsoraServer) listContent(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", composer.StatusPending, composer.StatusApproved, composer.StatusRejected:
	default:
		http.Error(w, fmt.Sprintf(`{"error":"unknown status %q"}`, status), http.StatusBadRequest)
		return
	}

	pieces, err := ps.pieces.ListPieces(r.Context(), status)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"list failed: %v"}`, err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pieces": pieces,
		"count":  len(pieces),
	})
}

// reviewContent handles POST /api/v1/content/{id}/approve and /reject.
func (ps *ProsoraServer) reviewContent(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"invalid piece id"}`, http.StatusBadRequest)
			return
		}

		var req ReviewRequest
		// Body is optional; decode errors on an empty body are fine.
		_ = json.NewDecoder(r.Body).Decode(&req)

		if err := ps.pipeline.Review(r.Context(), id, status, req.Reviewer); err != nil {
			// 409 only for already-decided pieces; anything else is a
			// server-side failure.
			code := http.StatusInternalServerError
			if errors.Is(err, store.ErrNotPending) {
				code = http.StatusConflict
			}
			http.Error(w, fmt.Sprintf(`{"error":"review failed: %v"}`, err), code)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"piece_id": id.String(),
			"status":   status,
		})
	}
}

// index handles GET /api/v1/index: the portfolio score breakdown over
// the curated registry.
func (ps *ProsoraServer) index(w http.ResponseWriter, r *http.Request) {
	items := make([]source.ContentItem, 0, ps.registry.Len())
	for _, s := range ps.registry.All() {
		items = append(items, source.ContentItem{
			SourceName:  s.Name,
			Credibility: s.Credibility,
			Relevance:   s.Relevance,
			Domains:     s.Domains,
		})
	}

	domainScores := scoring.DomainScores(items)
	index, err := scoring.CompositeIndex(domainScores, ps.weights)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"index failed: %v"}`, err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, IndexResponse{
		DomainScores:   domainScores,
		CompositeIndex: index,
		Weights:        ps.weights,
		Sources:        ps.registry.Len(),
	})
}
