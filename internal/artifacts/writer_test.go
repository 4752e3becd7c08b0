package artifacts

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/prosora-labs/prosora/internal/pipeline"
	"github.com/prosora-labs/prosora/internal/source"
)

func TestWriteRun(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result := &pipeline.Result{
		RunID:          uuid.New(),
		CompositeIndex: 42.5,
	}
	items := []source.ContentItem{{Title: "Article", SourceName: "Feed", Hash: "h1"}}

	if err := w.WriteRun(result, items); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}

	path := filepath.Join(dir, "run_"+result.RunID.String()+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}

	var artifact struct {
		RunID  string `json:"run_id"`
		Result struct {
			CompositeIndex float64 `json:"composite_index"`
		} `json:"result"`
		ContentItems []source.ContentItem `json:"content_items"`
	}
	if err := json.Unmarshal(raw, &artifact); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if artifact.RunID != result.RunID.String() {
		t.Errorf("run_id = %q", artifact.RunID)
	}
	if artifact.Result.CompositeIndex != 42.5 {
		t.Errorf("composite index = %f", artifact.Result.CompositeIndex)
	}
	if len(artifact.ContentItems) != 1 || artifact.ContentItems[0].Hash != "h1" {
		t.Errorf("content items = %+v", artifact.ContentItems)
	}
}

func TestWriteRun_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	w := NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := w.WriteRun(&pipeline.Result{RunID: uuid.New()}, nil); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one artifact in created dir, err=%v entries=%d", err, len(entries))
	}
}
