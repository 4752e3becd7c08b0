package artifacts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prosora-labs/prosora/internal/pipeline"
	"github.com/prosora-labs/prosora/internal/source"
)

// Writer exports run artifacts as JSON files under a data directory, one
// file per run, for offline inspection and export workflows.
type Writer struct {
	dir    string
	logger *slog.Logger
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// runArtifact is the on-disk shape of one run.
type runArtifact struct {
	RunID        string               `json:"run_id"`
	WrittenAt    time.Time            `json:"written_at"`
	Result       *pipeline.Result     `json:"result"`
	ContentItems []source.ContentItem `json:"content_items,omitempty"`
}

// WriteRun serializes a run result (and optionally its fetched content)
// to <dir>/run_<id>.json. Failures are logged by the caller; artifact
// export is best-effort and never blocks a run.
func (w *Writer) WriteRun(result *pipeline.Result, items []source.ContentItem) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	artifact := runArtifact{
		RunID:        result.RunID.String(),
		WrittenAt:    time.Now().UTC(),
		Result:       result,
		ContentItems: items,
	}

	raw, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	path := filepath.Join(w.dir, "run_"+result.RunID.String()+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	w.logger.Info("run artifact written", "path", path)
	return nil
}
