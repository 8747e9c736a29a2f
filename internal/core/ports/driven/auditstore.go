package driven

import (
	"context"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
)

// AuditStore persists the local audit history. History is best-effort: a
// store failure must not fail an otherwise successful audit.
type AuditStore interface {
	// SaveRun records a completed run.
	SaveRun(ctx context.Context, run domain.Run) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)

	// SaveSkips records the subtrees a run could not read.
	SaveSkips(ctx context.Context, skips []domain.Skip) error

	// ListSkips returns the skipped subtrees of one run.
	ListSkips(ctx context.Context, runID string) ([]domain.Skip, error)

	// Close releases the underlying storage.
	Close() error
}
