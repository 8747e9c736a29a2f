package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
	"github.com/drivescope/drivescope-cli/internal/core/ports/driven"
	"github.com/drivescope/drivescope-cli/internal/logger"
)

// Audit runs one full audit: collect the tree, render the report, record
// the run in the local history.
type Audit struct {
	walker   *Walker
	renderer driven.Renderer
	history  driven.AuditStore // may be nil, history is then disabled
}

// NewAudit creates the audit service. history may be nil.
func NewAudit(walker *Walker, renderer driven.Renderer, history driven.AuditStore) *Audit {
	return &Audit{walker: walker, renderer: renderer, history: history}
}

// Run performs the audit and returns its record. Only an unresolvable
// root (domain.ErrNotFound) and render failures (domain.ErrWriteFailed)
// are fatal; skipped subtrees degrade the run to RunStatusPartial.
// The run is recorded in history only after the render finished, matching
// the report's sentinel index page.
func (a *Audit) Run(ctx context.Context, rootID, outDir string) (*domain.Run, *domain.Tree, error) {
	run := &domain.Run{
		ID:        uuid.New().String(),
		RootID:    rootID,
		OutputDir: outDir,
		StartedAt: time.Now().UTC(),
	}

	logger.Section("Collect")
	tree, err := a.walker.Collect(ctx, rootID)
	if err != nil {
		return nil, nil, fmt.Errorf("collect: %w", err)
	}

	logger.Section("Render")
	pages, err := a.renderer.Render(tree, outDir)
	if err != nil {
		return nil, tree, fmt.Errorf("render: %w", err)
	}

	stats := tree.Stats()
	run.FinishedAt = time.Now().UTC()
	run.Folders = stats.Folders
	run.Files = stats.Files
	run.Skipped = stats.Skipped
	run.Pages = pages
	run.Status = domain.RunStatusComplete
	if stats.Skipped > 0 {
		run.Status = domain.RunStatusPartial
	}

	a.record(ctx, run, tree)
	return run, tree, nil
}

// record writes the run to the history store. Best-effort: a history
// failure must not fail a run whose report is already on disk.
func (a *Audit) record(ctx context.Context, run *domain.Run, tree *domain.Tree) {
	if a.history == nil {
		return
	}

	if err := a.history.SaveRun(ctx, *run); err != nil {
		logger.Warn("recording run: %v", err)
		return
	}

	skipped := tree.SkippedNodes()
	if len(skipped) == 0 {
		return
	}
	skips := make([]domain.Skip, 0, len(skipped))
	for _, s := range skipped {
		skips = append(skips, domain.Skip{
			RunID:  run.ID,
			ItemID: s.Item.ID,
			Name:   s.Item.Name,
			Path:   s.Path,
			Reason: s.Reason,
		})
	}
	if err := a.history.SaveSkips(ctx, skips); err != nil {
		logger.Warn("recording skips: %v", err)
	}
}
