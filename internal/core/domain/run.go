package domain

import "time"

// Run statuses recorded in the audit history.
const (
	// RunStatusComplete means the full traversal and render succeeded.
	RunStatusComplete = "complete"
	// RunStatusPartial means the render succeeded but some subtrees
	// were skipped.
	RunStatusPartial = "partial"
)

// Run records one completed audit. Runs are written to the local history
// store only after the render finished, so the presence of a run implies
// the report's sentinel index page exists.
type Run struct {
	// ID is the unique run identifier.
	ID string

	// RootID is the Drive folder the walk started from.
	RootID string

	// OutputDir is where the report pages were written.
	OutputDir string

	// StartedAt and FinishedAt bound the traversal and render.
	StartedAt  time.Time
	FinishedAt time.Time

	// Folders, Files and Skipped are the tree counts.
	Folders int
	Files   int
	Skipped int

	// Pages is the number of report pages written.
	Pages int

	// Status is RunStatusComplete or RunStatusPartial.
	Status string
}

// Skip records one inaccessible subtree from a run, keeping the audit
// trail of what the report does not cover.
type Skip struct {
	RunID  string
	ItemID string
	Name   string
	Path   string
	Reason string
}
