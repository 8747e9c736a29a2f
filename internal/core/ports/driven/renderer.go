package driven

import (
	"github.com/drivescope/drivescope-cli/internal/core/domain"
)

// Renderer writes a collected tree as documentation source pages under an
// output directory. Implementations must write the index page last: it is
// the completion sentinel, so an aborted render leaves partial pages but no
// index. Any filesystem failure is reported as domain.ErrWriteFailed.
type Renderer interface {
	// Render writes the report and returns the number of pages written.
	Render(tree *domain.Tree, outDir string) (int, error)
}
