package driven

import (
	"context"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
)

// DriveLister is the read-only view of the remote Drive service the walker
// needs. Implementations map remote failures onto the domain error taxonomy
// (domain.ErrNotFound, domain.ErrAccessDenied, domain.ErrRateLimited,
// domain.ErrTransient) so the walker can apply its retry and skip policy
// without knowing transport details.
type DriveLister interface {
	// GetItem fetches the metadata of a single file or folder.
	GetItem(ctx context.Context, id string) (domain.Item, error)

	// ListChildren returns one page of a folder's direct children along
	// with the token for the next page. An empty returned token means
	// the listing is exhausted.
	ListChildren(ctx context.Context, folderID, pageToken string) ([]domain.Item, string, error)

	// ListPermissions returns every access grant on an item. Pagination
	// is handled internally; permission lists are small.
	ListPermissions(ctx context.Context, id string) ([]domain.Permission, error)
}
