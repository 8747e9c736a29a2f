package google

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
	"github.com/drivescope/drivescope-cli/internal/core/ports/driven"
)

// Ensure Drive implements the DriveLister port.
var _ driven.DriveLister = (*Drive)(nil)

// Field selections keep responses small; the walker needs metadata only.
const (
	itemFields       = "id, name, mimeType, webViewLink, iconLink, modifiedTime, parents"
	listFields       = "nextPageToken, files(id, name, mimeType, webViewLink, iconLink, modifiedTime, parents)"
	permissionFields = "nextPageToken, permissions(type, role, displayName, emailAddress, domain, allowFileDiscovery)"
)

// Drive implements the DriveLister port on top of the Drive v3 API.
type Drive struct {
	svc      *drive.Service
	limiter  *RateLimiter
	pageSize int64
}

// NewDrive creates a Drive adapter. pageSize bounds children listing pages;
// values outside (0, 1000] fall back to 100.
func NewDrive(svc *drive.Service, limiter *RateLimiter, pageSize int64) *Drive {
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 100
	}
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRateLimit)
	}
	return &Drive{svc: svc, limiter: limiter, pageSize: pageSize}
}

// GetItem fetches the metadata of a single file or folder.
func (d *Drive) GetItem(ctx context.Context, id string) (domain.Item, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return domain.Item{}, err
	}

	file, err := d.svc.Files.Get(id).
		Fields(googleapi.Field(itemFields)).
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return domain.Item{}, d.wrap(err)
	}
	return itemFromFile(file), nil
}

// ListChildren returns one page of a folder's direct children.
func (d *Drive) ListChildren(ctx context.Context, folderID, pageToken string) ([]domain.Item, string, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	call := d.svc.Files.List().
		Q(childrenQuery(folderID)).
		Fields(googleapi.Field(listFields)).
		PageSize(d.pageSize).
		IncludeItemsFromAllDrives(true).
		SupportsAllDrives(true).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	list, err := call.Do()
	if err != nil {
		return nil, "", d.wrap(err)
	}

	items := make([]domain.Item, 0, len(list.Files))
	for _, f := range list.Files {
		item := itemFromFile(f)
		item.Parent = folderID
		items = append(items, item)
	}
	return items, list.NextPageToken, nil
}

// ListPermissions returns every access grant on an item, paginating until
// the listing is exhausted.
func (d *Drive) ListPermissions(ctx context.Context, id string) ([]domain.Permission, error) {
	var perms []domain.Permission
	pageToken := ""
	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := d.svc.Permissions.List(id).
			Fields(googleapi.Field(permissionFields)).
			SupportsAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			return nil, d.wrap(err)
		}
		for _, p := range list.Permissions {
			perms = append(perms, permissionFromDrive(p))
		}
		if list.NextPageToken == "" {
			return perms, nil
		}
		pageToken = list.NextPageToken
	}
}

// wrap maps an API error onto the domain taxonomy and feeds 429 backoff
// hints to the rate limiter.
func (d *Drive) wrap(err error) error {
	wrapped := wrapError(err)
	if errors.Is(wrapped, domain.ErrRateLimited) {
		d.limiter.RecordRateLimitError(retryAfterSeconds(err))
	}
	return wrapped
}

// childrenQuery builds the files.list query for a folder's direct,
// non-trashed children. Single quotes in IDs are escaped per the Drive
// query grammar.
func childrenQuery(folderID string) string {
	escaped := strings.ReplaceAll(folderID, `'`, `\'`)
	return "'" + escaped + "' in parents and trashed = false"
}

func itemFromFile(f *drive.File) domain.Item {
	item := domain.Item{
		ID:           f.Id,
		Name:         f.Name,
		MIMEType:     f.MimeType,
		WebLink:      f.WebViewLink,
		IconLink:     f.IconLink,
		ModifiedTime: f.ModifiedTime,
	}
	if len(f.Parents) > 0 {
		item.Parent = f.Parents[0]
	}
	return item
}

func permissionFromDrive(p *drive.Permission) domain.Permission {
	return domain.Permission{
		Type:            domain.PrincipalType(p.Type),
		Role:            domain.Role(p.Role),
		DisplayName:     p.DisplayName,
		Email:           p.EmailAddress,
		Domain:          p.Domain,
		AllowsDiscovery: p.AllowFileDiscovery,
	}
}
