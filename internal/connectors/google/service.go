package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ScopeDriveMetadataReadonly is the only OAuth scope Drivescope requests.
// It allows reading file metadata and permissions but never content changes.
const ScopeDriveMetadataReadonly = drive.DriveMetadataReadonlyScope

// NewDriveService creates a Google Drive API service using the provided
// TokenSource.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource) (*drive.Service, error) {
	return drive.NewService(ctx, option.WithTokenSource(ts), option.WithScopes(ScopeDriveMetadataReadonly))
}
