package domain

// MimeTypeFolder is the MIME type Google Drive assigns to folders.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// Kind classifies an item as a folder or a regular file.
type Kind string

const (
	// KindFolder is a Drive folder.
	KindFolder Kind = "folder"
	// KindFile is any non-folder Drive item.
	KindFile Kind = "file"
)

// Item represents one Drive file or folder as returned by the listing API.
// Items are transient: they exist for the duration of a walk and are never
// persisted, the remote service remains the system of record.
type Item struct {
	// ID is the opaque Drive identifier.
	ID string

	// Name is the display name.
	Name string

	// MIMEType is the Drive MIME type (folders use MimeTypeFolder).
	MIMEType string

	// WebLink is the browser URL for the item, if known.
	WebLink string

	// IconLink is the URL of the item's type icon, if known.
	IconLink string

	// ModifiedTime is the RFC 3339 modification timestamp as reported
	// by the API. Kept verbatim; the walker never interprets it.
	ModifiedTime string

	// Parent is the ID of the containing folder, empty for the walk root.
	Parent string
}

// Kind returns KindFolder for folders and KindFile otherwise.
func (i Item) Kind() Kind {
	if i.MIMEType == MimeTypeFolder {
		return KindFolder
	}
	return KindFile
}

// IsFolder reports whether the item is a folder.
func (i Item) IsFolder() bool {
	return i.MIMEType == MimeTypeFolder
}

// mimeLabels maps common Drive MIME types to friendly labels.
// The mapping is not exhaustive; unknown types fall back to the raw value.
var mimeLabels = map[string]string{
	MimeTypeFolder:                         "Folder",
	"application/vnd.google-apps.document": "Google Doc",
	"application/vnd.google-apps.spreadsheet":  "Google Sheet",
	"application/vnd.google-apps.presentation": "Google Presentation",
	"application/vnd.google-apps.drawing":      "Google Drawing",
	"application/vnd.google-apps.form":         "Google Form",
	"application/pdf":                          "PDF",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "Word",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "Excel",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "Powerpoint",
}

// KindLabel returns a human-readable label for the item's MIME type,
// falling back to the raw MIME type for unmapped values.
func (i Item) KindLabel() string {
	if label, ok := mimeLabels[i.MIMEType]; ok {
		return label
	}
	return i.MIMEType
}
