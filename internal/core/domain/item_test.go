package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemKind(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     Kind
	}{
		{name: "folder mime is a folder", mimeType: MimeTypeFolder, want: KindFolder},
		{name: "google doc is a file", mimeType: "application/vnd.google-apps.document", want: KindFile},
		{name: "pdf is a file", mimeType: "application/pdf", want: KindFile},
		{name: "empty mime is a file", mimeType: "", want: KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Item{MIMEType: tt.mimeType}
			assert.Equal(t, tt.want, item.Kind())
			assert.Equal(t, tt.want == KindFolder, item.IsFolder())
		})
	}
}

func TestItemKindLabel(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     string
	}{
		{name: "folder", mimeType: MimeTypeFolder, want: "Folder"},
		{name: "google doc", mimeType: "application/vnd.google-apps.document", want: "Google Doc"},
		{name: "google sheet", mimeType: "application/vnd.google-apps.spreadsheet", want: "Google Sheet"},
		{name: "pdf", mimeType: "application/pdf", want: "PDF"},
		{
			name:     "word document",
			mimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			want:     "Word",
		},
		{name: "unknown type falls back to raw mime", mimeType: "image/png", want: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Item{MIMEType: tt.mimeType}.KindLabel())
		})
	}
}
