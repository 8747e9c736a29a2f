package rst

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func folderNode(id, name string) *domain.Node {
	return &domain.Node{
		Item: domain.Item{
			ID:       id,
			Name:     name,
			MIMEType: domain.MimeTypeFolder,
			WebLink:  "https://drive.google.com/drive/folders/" + id,
		},
		Permissions: []domain.Permission{
			{Type: domain.PrincipalUser, Role: domain.RoleOwner, DisplayName: "Owner", Email: "owner@example.com"},
		},
	}
}

func fileNode(id, name string) *domain.Node {
	return &domain.Node{
		Item: domain.Item{
			ID:       id,
			Name:     name,
			MIMEType: "application/pdf",
			WebLink:  "https://drive.google.com/file/d/" + id + "/view",
		},
	}
}

func sampleTree() *domain.Tree {
	root := folderNode("r", "Root")
	sub := folderNode("s", "Sub")
	sub.AddChild(fileNode("n", "nested.pdf"))
	root.AddChild(sub)
	root.AddChild(fileNode("d", "doc.pdf"))
	root.SortChildren()
	sub.SortChildren()
	return &domain.Tree{Root: root}
}

func render(t *testing.T, tree *domain.Tree) (string, int) {
	t.Helper()
	dir := t.TempDir()
	r := NewRendererWithClock(fixedClock)
	pages, err := r.Render(tree, dir)
	require.NoError(t, err)
	return dir, pages
}

func readPage(t *testing.T, dir string, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.Join(parts...)))
	require.NoError(t, err)
	return string(data)
}

func TestRenderOnePagePerFolder(t *testing.T) {
	dir, pages := render(t, sampleTree())

	// Two folder pages plus all_files.rst plus index.rst.
	assert.Equal(t, 4, pages)
	assert.FileExists(t, filepath.Join(dir, "Root.rst"))
	assert.FileExists(t, filepath.Join(dir, "Root", "Sub.rst"))
	assert.FileExists(t, filepath.Join(dir, "all_files.rst"))
	assert.FileExists(t, filepath.Join(dir, "index.rst"))
}

func TestRenderFolderPageContent(t *testing.T) {
	dir, _ := render(t, sampleTree())

	page := readPage(t, dir, "Root.rst")
	assert.Contains(t, page, ".. Generated by drivescope. Edits will be lost!")
	assert.Contains(t, page, "Root\n====\n")
	assert.Contains(t, page, ":Path: `Root <https://drive.google.com/drive/folders/r>`_")
	assert.Contains(t, page, "**Permissions**")
	assert.Contains(t, page, "   * - owner\n     - Owner\n     - owner@example.com\n")
	assert.Contains(t, page, "**Folder Contents**")
	assert.Contains(t, page, "   * - Folder\n     - `Sub <https://drive.google.com/drive/folders/s>`_\n")
	assert.Contains(t, page, "   * - PDF\n     - `doc.pdf <https://drive.google.com/file/d/d/view>`_\n")
	assert.Contains(t, page, ".. toctree::\n   :hidden:\n\n   Root/Sub\n")

	sub := readPage(t, dir, "Root", "Sub.rst")
	assert.Contains(t, sub, "Root / Sub\n----------\n")
	assert.NotContains(t, sub, ".. toctree", "leaf folder pages carry no toctree")
}

func TestRenderIsByteIdenticalAcrossRuns(t *testing.T) {
	tree := sampleTree()
	dirA, _ := render(t, tree)
	dirB, _ := render(t, tree)

	for _, rel := range []string{"Root.rst", filepath.Join("Root", "Sub.rst"), "all_files.rst", "index.rst"} {
		a, err := os.ReadFile(filepath.Join(dirA, rel))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, rel))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), rel)
	}
}

func TestRenderEmptyFolder(t *testing.T) {
	tree := &domain.Tree{Root: folderNode("r", "Empty")}
	dir, _ := render(t, tree)

	page := readPage(t, dir, "Empty.rst")
	assert.Contains(t, page, "   * - No files.\n     - .\n")
}

func TestRenderSkippedChildMarkedNoDescendantPages(t *testing.T) {
	root := folderNode("r", "Root")
	secret := folderNode("x", "Secret")
	secret.Skipped = true
	secret.SkipReason = "access denied"
	root.AddChild(secret)
	root.SortChildren()

	dir, _ := render(t, &domain.Tree{Root: root})

	page := readPage(t, dir, "Root.rst")
	assert.Contains(t, page, "(inaccessible)")
	assert.NoFileExists(t, filepath.Join(dir, "Root", "Secret.rst"))

	index := readPage(t, dir, "index.rst")
	assert.Contains(t, index, "Skipped Subtrees")
	assert.Contains(t, index, "   * - Root / Secret\n     - access denied\n")
}

func TestRenderIndexSummary(t *testing.T) {
	dir, _ := render(t, sampleTree())

	index := readPage(t, dir, "index.rst")
	assert.Contains(t, index, "Drive Permission Audit\n======================\n")
	assert.Contains(t, index, ":Generated: 2024-03-01T12:00:00+00")
	assert.Contains(t, index, ":Folders: 2")
	assert.Contains(t, index, ":Files: 2")
	assert.Contains(t, index, ":Skipped: 0")
	assert.Contains(t, index, ".. toctree::\n   :maxdepth: 2\n\n   Root\n   all_files\n")
	assert.Contains(t, index, "None.")
}

func TestRenderAllFilesIndex(t *testing.T) {
	dir, _ := render(t, sampleTree())

	allFiles := readPage(t, dir, "all_files.rst")
	assert.Contains(t, allFiles, "All Items\n=========\n")
	assert.Contains(t, allFiles, "   * - Folder\n     - Root / Sub\n")
	assert.Contains(t, allFiles, "   * - PDF\n     - Root / Sub / **nested.pdf**\n")
	assert.Contains(t, allFiles, "   * - PDF\n     - Root / **doc.pdf**\n")
}

func TestRenderSiblingSlugCollision(t *testing.T) {
	root := folderNode("r", "Root")
	a := folderNode("aaaaaaaaaaaa", "Reports 2024")
	b := folderNode("bbbbbbbbbbbb", "Reports/2024")
	root.AddChild(a)
	root.AddChild(b)
	root.SortChildren()

	dir, pages := render(t, &domain.Tree{Root: root})
	assert.Equal(t, 5, pages)

	// Both slugify to "Reports-2024"; the second gets an ID suffix.
	assert.FileExists(t, filepath.Join(dir, "Root", "Reports-2024.rst"))
	assert.FileExists(t, filepath.Join(dir, "Root", "Reports-2024-bbbbbbbb.rst"))
}

func TestRenderSkippedRootStillWritesIndex(t *testing.T) {
	root := folderNode("r", "Root")
	root.Skipped = true
	root.SkipReason = "access denied"

	dir, pages := render(t, &domain.Tree{Root: root})

	assert.Equal(t, 2, pages) // all_files.rst and index.rst only
	assert.NoFileExists(t, filepath.Join(dir, "Root.rst"))

	index := readPage(t, dir, "index.rst")
	assert.Contains(t, index, ":Skipped: 1")
	assert.Contains(t, index, "access denied")
}

func TestRenderRootNamedIndexKeepsItsPage(t *testing.T) {
	root := folderNode("aaaaaaaaaaaa", "index")
	root.AddChild(fileNode("d", "doc.pdf"))
	root.SortChildren()

	dir, pages := render(t, &domain.Tree{Root: root})
	assert.Equal(t, 3, pages)

	// The root slug yields to the reserved index page.
	page := readPage(t, dir, "index-aaaaaaaa.rst")
	assert.Contains(t, page, "**Folder Contents**")

	index := readPage(t, dir, "index.rst")
	assert.Contains(t, index, "Drive Permission Audit")
	assert.Contains(t, index, ".. toctree::\n   :maxdepth: 2\n\n   index-aaaaaaaa\n   all_files\n")
	assert.NotContains(t, index, "**Folder Contents**")
}

func TestRenderRootNamedAllFilesKeepsItsPage(t *testing.T) {
	root := folderNode("bbbbbbbbbbbb", "all_files")

	dir, _ := render(t, &domain.Tree{Root: root})

	assert.FileExists(t, filepath.Join(dir, "all_files-bbbbbbbb.rst"))
	allFiles := readPage(t, dir, "all_files.rst")
	assert.Contains(t, allFiles, "All Items")
}

func TestRenderFailureLeavesNoIndexSentinel(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the all_files.rst path makes that write
	// fail after the folder pages already succeeded.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "all_files.rst"), 0o755))

	r := NewRendererWithClock(fixedClock)
	_, err := r.Render(sampleTree(), dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWriteFailed)
	assert.FileExists(t, filepath.Join(dir, "Root.rst"))
	assert.NoFileExists(t, filepath.Join(dir, "index.rst"))
}

func TestRenderUnwritableOutputDirFails(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	r := NewRendererWithClock(fixedClock)
	_, err := r.Render(sampleTree(), filepath.Join(dir, "out"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWriteFailed)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Reports", want: "Reports"},
		{in: "Q1 / Q2", want: "Q1-Q2"},
		{in: "notes.txt", want: "notes.txt"},
		{in: "  ", want: "untitled"},
		{in: "../escape", want: "escape"},
		{in: "a  b", want: "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}
