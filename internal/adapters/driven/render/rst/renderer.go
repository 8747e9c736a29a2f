// Package rst renders a collected tree as reStructuredText pages for an
// external Sphinx build.
//
// The layout mirrors the Drive hierarchy: one page per accessible folder,
// a flat all_files index, and a top-level index.rst. The index is written
// last and acts as the completion sentinel: an aborted or failed render
// leaves partial pages but no index. Given identical input and a fixed
// clock the output is byte-identical across runs.
package rst

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
	"github.com/drivescope/drivescope-cli/internal/core/ports/driven"
	"github.com/drivescope/drivescope-cli/internal/logger"
)

// Ensure Renderer implements the driven port.
var _ driven.Renderer = (*Renderer)(nil)

// banner marks every generated page.
const banner = ".. Generated by drivescope. Edits will be lost!\n\n"

// underlines are the section underline characters by folder depth,
// document title first. Depths beyond the list reuse the last character.
var underlines = []byte{'=', '-', '~', '+', '.', ','}

// Renderer writes rst report pages.
type Renderer struct {
	// now supplies the index timestamp; injectable for reproducible
	// output in tests.
	now func() time.Time
}

// NewRenderer creates a renderer using the wall clock.
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// NewRendererWithClock creates a renderer with a fixed clock.
func NewRendererWithClock(now func() time.Time) *Renderer {
	return &Renderer{now: now}
}

// page is one folder page scheduled for writing.
type page struct {
	node *domain.Node
	// rel is the page path relative to the output dir, without the
	// .rst extension ("Root", "Root/Sub", ...).
	rel string
	// title is the human path ("Root / Sub").
	title string
	depth int
	// childRels are the rels of child folder pages, for the toctree.
	childRels []string
}

// Render writes the report and returns the number of pages written.
// Any filesystem failure maps to domain.ErrWriteFailed and is fatal.
func (r *Renderer) Render(tree *domain.Tree, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, writeFailed(outDir, err)
	}

	pages := collectPages(tree)

	written := 0
	for _, p := range pages {
		target := filepath.Join(outDir, filepath.FromSlash(p.rel)+".rst")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, writeFailed(filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, []byte(folderPage(p)), 0o644); err != nil {
			return written, writeFailed(target, err)
		}
		written++
		logger.Debug("wrote %s", target)
	}

	allFiles := filepath.Join(outDir, "all_files.rst")
	if err := os.WriteFile(allFiles, []byte(allFilesPage(tree)), 0o644); err != nil {
		return written, writeFailed(allFiles, err)
	}
	written++

	// The sentinel: written only after everything else succeeded.
	index := filepath.Join(outDir, "index.rst")
	rootRel := ""
	if len(pages) > 0 {
		rootRel = pages[0].rel
	}
	if err := os.WriteFile(index, []byte(r.indexPage(tree, rootRel)), 0o644); err != nil {
		return written, writeFailed(index, err)
	}
	written++

	return written, nil
}

func writeFailed(target string, err error) error {
	return fmt.Errorf("%s: %v: %w", target, err, domain.ErrWriteFailed)
}

// reservedPages are top-level page names the renderer writes itself. A
// root folder slug must never claim them, or the sentinel index would
// overwrite the folder's page. Compared case-insensitively so the report
// stays intact on case-insensitive filesystems.
var reservedPages = map[string]bool{"index": true, "all_files": true}

// collectPages assigns every accessible folder node a page path. Sibling
// slug collisions are disambiguated with an ID suffix, as is a root slug
// matching a reserved page name; the assignment is deterministic because
// children are already in normalised order.
func collectPages(tree *domain.Tree) []*page {
	var pages []*page
	if tree == nil || tree.Root == nil || tree.Root.Skipped || !tree.Root.IsFolder() {
		return pages
	}

	var descend func(n *domain.Node, slug, relDir, titlePrefix string, depth int) *page
	descend = func(n *domain.Node, slug, relDir, titlePrefix string, depth int) *page {
		rel := slug
		if relDir != "" {
			rel = relDir + "/" + slug
		}
		title := n.Item.Name
		if titlePrefix != "" {
			title = titlePrefix + " / " + n.Item.Name
		}

		p := &page{node: n, rel: rel, title: title, depth: depth}
		pages = append(pages, p)

		used := map[string]bool{}
		for _, c := range n.Children {
			if !c.IsFolder() || c.Skipped || c.Truncated {
				continue
			}
			childSlug := slugify(c.Item.Name)
			if used[childSlug] {
				childSlug = childSlug + "-" + idSuffix(c.Item.ID)
			} else {
				used[childSlug] = true
			}

			child := descend(c, childSlug, rel, title, depth+1)
			p.childRels = append(p.childRels, child.rel)
		}
		return p
	}

	rootSlug := slugify(tree.Root.Item.Name)
	if reservedPages[strings.ToLower(rootSlug)] {
		rootSlug = rootSlug + "-" + idSuffix(tree.Root.Item.ID)
	}
	descend(tree.Root, rootSlug, "", "", 0)
	return pages
}

// idSuffix shortens an item ID to the disambiguation suffix.
func idSuffix(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// slugify converts an item name to a filesystem- and Sphinx-safe path
// segment. The mapping is deterministic; empty results become "untitled".
func slugify(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "untitled"
	}
	return out
}

func underline(depth int) byte {
	if depth >= len(underlines) {
		return underlines[len(underlines)-1]
	}
	return underlines[depth]
}

// folderPage renders one folder's page: heading, path link, permission
// table, contents table, and a hidden toctree to subfolder pages.
func folderPage(p *page) string {
	var b strings.Builder
	b.WriteString(banner)

	ul := underline(p.depth)
	b.WriteString(p.title + "\n")
	b.WriteString(strings.Repeat(string(ul), len([]rune(p.title))) + "\n\n")

	if p.node.Item.WebLink != "" {
		fmt.Fprintf(&b, ":Path: `%s <%s>`_\n\n", p.title, p.node.Item.WebLink)
	} else {
		fmt.Fprintf(&b, ":Path: %s\n\n", p.title)
	}

	b.WriteString("**Permissions**\n\n")
	b.WriteString(".. list-table::\n   :header-rows: 1\n   :widths: 15 45 40\n\n")
	b.WriteString("   * - Role\n     - Name\n     - Email\n")
	for _, perm := range p.node.Permissions {
		fmt.Fprintf(&b, "   * - %s\n     - %s\n     - %s\n",
			perm.Role, perm.Label(), perm.EmailOrPlaceholder())
	}
	b.WriteString("\n")

	b.WriteString("**Folder Contents**\n\n")
	b.WriteString(".. list-table::\n   :header-rows: 1\n   :widths: 15 85\n\n")
	b.WriteString("   * - Kind\n     - Name\n")
	if len(p.node.Children) == 0 {
		b.WriteString("   * - No files.\n     - .\n")
	}
	for _, c := range p.node.Children {
		name := c.Item.Name
		if c.Item.WebLink != "" {
			name = fmt.Sprintf("`%s <%s>`_", c.Item.Name, c.Item.WebLink)
		}
		if c.Skipped {
			name += " (inaccessible)"
		}
		fmt.Fprintf(&b, "   * - %s\n     - %s\n", c.Item.KindLabel(), name)
	}
	b.WriteString("\n")

	if len(p.childRels) > 0 {
		b.WriteString(".. toctree::\n   :hidden:\n\n")
		dir := path.Dir(p.rel)
		for _, rel := range p.childRels {
			entry := rel
			if dir != "." {
				entry = strings.TrimPrefix(rel, dir+"/")
			}
			b.WriteString("   " + entry + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// allFilesPage renders the flat index of every item by full path, files in
// bold as in the per-folder report convention.
func allFilesPage(tree *domain.Tree) string {
	var b strings.Builder
	b.WriteString(banner)
	b.WriteString("All Items\n=========\n\n")
	b.WriteString(".. list-table::\n   :header-rows: 1\n   :widths: 15 85\n\n")
	b.WriteString("   * - Kind\n     - Path\n")

	count := 0
	tree.Walk(func(ancestors []string, n *domain.Node) {
		if n.Skipped {
			return
		}
		name := strings.Join(append(append([]string{}, ancestors...), n.Item.Name), " / ")
		if !n.IsFolder() {
			name = strings.Join(ancestors, " / ") + " / **" + n.Item.Name + "**"
			if len(ancestors) == 0 {
				name = "**" + n.Item.Name + "**"
			}
		}
		fmt.Fprintf(&b, "   * - %s\n     - %s\n", n.Item.KindLabel(), name)
		count++
	})
	if count == 0 {
		b.WriteString("   * - No items.\n     - .\n")
	}
	b.WriteString("\n")
	return b.String()
}

// indexPage renders the report index: summary fields, the toctree, and the
// audit of skipped subtrees. It carries the only timestamp in the report so
// content pages stay reproducible.
func (r *Renderer) indexPage(tree *domain.Tree, rootRel string) string {
	stats := tree.Stats()
	skipped := tree.SkippedNodes()

	var b strings.Builder
	b.WriteString(banner)
	b.WriteString("Drive Permission Audit\n======================\n\n")

	if tree.Root != nil {
		root := tree.Root.Item
		if root.WebLink != "" {
			fmt.Fprintf(&b, ":Root: `%s <%s>`_\n", root.Name, root.WebLink)
		} else {
			fmt.Fprintf(&b, ":Root: %s\n", root.Name)
		}
	}
	fmt.Fprintf(&b, ":Generated: %s\n", r.now().UTC().Format("2006-01-02T15:04:05+00"))
	fmt.Fprintf(&b, ":Folders: %d\n", stats.Folders)
	fmt.Fprintf(&b, ":Files: %d\n", stats.Files)
	fmt.Fprintf(&b, ":Skipped: %d\n\n", stats.Skipped)

	b.WriteString(".. toctree::\n   :maxdepth: 2\n\n")
	if rootRel != "" {
		b.WriteString("   " + rootRel + "\n")
	}
	b.WriteString("   all_files\n\n")

	b.WriteString("Skipped Subtrees\n----------------\n\n")
	if len(skipped) == 0 {
		b.WriteString("None.\n")
		return b.String()
	}
	b.WriteString(".. list-table::\n   :header-rows: 1\n   :widths: 40 60\n\n")
	b.WriteString("   * - Path\n     - Reason\n")
	for _, s := range skipped {
		fmt.Fprintf(&b, "   * - %s\n     - %s\n", s.Path, s.Reason)
	}
	b.WriteString("\n")
	return b.String()
}
