package domain

import (
	"sort"
	"strings"
)

// Node is one item in a collected tree, annotated with its permissions.
type Node struct {
	// Item is the Drive item this node represents.
	Item Item

	// Permissions are the item's access grants, sorted for rendering.
	Permissions []Permission

	// Children are the folder's direct children. Empty for files and
	// for skipped or truncated folders.
	Children []*Node

	// Skipped marks a node whose subtree could not be read. The node is
	// still listed on its parent's page, but no page exists for it or
	// its descendants.
	Skipped bool

	// SkipReason records why the subtree was skipped.
	SkipReason string

	// Truncated marks a folder that was not descended into because the
	// walk reached its depth limit.
	Truncated bool
}

// IsFolder reports whether the node's item is a folder.
func (n *Node) IsFolder() bool {
	return n.Item.IsFolder()
}

// AddChild appends a child node. Sibling order is normalised by
// SortChildren before the tree is handed to a renderer.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// SortChildren orders direct children folders-first, then by name
// (case-insensitive), then by ID as the final tiebreak. The ordering is
// stable and total, which keeps rendered output byte-identical across runs
// on identical input.
func (n *Node) SortChildren() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		an, bn := strings.ToLower(a.Item.Name), strings.ToLower(b.Item.Name)
		if an != bn {
			return an < bn
		}
		return a.Item.ID < b.Item.ID
	})
}

// Tree is the folder hierarchy produced by one walk. Every non-root node
// has exactly one parent already present in the tree; Drive folder
// hierarchies are assumed acyclic.
type Tree struct {
	Root *Node
}

// Walk visits every node in depth-first pre-order using the normalised
// sibling order. The path holds the names of the node's ancestors from the
// root down, excluding the node itself.
func (t *Tree) Walk(visit func(path []string, n *Node)) {
	if t == nil || t.Root == nil {
		return
	}
	walkNode(nil, t.Root, visit)
}

func walkNode(path []string, n *Node, visit func(path []string, n *Node)) {
	visit(path, n)
	childPath := make([]string, len(path)+1)
	copy(childPath, path)
	childPath[len(path)] = n.Item.Name
	for _, c := range n.Children {
		walkNode(childPath, c, visit)
	}
}

// TreeStats summarises one collected tree.
type TreeStats struct {
	Folders int
	Files   int
	Skipped int
}

// Stats counts folders, files and skipped nodes in the tree.
func (t *Tree) Stats() TreeStats {
	var s TreeStats
	t.Walk(func(_ []string, n *Node) {
		if n.Skipped {
			s.Skipped++
			return
		}
		if n.IsFolder() {
			s.Folders++
		} else {
			s.Files++
		}
	})
	return s
}

// SkippedNode pairs a skipped node with its full path, for the audit
// summary and the run record.
type SkippedNode struct {
	Item   Item
	Path   string
	Reason string
}

// SkippedNodes returns every skipped node with its slash-separated path,
// in tree order.
func (t *Tree) SkippedNodes() []SkippedNode {
	var out []SkippedNode
	t.Walk(func(path []string, n *Node) {
		if !n.Skipped {
			return
		}
		full := append(append([]string{}, path...), n.Item.Name)
		out = append(out, SkippedNode{
			Item:   n.Item,
			Path:   strings.Join(full, " / "),
			Reason: n.SkipReason,
		})
	})
	return out
}
