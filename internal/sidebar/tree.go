// Package sidebar derives the connections tree from store and session
// snapshots. Derivation is a pure function; the tree is recomputed in full
// on every change signal, which is fine at the expected scale of a handful
// of connections.
package sidebar

import (
	"github.com/willibrandon/looseleaf/internal/provider"
	"github.com/willibrandon/looseleaf/internal/store"
)

// NodeKind identifies what a tree node represents.
type NodeKind int

const (
	NodeConnection NodeKind = iota
	NodeFolder
	NodeTable
	NodeBookmark
)

// Node is one renderable tree entry. Alias names the owning connection;
// BookmarkID is set only on bookmark leaves so actions can dispatch on it.
type Node struct {
	Kind       NodeKind
	Label      string
	Alias      string
	BookmarkID string
	Active     bool
	Children   []Node
}

// Build derives the tree: one root node per profile, labeled with its alias
// and backend display name; active connections expand into Tables and
// Bookmarks folders. Key-value connections have an empty Tables folder
// since they expose no enumerable metadata.
func Build(
	profiles []provider.Profile,
	active map[string]provider.Metadata,
	bookmarksFor func(alias string) []store.Bookmark,
) []Node {
	nodes := make([]Node, 0, len(profiles))
	for _, p := range profiles {
		node := Node{
			Kind:  NodeConnection,
			Label: p.Alias + " (" + p.DBType.DisplayName() + ")",
			Alias: p.Alias,
		}

		metadata, isActive := active[p.Alias]
		if isActive {
			node.Active = true
			node.Children = []Node{
				tablesFolder(p.Alias, metadata),
				bookmarksFolder(p.Alias, bookmarksFor(p.Alias)),
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func tablesFolder(alias string, metadata provider.Metadata) Node {
	folder := Node{Kind: NodeFolder, Label: "Tables", Alias: alias}
	for _, table := range metadata.Tables {
		folder.Children = append(folder.Children, Node{
			Kind:  NodeTable,
			Label: table,
			Alias: alias,
		})
	}
	return folder
}

func bookmarksFolder(alias string, bookmarks []store.Bookmark) Node {
	folder := Node{Kind: NodeFolder, Label: "Bookmarks", Alias: alias}
	for _, b := range bookmarks {
		folder.Children = append(folder.Children, Node{
			Kind:       NodeBookmark,
			Label:      b.Name,
			Alias:      alias,
			BookmarkID: b.ID,
		})
	}
	return folder
}

// Flatten returns the nodes in render order for cursor navigation.
func Flatten(nodes []Node) []Node {
	var flat []Node
	for _, n := range nodes {
		flat = append(flat, n)
		flat = append(flat, Flatten(n.Children)...)
	}
	return flat
}
