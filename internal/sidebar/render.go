package sidebar

import (
	"strings"

	"github.com/xlab/treeprint"

	"github.com/willibrandon/looseleaf/internal/ui/styles"
)

// Render renders the tree as text with the cursor row highlighted. The
// cursor indexes into Flatten order; -1 disables highlighting. Line 0 of
// the output is the synthetic "Connections" root, so flattened node i sits
// on line i+1.
func Render(nodes []Node, cursor int) string {
	tree := treeprint.New()
	tree.SetValue("Connections")
	for _, n := range nodes {
		addNode(tree, n)
	}

	lines := strings.Split(strings.TrimRight(tree.String(), "\n"), "\n")
	for i := range lines {
		if i == cursor+1 {
			lines[i] = styles.SidebarCursorStyle.Render(lines[i])
		}
	}
	return strings.Join(lines, "\n")
}

func addNode(branch treeprint.Tree, n Node) {
	label := n.Label
	if n.Kind == NodeConnection && n.Active {
		label = styles.SidebarActiveStyle.Render(label + " *")
	}

	if len(n.Children) > 0 || n.Kind == NodeFolder {
		sub := branch.AddBranch(label)
		for _, child := range n.Children {
			addNode(sub, child)
		}
		return
	}
	branch.AddNode(label)
}

// CountLines reports the rendered line count, used to size the sidebar
// viewport.
func CountLines(nodes []Node) int {
	return len(Flatten(nodes)) + 1
}
