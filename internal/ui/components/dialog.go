package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/looseleaf/internal/ui/styles"
)

// DialogAction identifies what a confirmation dialog will do.
type DialogAction int

const (
	DialogDeleteConnection DialogAction = iota
	DialogDeleteBookmark
)

// ConfirmDialog is a confirmation prompt for destructive actions.
type ConfirmDialog struct {
	width  int
	height int

	action     DialogAction
	target     string // alias or bookmark name, for display
	alias      string
	bookmarkID string
	visible    bool
}

// NewConfirmDialog creates a new confirmation dialog.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{}
}

// ShowDeleteConnection displays the dialog for deleting a connection.
func (d *ConfirmDialog) ShowDeleteConnection(alias string) {
	d.action = DialogDeleteConnection
	d.target = alias
	d.alias = alias
	d.bookmarkID = ""
	d.visible = true
}

// ShowDeleteBookmark displays the dialog for deleting a bookmark.
func (d *ConfirmDialog) ShowDeleteBookmark(alias, bookmarkID, name string) {
	d.action = DialogDeleteBookmark
	d.target = name
	d.alias = alias
	d.bookmarkID = bookmarkID
	d.visible = true
}

// Hide hides the dialog.
func (d *ConfirmDialog) Hide() {
	d.visible = false
}

// IsVisible returns whether the dialog is visible.
func (d *ConfirmDialog) IsVisible() bool {
	return d.visible
}

// Action returns the pending action.
func (d *ConfirmDialog) Action() DialogAction {
	return d.action
}

// Alias returns the connection alias being acted upon.
func (d *ConfirmDialog) Alias() string {
	return d.alias
}

// BookmarkID returns the bookmark ID being acted upon, if any.
func (d *ConfirmDialog) BookmarkID() string {
	return d.bookmarkID
}

// SetSize sets the dialog dimensions.
func (d *ConfirmDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the confirmation dialog centered in its area.
func (d *ConfirmDialog) View() string {
	if !d.visible {
		return ""
	}

	var title, warning string
	switch d.action {
	case DialogDeleteConnection:
		title = "Delete Connection"
		warning = fmt.Sprintf("This will delete %q and its bookmarks.", d.target)
	case DialogDeleteBookmark:
		title = "Delete Bookmark"
		warning = fmt.Sprintf("This will delete the bookmark %q.", d.target)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.PanelTitleStyle.Render(title),
		"",
		warning,
		"",
		styles.StatusBarStyle.Render("y: confirm  n/esc: cancel"),
	)

	box := lipgloss.NewStyle().
		Border(styles.BorderRounded).
		BorderForeground(styles.ColorWarning).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}
