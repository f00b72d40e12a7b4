package styles

import "github.com/charmbracelet/lipgloss"

// Common border styles
var (
	BorderNormal  = lipgloss.NormalBorder()
	BorderRounded = lipgloss.RoundedBorder()
)

// Panel styles
var (
	// PanelStyle is the base style for bordered panels
	PanelStyle = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// PanelFocusedStyle marks the panel that owns keyboard input
	PanelFocusedStyle = lipgloss.NewStyle().
				Border(BorderRounded).
				BorderForeground(ColorAccent).
				Padding(0, 1)

	// PanelTitleStyle is for panel titles
	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// Sidebar styles
var (
	// SidebarCursorStyle highlights the cursor row in the tree
	SidebarCursorStyle = lipgloss.NewStyle().
				Foreground(ColorSelectedFg).
				Background(ColorSelectedBg)

	// SidebarActiveStyle marks connections with a live session
	SidebarActiveStyle = lipgloss.NewStyle().
				Foreground(ColorActive)
)

// Table styles
var (
	// TableHeaderStyle is for result table column headers
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	// TableCellStyle is for result table cells
	TableCellStyle = lipgloss.NewStyle()
)

// Form styles
var (
	// FormLabelStyle is for form field labels
	FormLabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// FormLabelFocusedStyle is for the focused field's label
	FormLabelFocusedStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)

// Message styles
var (
	// SuccessStyle is for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)
)

// Status bar styles
var (
	// StatusBarStyle wraps the status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StatusTitleStyle is for the application name
	StatusTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)
