// Package components provides reusable UI components for looseleaf.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/looseleaf/internal/ui/styles"
)

// StatusBar renders the bottom status line: app name, transient message,
// active session count, and clock.
type StatusBar struct {
	width int

	message    string
	messageErr bool
	timestamp  time.Time
	active     int
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetSize sets the width of the status bar
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetMessage sets the transient status message. Error messages render in
// the error color.
func (s *StatusBar) SetMessage(message string, isError bool) {
	s.message = message
	s.messageErr = isError
}

// ClearMessage clears the transient status message.
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.messageErr = false
}

// SetTimestamp sets the clock display.
func (s *StatusBar) SetTimestamp(timestamp time.Time) {
	s.timestamp = timestamp
}

// SetActiveSessions sets the live session count.
func (s *StatusBar) SetActiveSessions(count int) {
	s.active = count
}

// View renders the status bar.
func (s *StatusBar) View() string {
	title := styles.StatusTitleStyle.Render("looseleaf")

	var message string
	if s.message != "" {
		if s.messageErr {
			message = styles.ErrorStyle.Render(s.message)
		} else {
			message = styles.SuccessStyle.Render(s.message)
		}
	}

	right := styles.StatusBarStyle.Render(fmt.Sprintf(
		"%d active | %s",
		s.active,
		s.timestamp.Format("15:04:05"),
	))

	left := title
	if message != "" {
		left = lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", message)
	}

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}
