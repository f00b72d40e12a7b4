package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/looseleaf/internal/protocol"
	"github.com/willibrandon/looseleaf/internal/provider"
	"github.com/willibrandon/looseleaf/internal/ui/styles"
)

// Form field indexes. The dbType toggle sits before the text inputs.
const (
	fieldDBType = iota
	fieldAlias
	fieldHost
	fieldPort
	fieldUser
	fieldPassword
	fieldDatabase
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Type", "Alias", "Host", "Port", "User", "Password", "Database",
}

// ConnectionForm is the add/edit connection panel. It collects profile
// settings and emits test/save messages carrying the wire protocol payloads.
type ConnectionForm struct {
	inputs        [fieldCount]textinput.Model // fieldDBType slot unused
	dbType        provider.Kind
	originalAlias string
	focusIndex    int

	resultMsg string
	resultErr bool

	width int
}

// NewConnectionForm creates an empty connection form.
func NewConnectionForm() *ConnectionForm {
	f := &ConnectionForm{dbType: provider.KindPostgres}

	for i := fieldAlias; i < fieldCount; i++ {
		input := textinput.New()
		input.CharLimit = 255
		f.inputs[i] = input
	}
	f.inputs[fieldAlias].Placeholder = "optional, defaults to user@host"
	f.inputs[fieldHost].Placeholder = "localhost"
	f.inputs[fieldPort].Placeholder = "5432"
	f.inputs[fieldPort].CharLimit = 5
	f.inputs[fieldPassword].EchoMode = textinput.EchoPassword

	f.focusIndex = fieldAlias
	f.inputs[fieldAlias].Focus()
	return f
}

// SetProfile prefills the form for editing an existing profile.
func (f *ConnectionForm) SetProfile(p provider.Profile) {
	f.originalAlias = p.Alias
	f.dbType = p.DBType
	f.inputs[fieldAlias].SetValue(p.Alias)
	f.inputs[fieldHost].SetValue(p.Host)
	f.inputs[fieldPort].SetValue(strconv.Itoa(p.Port))
	f.inputs[fieldUser].SetValue(p.User)
	f.inputs[fieldPassword].SetValue(p.Password)
	f.inputs[fieldDatabase].SetValue(p.Database)
	f.applyKindPlaceholders()
}

// IsEdit reports whether the form edits an existing profile.
func (f *ConnectionForm) IsEdit() bool {
	return f.originalAlias != ""
}

// SetResult displays an inline result message under the buttons.
func (f *ConnectionForm) SetResult(message string, isError bool) {
	f.resultMsg = message
	f.resultErr = isError
}

// SetSize sets the form width.
func (f *ConnectionForm) SetSize(width int) {
	f.width = width
}

// Data assembles the wire payload from the current field values.
func (f *ConnectionForm) Data() protocol.ConnectionData {
	port, err := strconv.Atoi(strings.TrimSpace(f.inputs[fieldPort].Value()))
	if err != nil || port <= 0 {
		if f.dbType == provider.KindRedis {
			port = 6379
		} else {
			port = 5432
		}
	}
	return protocol.ConnectionData{
		Alias:    strings.TrimSpace(f.inputs[fieldAlias].Value()),
		DBType:   string(f.dbType),
		Host:     strings.TrimSpace(f.inputs[fieldHost].Value()),
		Port:     port,
		User:     strings.TrimSpace(f.inputs[fieldUser].Value()),
		Password: f.inputs[fieldPassword].Value(),
		Database: strings.TrimSpace(f.inputs[fieldDatabase].Value()),
	}
}

// Update handles input for the form. Test and save requests surface as
// FormTestMsg/FormSaveMsg commands for the core to handle.
func (f *ConnectionForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "tab", "down", "enter":
		f.focusIndex = (f.focusIndex + 1) % fieldCount
		f.updateFocus()
		return nil
	case "shift+tab", "up":
		f.focusIndex = (f.focusIndex - 1 + fieldCount) % fieldCount
		f.updateFocus()
		return nil
	case "ctrl+t":
		test := protocol.NewTestConnection(f.Data())
		return func() tea.Msg { return FormTestMsg{Msg: test} }
	case "ctrl+s":
		save := protocol.NewSaveConnection(f.originalAlias, f.Data())
		return func() tea.Msg { return FormSaveMsg{Msg: save} }
	case " ", "left", "right":
		if f.focusIndex == fieldDBType {
			f.toggleKind()
			return nil
		}
	}

	return f.updateFocused(msg)
}

func (f *ConnectionForm) toggleKind() {
	if f.dbType == provider.KindPostgres {
		f.dbType = provider.KindRedis
	} else {
		f.dbType = provider.KindPostgres
	}
	f.applyKindPlaceholders()
}

func (f *ConnectionForm) applyKindPlaceholders() {
	if f.dbType == provider.KindRedis {
		f.inputs[fieldPort].Placeholder = "6379"
		f.inputs[fieldAlias].Placeholder = "optional, defaults to host:port"
	} else {
		f.inputs[fieldPort].Placeholder = "5432"
		f.inputs[fieldAlias].Placeholder = "optional, defaults to user@host"
	}
}

func (f *ConnectionForm) updateFocus() {
	for i := fieldAlias; i < fieldCount; i++ {
		if i == f.focusIndex {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *ConnectionForm) updateFocused(msg tea.Msg) tea.Cmd {
	if f.focusIndex == fieldDBType {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focusIndex], cmd = f.inputs[f.focusIndex].Update(msg)
	return cmd
}

// View renders the form panel.
func (f *ConnectionForm) View() string {
	title := "Add Connection"
	if f.IsEdit() {
		title = "Edit Connection: " + f.originalAlias
	}

	var rows []string
	rows = append(rows, styles.PanelTitleStyle.Render(title), "")

	// dbType toggle row
	rows = append(rows, f.renderLabel(fieldDBType)+f.dbType.DisplayName()+
		styles.StatusBarStyle.Render("  (space to toggle)"))

	for i := fieldAlias; i < fieldCount; i++ {
		if f.dbType == provider.KindRedis && (i == fieldUser || i == fieldDatabase) {
			continue
		}
		rows = append(rows, f.renderLabel(i)+f.inputs[i].View())
	}

	rows = append(rows, "",
		styles.StatusBarStyle.Render("ctrl+t: test  ctrl+s: save  esc: close"))

	if f.resultMsg != "" {
		style := styles.SuccessStyle
		if f.resultErr {
			style = styles.ErrorStyle
		}
		rows = append(rows, "", style.Render(f.resultMsg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (f *ConnectionForm) renderLabel(field int) string {
	label := fieldLabels[field]
	style := styles.FormLabelStyle
	if field == f.focusIndex {
		style = styles.FormLabelFocusedStyle
	}
	return style.Render(label) + strings.Repeat(" ", 10-len(label))
}
