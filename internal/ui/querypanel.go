package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/willibrandon/looseleaf/internal/protocol"
	"github.com/willibrandon/looseleaf/internal/provider"
	"github.com/willibrandon/looseleaf/internal/ui/components"
	"github.com/willibrandon/looseleaf/internal/ui/styles"
)

// QueryPanel is the query/command panel bound to one live connection. Its
// client handle belongs to the session registry; the panel only remembers
// which alias it serves.
type QueryPanel struct {
	alias string
	kind  provider.Kind

	input      textarea.Model
	resultText string
	errText    string
	statusLine string
	running    bool

	width  int
	height int
}

// NewQueryPanel creates a query panel for the given connection. An initial
// query, typically from an opened bookmark, prefills the input.
func NewQueryPanel(alias string, kind provider.Kind, initialQuery string) *QueryPanel {
	input := textarea.New()
	if kind == provider.KindRedis {
		input.Placeholder = `Redis command, e.g. GET "my key"`
	} else {
		input.Placeholder = "SQL, e.g. SELECT * FROM users"
	}
	input.SetValue(initialQuery)
	input.Focus()

	return &QueryPanel{
		alias: alias,
		kind:  kind,
		input: input,
	}
}

// Alias returns the connection alias this panel serves.
func (p *QueryPanel) Alias() string {
	return p.alias
}

// SetSize sets the panel dimensions.
func (p *QueryPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.SetWidth(width - 4)
	inputHeight := 5
	if height < 12 {
		inputHeight = 3
	}
	p.input.SetHeight(inputHeight)
}

// SetRunning marks a query as in flight.
func (p *QueryPanel) SetRunning(running bool) {
	p.running = running
}

// SetResult displays a successful execution result.
func (p *QueryPanel) SetResult(result *provider.Result, elapsed time.Duration) {
	p.running = false
	p.errText = ""

	if result == nil {
		// Empty command text is a no-op, not an error.
		p.resultText = ""
		p.statusLine = ""
		return
	}

	if p.kind == provider.KindRedis {
		p.resultText = components.RenderReply(result.Reply)
		p.statusLine = fmt.Sprintf("completed in %s", elapsed.Round(time.Millisecond))
		return
	}

	p.resultText = components.RenderResults(result.Columns, result.Rows, p.width-4)
	p.statusLine = fmt.Sprintf(
		"%s rows in %s",
		humanize.Comma(int64(len(result.Rows))),
		elapsed.Round(time.Millisecond),
	)
}

// SetError displays an execution error. The session stays active; the
// connection itself may still be healthy.
func (p *QueryPanel) SetError(err error) {
	p.running = false
	p.errText = err.Error()
	p.statusLine = ""
}

// Update handles input for the query panel. Run and bookmark requests
// surface as RunQueryMsg/BookmarkQueryMsg for the core to handle.
func (p *QueryPanel) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+r":
			if p.running {
				return nil
			}
			return p.runCmd()
		case "ctrl+b":
			save := protocol.NewSaveQuery(p.input.Value())
			alias := p.alias
			return func() tea.Msg { return BookmarkQueryMsg{Alias: alias, Msg: save} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *QueryPanel) runCmd() tea.Cmd {
	alias := p.alias
	text := p.input.Value()
	if p.kind == provider.KindRedis {
		cmd := protocol.NewExecuteRedisCommand(text)
		return func() tea.Msg { return RunQueryMsg{Alias: alias, RedisCommand: &cmd} }
	}
	query := protocol.NewExecuteQuery(text)
	return func() tea.Msg { return RunQueryMsg{Alias: alias, SQL: &query} }
}

// View renders the query panel.
func (p *QueryPanel) View() string {
	title := styles.PanelTitleStyle.Render("Query: " + p.alias)

	var body string
	switch {
	case p.running:
		body = styles.StatusBarStyle.Render("running…")
	case p.errText != "":
		body = styles.ErrorStyle.Render(p.errText)
	default:
		body = p.resultText
	}

	footer := styles.StatusBarStyle.Render("ctrl+r: run  ctrl+b: bookmark  esc: close")
	if p.statusLine != "" {
		footer = styles.SuccessStyle.Render(p.statusLine) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		p.input.View(),
		"",
		body,
		"",
		footer,
	)
}
