// Package app wires the stores, session registry, and providers to the
// Bubbletea panel UI. It owns the connect/disconnect/delete/bookmark flows
// and the panel lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/looseleaf/internal/config"
	"github.com/willibrandon/looseleaf/internal/logger"
	"github.com/willibrandon/looseleaf/internal/protocol"
	"github.com/willibrandon/looseleaf/internal/provider"
	"github.com/willibrandon/looseleaf/internal/session"
	"github.com/willibrandon/looseleaf/internal/sidebar"
	"github.com/willibrandon/looseleaf/internal/storage/sqlite"
	"github.com/willibrandon/looseleaf/internal/store"
	"github.com/willibrandon/looseleaf/internal/ui"
	"github.com/willibrandon/looseleaf/internal/ui/components"
	"github.com/willibrandon/looseleaf/internal/ui/styles"
)

const sidebarWidth = 36

// promptKind identifies what the inline text prompt is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptBookmarkName
	promptRenameBookmark
)

// Model is the main Bubbletea application model.
type Model struct {
	config    *config.Config
	registry  *provider.Registry
	sessions  *session.Registry
	profiles  *store.ProfileStore
	bookmarks *store.BookmarkStore
	db        *sqlite.DB

	keys      ui.KeyMap
	statusBar *components.StatusBar
	dialog    *components.ConfirmDialog

	// Panels. At most one of form/query is open; nil means closed.
	form  *ui.ConnectionForm
	query *ui.QueryPanel

	// Sidebar state, re-derived on every change signal.
	nodes  []sidebar.Node
	flat   []sidebar.Node
	cursor int

	// Inline prompt for bookmark names.
	prompt        promptKind
	promptInput   textinput.Model
	pendingAlias  string
	pendingQuery  string
	pendingTarget string // bookmark ID being renamed

	changeCh chan struct{}

	width    int
	height   int
	quitting bool
}

// New creates the application model. The provider registry is constructed
// by the caller and injected here.
func New(cfg *config.Config, registry *provider.Registry) (*Model, error) {
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	sessions := session.NewRegistry()
	changeCh := make(chan struct{}, 1)
	sessions.Subscribe(func() {
		select {
		case changeCh <- struct{}{}:
		default:
			// A signal is already pending; listeners re-pull full
			// state, so coalescing is safe.
		}
	})

	promptInput := textinput.New()
	promptInput.CharLimit = 100

	m := &Model{
		config:      cfg,
		registry:    registry,
		sessions:    sessions,
		profiles:    store.NewProfileStore(db),
		bookmarks:   store.NewBookmarkStore(db),
		db:          db,
		keys:        ui.DefaultKeyMap(),
		statusBar:   components.NewStatusBar(),
		dialog:      components.NewConfirmDialog(),
		promptInput: promptInput,
		changeCh:    changeCh,
	}
	m.rebuildTree()
	return m, nil
}

// Init initializes the application.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		waitForChange(m.changeCh),
		tickStatusBar(),
	)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.SetSize(msg.Width)
		m.dialog.SetSize(msg.Width, msg.Height)
		if m.form != nil {
			m.form.SetSize(msg.Width - sidebarWidth - 4)
		}
		if m.query != nil {
			m.query.SetSize(msg.Width-sidebarWidth-4, msg.Height-3)
		}
		return m, nil

	case ChangeSignalMsg:
		m.rebuildTree()
		return m, waitForChange(m.changeCh)

	case StatusBarTickMsg:
		m.statusBar.SetTimestamp(msg.Timestamp)
		return m, tickStatusBar()

	case ConnectedMsg:
		return m.handleConnected(msg)

	case ConnectFailedMsg:
		m.sessions.EndConnecting(msg.Alias)
		logger.Warn("Connect failed", "alias", msg.Alias, "error", msg.Err)
		m.statusBar.SetMessage(FormatConnectionError(msg.Alias, msg.Err), true)
		return m, nil

	case DisconnectedMsg:
		m.statusBar.SetMessage(fmt.Sprintf("Disconnected from %s", msg.Alias), false)
		return m, nil

	case QueryFinishedMsg:
		// The result of a query whose panel has since closed is dropped.
		if m.query == nil || m.query.Alias() != msg.Alias {
			return m, nil
		}
		if msg.Err != nil {
			m.query.SetError(msg.Err)
		} else {
			m.query.SetResult(msg.Result, msg.Elapsed)
		}
		return m, nil

	case TestFinishedMsg:
		if m.form != nil {
			if msg.Result.Success {
				m.form.SetResult("Connection successful!", false)
			} else {
				m.form.SetResult("Connection failed: "+msg.Result.Error, true)
			}
		}
		return m, nil

	case ui.FormTestMsg:
		if m.form == nil {
			return m, nil
		}
		p := profileFromData("", msg.Msg.Data)
		m.form.SetResult("Testing…", false)
		return m, testConnectionCmd(m.registry.Resolve(p.DBType), p)

	case ui.FormSaveMsg:
		return m.handleSaveConnection(msg)

	case ui.RunQueryMsg:
		return m.handleRunQuery(msg)

	case ui.BookmarkQueryMsg:
		m.prompt = promptBookmarkName
		m.pendingAlias = msg.Alias
		m.pendingQuery = msg.Msg.Query
		m.promptInput.SetValue("")
		m.promptInput.Placeholder = "bookmark name"
		m.promptInput.Focus()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.dialog.IsVisible() {
		return m.handleDialogKey(msg)
	}

	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	if m.form != nil {
		if key.Matches(msg, m.keys.ClosePanel) {
			m.form = nil
			return m, nil
		}
		return m, m.form.Update(msg)
	}

	if m.query != nil {
		if key.Matches(msg, m.keys.ClosePanel) {
			// Panel close releases the client unless an explicit
			// disconnect already did.
			cmd := m.closeSession(m.query.Alias())
			m.query = nil
			return m, cmd
		}
		return m, m.query.Update(msg)
	}

	return m.handleSidebarKey(msg)
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.flat)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.AddConnection):
		m.form = ui.NewConnectionForm()
		m.form.SetSize(m.width - sidebarWidth - 4)
	case key.Matches(msg, m.keys.EditConnection):
		if node, ok := m.cursorNode(); ok && node.Kind == sidebar.NodeConnection {
			return m, m.openEditForm(node.Alias)
		}
	case key.Matches(msg, m.keys.Delete):
		if node, ok := m.cursorNode(); ok {
			switch node.Kind {
			case sidebar.NodeConnection:
				m.dialog.ShowDeleteConnection(node.Alias)
			case sidebar.NodeBookmark:
				m.dialog.ShowDeleteBookmark(node.Alias, node.BookmarkID, node.Label)
			}
		}
	case key.Matches(msg, m.keys.Disconnect):
		if node, ok := m.cursorNode(); ok && node.Kind == sidebar.NodeConnection {
			cmd := m.closeSession(node.Alias)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Rename):
		if node, ok := m.cursorNode(); ok && node.Kind == sidebar.NodeBookmark {
			m.prompt = promptRenameBookmark
			m.pendingAlias = node.Alias
			m.pendingTarget = node.BookmarkID
			m.promptInput.SetValue(node.Label)
			m.promptInput.Placeholder = "new name"
			m.promptInput.Focus()
		}
	case key.Matches(msg, m.keys.Open):
		if node, ok := m.cursorNode(); ok {
			return m.openNode(node)
		}
	}
	return m, nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.dialog.Hide()
		switch m.dialog.Action() {
		case components.DialogDeleteConnection:
			return m, m.deleteConnection(m.dialog.Alias())
		case components.DialogDeleteBookmark:
			return m, m.deleteBookmark(m.dialog.Alias(), m.dialog.BookmarkID())
		}
	case "n", "esc":
		m.dialog.Hide()
	}
	return m, nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		return m, nil
	case "enter":
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	name := m.promptInput.Value()
	kind := m.prompt
	m.prompt = promptNone

	ctx := context.Background()
	switch kind {
	case promptBookmarkName:
		if _, err := m.bookmarks.Add(ctx, m.pendingAlias, name, m.pendingQuery); err != nil {
			m.statusBar.SetMessage(err.Error(), true)
			return m, nil
		}
		m.statusBar.SetMessage(fmt.Sprintf("Bookmark %q saved", name), false)
	case promptRenameBookmark:
		if err := m.bookmarks.Rename(ctx, m.pendingAlias, m.pendingTarget, name); err != nil {
			m.statusBar.SetMessage(err.Error(), true)
			return m, nil
		}
		m.statusBar.SetMessage("Bookmark renamed", false)
	}
	m.rebuildTree()
	return m, nil
}

// openNode dispatches enter on a sidebar node.
func (m *Model) openNode(node sidebar.Node) (tea.Model, tea.Cmd) {
	switch node.Kind {
	case sidebar.NodeConnection:
		return m, m.connectFlow(node.Alias)
	case sidebar.NodeBookmark:
		return m.openBookmark(node.Alias, node.BookmarkID)
	}
	return m, nil
}

// connectFlow starts a connect attempt for an alias, reusing the live
// session if one exists and refusing to start a second in-flight attempt.
func (m *Model) connectFlow(alias string) tea.Cmd {
	if s, ok := m.sessions.Get(alias); ok {
		// Already active: reuse, never open a second handle.
		m.openQueryPanel(alias, s.Metadata.Kind, "")
		return nil
	}

	profile, err := m.profiles.Get(context.Background(), alias)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return nil
	}

	if !m.sessions.BeginConnecting(alias) {
		m.statusBar.SetMessage(fmt.Sprintf("Already connecting to %s", alias), true)
		return nil
	}

	m.statusBar.SetMessage(fmt.Sprintf("Connecting to %s…", alias), false)
	return connectCmd(m.registry.Resolve(profile.DBType), profile)
}

func (m *Model) handleConnected(msg ConnectedMsg) (tea.Model, tea.Cmd) {
	m.sessions.EndConnecting(msg.Alias)

	// The profile may have been deleted while the connect was in flight.
	// A session without a profile has no sidebar node and no way to be
	// disconnected, so release the fresh handle and drop the message.
	if _, err := m.profiles.Get(context.Background(), msg.Alias); err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			logger.Info("Profile deleted during connect, releasing handle", "alias", msg.Alias)
			return m, disconnectCmd(m.registry.Resolve(msg.Metadata.Kind), msg.Alias, msg.Client)
		}
		logger.Error("Failed to look up profile", "alias", msg.Alias, "error", err)
	}

	m.sessions.SetActive(msg.Alias, msg.Client, msg.Metadata)
	m.statusBar.SetMessage(fmt.Sprintf("Connected to %s", msg.Alias), false)
	m.openQueryPanel(msg.Alias, msg.Metadata.Kind, "")
	return m, nil
}

func (m *Model) openQueryPanel(alias string, kind provider.Kind, initialQuery string) {
	if m.query != nil && m.query.Alias() == alias && initialQuery == "" {
		return
	}
	m.form = nil
	m.query = ui.NewQueryPanel(alias, kind, initialQuery)
	m.query.SetSize(m.width-sidebarWidth-4, m.height-3)
}

// closeSession tears down the session for an alias and releases its client
// exactly once. If the session is already gone the other teardown path ran
// first and this is a no-op.
func (m *Model) closeSession(alias string) tea.Cmd {
	s, ok := m.sessions.Get(alias)
	if !ok {
		return nil
	}
	m.sessions.SetInactive(alias)

	if m.query != nil && m.query.Alias() == alias {
		m.query = nil
	}
	return disconnectCmd(m.registry.Resolve(s.Metadata.Kind), alias, s.Client)
}

// deleteConnection removes a profile, its live session if any, and its
// bookmarks.
func (m *Model) deleteConnection(alias string) tea.Cmd {
	cmd := m.closeSession(alias)

	ctx := context.Background()
	if err := m.profiles.Remove(ctx, alias); err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return cmd
	}
	if err := m.bookmarks.RemoveAll(ctx, alias); err != nil {
		logger.Warn("Failed to remove bookmarks", "alias", alias, "error", err)
	}

	m.statusBar.SetMessage(fmt.Sprintf("Deleted %s", alias), false)
	m.rebuildTree()
	return cmd
}

func (m *Model) deleteBookmark(alias, id string) tea.Cmd {
	if err := m.bookmarks.Remove(context.Background(), alias, id); err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return nil
	}
	m.statusBar.SetMessage("Bookmark deleted", false)
	m.rebuildTree()
	return nil
}

// openBookmark opens the query panel prefilled with a bookmark's query.
// It requires an active session for the owning alias.
func (m *Model) openBookmark(alias, id string) (tea.Model, tea.Cmd) {
	s, ok := m.sessions.Get(alias)
	if !ok {
		m.statusBar.SetMessage(
			fmt.Sprintf("Connect to %s before opening its bookmarks", alias), true)
		return m, nil
	}

	bookmarks, err := m.bookmarks.List(context.Background(), alias)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	for _, b := range bookmarks {
		if b.ID == id {
			m.openQueryPanel(alias, s.Metadata.Kind, b.Query)
			return m, nil
		}
	}
	m.statusBar.SetMessage("Bookmark not found", true)
	return m, nil
}

func (m *Model) openEditForm(alias string) tea.Cmd {
	profile, err := m.profiles.Get(context.Background(), alias)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return nil
	}
	m.form = ui.NewConnectionForm()
	m.form.SetProfile(profile)
	m.form.SetSize(m.width - sidebarWidth - 4)
	return nil
}

func (m *Model) handleSaveConnection(msg ui.FormSaveMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	ctx := context.Background()
	p := profileFromData(msg.Msg.Data.Alias, msg.Msg.Data)

	var err error
	if msg.Msg.OriginalAlias != "" {
		_, err = m.profiles.Update(ctx, msg.Msg.OriginalAlias, p)
	} else {
		_, err = m.profiles.Add(ctx, p)
	}
	if err != nil {
		m.form.SetResult(err.Error(), true)
		return m, nil
	}

	m.form = nil
	m.statusBar.SetMessage("Connection saved successfully!", false)
	m.rebuildTree()
	return m, nil
}

func (m *Model) handleRunQuery(msg ui.RunQueryMsg) (tea.Model, tea.Cmd) {
	s, ok := m.sessions.Get(msg.Alias)
	if !ok {
		m.statusBar.SetMessage(
			fmt.Sprintf("No active connection for %s", msg.Alias), true)
		return m, nil
	}

	var text string
	if msg.SQL != nil {
		text = msg.SQL.SQL
	} else if msg.RedisCommand != nil {
		text = msg.RedisCommand.RedisCommand
	}

	if m.query != nil && m.query.Alias() == msg.Alias {
		m.query.SetRunning(true)
	}
	return m, executeCmd(m.registry.Resolve(s.Metadata.Kind), msg.Alias, s.Client, text)
}

// rebuildTree re-derives the sidebar from fresh store and session
// snapshots.
func (m *Model) rebuildTree() {
	ctx := context.Background()

	profiles, err := m.profiles.List(ctx)
	if err != nil {
		logger.Error("Failed to list profiles", "error", err)
		profiles = nil
	}

	active := make(map[string]provider.Metadata)
	activeCount := 0
	for _, s := range m.sessions.List() {
		active[s.Alias] = s.Metadata
		activeCount++
	}

	m.nodes = sidebar.Build(profiles, active, func(alias string) []store.Bookmark {
		bookmarks, err := m.bookmarks.List(ctx, alias)
		if err != nil {
			logger.Error("Failed to list bookmarks", "alias", alias, "error", err)
			return nil
		}
		return bookmarks
	})
	m.flat = sidebar.Flatten(m.nodes)
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.statusBar.SetActiveSessions(activeCount)
}

func (m *Model) cursorNode() (sidebar.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return sidebar.Node{}, false
	}
	return m.flat[m.cursor], true
}

// View renders the application.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading…"
	}

	if m.dialog.IsVisible() {
		return m.dialog.View()
	}

	sidebarView := styles.PanelStyle.
		Width(sidebarWidth).
		Height(m.height - 4).
		Render(sidebar.Render(m.nodes, m.cursor))

	var mainView string
	switch {
	case m.form != nil:
		mainView = styles.PanelFocusedStyle.
			Width(m.width - sidebarWidth - 4).
			Height(m.height - 4).
			Render(m.form.View())
	case m.query != nil:
		mainView = styles.PanelFocusedStyle.
			Width(m.width - sidebarWidth - 4).
			Height(m.height - 4).
			Render(m.query.View())
	default:
		mainView = styles.PanelStyle.
			Width(m.width - sidebarWidth - 4).
			Height(m.height - 4).
			Render(styles.StatusBarStyle.Render(
				"enter: connect  a: add  e: edit  d: delete  x: disconnect"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, mainView)

	bottom := m.statusBar.View()
	if m.prompt != promptNone {
		label := "Bookmark name: "
		if m.prompt == promptRenameBookmark {
			label = "Rename bookmark: "
		}
		bottom = styles.FormLabelFocusedStyle.Render(label) + m.promptInput.View() +
			"\n" + bottom
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, bottom)
}

// Cleanup releases every live session before exit.
func (m *Model) Cleanup() {
	ctx := context.Background()
	for _, s := range m.sessions.List() {
		p := m.registry.Resolve(s.Metadata.Kind)
		if err := p.Disconnect(ctx, s.Client); err != nil {
			logger.Warn("Cleanup disconnect failed", "alias", s.Alias, "error", err)
		}
		m.sessions.SetInactive(s.Alias)
	}
	if err := m.db.Close(); err != nil {
		logger.Warn("Failed to close storage", "error", err)
	}
}

// profileFromData converts a wire payload into a profile.
func profileFromData(alias string, data protocol.ConnectionData) provider.Profile {
	if alias == "" {
		alias = data.Alias
	}
	return provider.Profile{
		Alias:    alias,
		DBType:   provider.Kind(data.DBType),
		Host:     data.Host,
		Port:     data.Port,
		User:     data.User,
		Password: data.Password,
		Database: data.Database,
	}
}
