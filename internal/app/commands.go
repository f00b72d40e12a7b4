package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/willibrandon/looseleaf/internal/logger"
	"github.com/willibrandon/looseleaf/internal/protocol"
	"github.com/willibrandon/looseleaf/internal/provider"
)

// connectCmd connects and introspects in one step. If introspection fails
// the fresh handle is released before the failure is reported, so no handle
// outlives an unsuccessful connect flow.
func connectCmd(p provider.Provider, profile provider.Profile) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		client, err := p.Connect(ctx, profile)
		if err != nil {
			return ConnectFailedMsg{Alias: profile.Alias, Err: err}
		}

		metadata, err := p.Introspect(ctx, client)
		if err != nil {
			_ = p.Disconnect(ctx, client)
			return ConnectFailedMsg{Alias: profile.Alias, Err: err}
		}

		return ConnectedMsg{Alias: profile.Alias, Client: client, Metadata: metadata}
	}
}

// disconnectCmd releases a client handle. Callers guarantee it runs at most
// once per handle; the adapter tolerates a handle that is already gone.
func disconnectCmd(p provider.Provider, alias string, client provider.Client) tea.Cmd {
	return func() tea.Msg {
		if err := p.Disconnect(context.Background(), client); err != nil {
			logger.Warn("Disconnect error", "alias", alias, "error", err)
		}
		logger.Info("Disconnected", "alias", alias)
		return DisconnectedMsg{Alias: alias}
	}
}

// executeCmd runs a query or command against a live handle.
func executeCmd(p provider.Provider, alias string, client provider.Client, commandText string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := p.Execute(context.Background(), client, commandText)
		return QueryFinishedMsg{
			Alias:   alias,
			Result:  result,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}

// testConnectionCmd probes a connection and always releases the handle,
// whatever the outcome.
func testConnectionCmd(p provider.Provider, profile provider.Profile) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		client, err := p.Connect(ctx, profile)
		if err == nil {
			_ = p.Disconnect(ctx, client)
		}
		return TestFinishedMsg{Result: protocol.NewTestConnectionResult(err)}
	}
}

// waitForChange blocks on the session registry's change channel and turns
// each signal into a message. Re-armed after every ChangeSignalMsg.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return ChangeSignalMsg{}
	}
}

// tickStatusBar updates the status bar clock once per second.
func tickStatusBar() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return StatusBarTickMsg{Timestamp: t}
	})
}
