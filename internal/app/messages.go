package app

import (
	"time"

	"github.com/willibrandon/looseleaf/internal/protocol"
	"github.com/willibrandon/looseleaf/internal/provider"
)

// ConnectedMsg is sent when a connect attempt succeeds, carrying the live
// handle and the introspected metadata.
type ConnectedMsg struct {
	Alias    string
	Client   provider.Client
	Metadata provider.Metadata
}

// ConnectFailedMsg is sent when a connect attempt fails. The connection
// stays absent; no handle was leaked.
type ConnectFailedMsg struct {
	Alias string
	Err   error
}

// DisconnectedMsg is sent after a client handle has been released.
type DisconnectedMsg struct {
	Alias string
}

// QueryFinishedMsg is sent when a query or command completes, successfully
// or not.
type QueryFinishedMsg struct {
	Alias   string
	Result  *provider.Result
	Err     error
	Elapsed time.Duration
}

// TestFinishedMsg is sent when a test-connection probe completes.
type TestFinishedMsg struct {
	Result protocol.TestConnectionResult
}

// ChangeSignalMsg is sent when the session registry's change signal fires.
// It carries no payload; the tree is re-derived from fresh snapshots.
type ChangeSignalMsg struct{}

// StatusBarTickMsg is sent periodically to update the status bar clock.
type StatusBarTickMsg struct {
	Timestamp time.Time
}
