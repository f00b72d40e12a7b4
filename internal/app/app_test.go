package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/willibrandon/looseleaf/internal/config"
	"github.com/willibrandon/looseleaf/internal/provider"
	"github.com/willibrandon/looseleaf/internal/store"
)

// fakeProvider counts adapter calls so flow tests can assert how many times
// a client handle was opened and released.
type fakeProvider struct {
	kind        provider.Kind
	connects    int
	disconnects int
	connectErr  error
}

func (f *fakeProvider) Kind() provider.Kind { return f.kind }

func (f *fakeProvider) Connect(ctx context.Context, profile provider.Profile) (provider.Client, error) {
	f.connects++
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return &struct{}{}, nil
}

func (f *fakeProvider) Disconnect(ctx context.Context, client provider.Client) error {
	f.disconnects++
	return nil
}

func (f *fakeProvider) Introspect(ctx context.Context, client provider.Client) (provider.Metadata, error) {
	return provider.Metadata{Kind: f.kind, Tables: []string{"users", "orders"}}, nil
}

func (f *fakeProvider) Execute(ctx context.Context, client provider.Client, commandText string) (*provider.Result, error) {
	return &provider.Result{}, nil
}

func newTestModel(t *testing.T) (*Model, *fakeProvider) {
	t.Helper()

	fake := &fakeProvider{kind: provider.KindPostgres}
	registry := provider.NewRegistry()
	registry.Register(fake)

	cfg := &config.Config{
		Storage: config.StorageConfig{Path: filepath.Join(t.TempDir(), "test.db")},
		Backend: config.BackendConfig{ConnectTimeout: 2 * time.Second},
	}

	m, err := New(cfg, registry)
	if err != nil {
		t.Fatalf("creating model: %v", err)
	}
	t.Cleanup(func() { m.db.Close() })
	return m, fake
}

func addTestProfile(t *testing.T, m *Model, alias string) {
	t.Helper()
	p := provider.Profile{
		Alias:  alias,
		DBType: provider.KindPostgres,
		Host:   "localhost",
		Port:   5432,
		User:   "test",
	}
	if _, err := m.profiles.Add(context.Background(), p); err != nil {
		t.Fatalf("adding profile: %v", err)
	}
	m.rebuildTree()
}

// activateSession runs the connected handler directly, the same path a
// successful connect command takes.
func activateSession(t *testing.T, m *Model, alias string) {
	t.Helper()
	m.Update(ConnectedMsg{
		Alias:    alias,
		Client:   &struct{}{},
		Metadata: provider.Metadata{Kind: provider.KindPostgres, Tables: []string{"users"}},
	})
	if _, ok := m.sessions.Get(alias); !ok {
		t.Fatalf("session %s not active after connect", alias)
	}
}

func TestDeleteConnectionWithActiveSession(t *testing.T) {
	m, fake := newTestModel(t)
	addTestProfile(t, m, "prod")
	activateSession(t, m, "prod")

	cmd := m.deleteConnection("prod")
	if cmd == nil {
		t.Fatal("expected a disconnect command for the live session")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("disconnect command produced no message")
	}

	if _, ok := m.sessions.Get("prod"); ok {
		t.Error("session should be absent after deleting its profile")
	}
	if fake.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", fake.disconnects)
	}

	_, err := m.profiles.Get(context.Background(), "prod")
	var notFound *store.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}
}

func TestCloseSessionReleasesClientExactlyOnce(t *testing.T) {
	m, fake := newTestModel(t)
	addTestProfile(t, m, "prod")
	activateSession(t, m, "prod")

	first := m.closeSession("prod")
	if first == nil {
		t.Fatal("first close should release the client")
	}
	second := m.closeSession("prod")
	if second != nil {
		t.Fatal("second close should be a no-op")
	}

	first()
	if fake.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", fake.disconnects)
	}
}

func TestQueryResultForClosedPanelIsDropped(t *testing.T) {
	m, _ := newTestModel(t)
	addTestProfile(t, m, "prod")
	activateSession(t, m, "prod")
	if m.query == nil {
		t.Fatal("connect should open the query panel")
	}

	if cmd := m.closeSession("prod"); cmd != nil {
		cmd()
	}
	if m.query != nil {
		t.Fatal("closing the session should close its panel")
	}

	// A result arriving after the panel closed must not reopen it.
	m.Update(QueryFinishedMsg{Alias: "prod", Result: &provider.Result{}})
	if m.query != nil {
		t.Error("stale query result reopened the panel")
	}
}

func TestConnectFlowReusesActiveSession(t *testing.T) {
	m, fake := newTestModel(t)
	addTestProfile(t, m, "prod")
	activateSession(t, m, "prod")

	if cmd := m.connectFlow("prod"); cmd != nil {
		t.Error("connect on an active alias should reuse the session, not dial")
	}
	if fake.connects != 0 {
		t.Errorf("connects = %d, want 0", fake.connects)
	}
	if m.query == nil || m.query.Alias() != "prod" {
		t.Error("reuse should open the query panel for the alias")
	}
}

func TestConnectFlowRefusesConcurrentAttempt(t *testing.T) {
	m, _ := newTestModel(t)
	addTestProfile(t, m, "prod")

	first := m.connectFlow("prod")
	if first == nil {
		t.Fatal("first connect attempt should produce a command")
	}

	// The first attempt is still in flight; a second must be refused.
	if second := m.connectFlow("prod"); second != nil {
		t.Error("second in-flight connect attempt should be refused")
	}
}

func TestConnectCompletingAfterDeleteReleasesHandle(t *testing.T) {
	m, fake := newTestModel(t)
	addTestProfile(t, m, "prod")

	if cmd := m.connectFlow("prod"); cmd == nil {
		t.Fatal("expected a connect command")
	}
	if cmd := m.deleteConnection("prod"); cmd != nil {
		t.Fatal("no live session yet, delete should not disconnect")
	}

	// The in-flight connect completes after the profile is gone.
	_, cmd := m.Update(ConnectedMsg{
		Alias:    "prod",
		Client:   &struct{}{},
		Metadata: provider.Metadata{Kind: provider.KindPostgres},
	})
	if cmd == nil {
		t.Fatal("expected a disconnect command for the orphaned handle")
	}
	cmd()

	if _, ok := m.sessions.Get("prod"); ok {
		t.Error("session registered for a deleted profile")
	}
	if fake.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", fake.disconnects)
	}
	if len(m.flat) != 0 {
		t.Errorf("sidebar should be empty, got %d nodes", len(m.flat))
	}
}

func TestConnectFailedClearsInFlightGuard(t *testing.T) {
	m, _ := newTestModel(t)
	addTestProfile(t, m, "prod")

	if cmd := m.connectFlow("prod"); cmd == nil {
		t.Fatal("expected a connect command")
	}
	m.Update(ConnectFailedMsg{Alias: "prod", Err: errors.New("connection refused")})

	// After the failure the alias is connectable again.
	if cmd := m.connectFlow("prod"); cmd == nil {
		t.Error("failed attempt should not leave the alias stuck connecting")
	}
}
