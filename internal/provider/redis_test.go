package provider

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple command",
			input: "GET mykey",
			want:  []string{"GET", "mykey"},
		},
		{
			name:  "quoted argument kept whole",
			input: `SET "my key" 42`,
			want:  []string{"SET", "my key", "42"},
		},
		{
			name:  "extra whitespace",
			input: "  GET   mykey  ",
			want:  []string{"GET", "mykey"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  nil,
		},
		{
			name:  "quoted empty string collapses",
			input: `SET mykey ""`,
			want:  []string{"SET", "mykey", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func redisTestProfile(t *testing.T, s *miniredis.Miniredis) Profile {
	t.Helper()
	port, err := strconv.Atoi(s.Port())
	if err != nil {
		t.Fatalf("parsing miniredis port: %v", err)
	}
	return Profile{
		Alias:  "test",
		DBType: KindRedis,
		Host:   s.Host(),
		Port:   port,
	}
}

func TestRedisProvider_ConnectAndExecute(t *testing.T) {
	s := miniredis.RunT(t)
	p := NewRedisProvider(2 * time.Second)
	ctx := context.Background()

	client, err := p.Connect(ctx, redisTestProfile(t, s))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer p.Disconnect(ctx, client)

	result, err := p.Execute(ctx, client, `SET "my key" hello`)
	if err != nil {
		t.Fatalf("Execute SET: %v", err)
	}
	if result.Reply != "OK" {
		t.Errorf("SET reply = %v, want OK", result.Reply)
	}

	result, err = p.Execute(ctx, client, `GET "my key"`)
	if err != nil {
		t.Fatalf("Execute GET: %v", err)
	}
	if result.Reply != "hello" {
		t.Errorf("GET reply = %v, want hello", result.Reply)
	}
}

func TestRedisProvider_ExecuteEmptyCommand(t *testing.T) {
	s := miniredis.RunT(t)
	p := NewRedisProvider(2 * time.Second)
	ctx := context.Background()

	client, err := p.Connect(ctx, redisTestProfile(t, s))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer p.Disconnect(ctx, client)

	result, err := p.Execute(ctx, client, "   ")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result != nil {
		t.Errorf("empty command should be a no-op, got %+v", result)
	}
}

func TestRedisProvider_ExecuteNilReply(t *testing.T) {
	s := miniredis.RunT(t)
	p := NewRedisProvider(2 * time.Second)
	ctx := context.Background()

	client, err := p.Connect(ctx, redisTestProfile(t, s))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer p.Disconnect(ctx, client)

	result, err := p.Execute(ctx, client, "GET missing")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Reply != "(nil)" {
		t.Errorf("missing key reply = %v, want (nil)", result.Reply)
	}
}

func TestRedisProvider_ExecuteArrayReply(t *testing.T) {
	s := miniredis.RunT(t)
	p := NewRedisProvider(2 * time.Second)
	ctx := context.Background()

	client, err := p.Connect(ctx, redisTestProfile(t, s))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer p.Disconnect(ctx, client)

	for _, cmd := range []string{"RPUSH mylist a", "RPUSH mylist b"} {
		if _, err := p.Execute(ctx, client, cmd); err != nil {
			t.Fatalf("Execute %q: %v", cmd, err)
		}
	}

	result, err := p.Execute(ctx, client, "LRANGE mylist 0 -1")
	if err != nil {
		t.Fatalf("Execute LRANGE: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "b"}, result.Reply); diff != "" {
		t.Errorf("array reply mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisProvider_ConnectWithPassword(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("secret")
	p := NewRedisProvider(2 * time.Second)
	ctx := context.Background()

	profile := redisTestProfile(t, s)
	if _, err := p.Connect(ctx, profile); err == nil {
		t.Fatal("expected connect without password to fail")
	}

	profile.Password = "secret"
	client, err := p.Connect(ctx, profile)
	if err != nil {
		t.Fatalf("Connect with password: %v", err)
	}
	p.Disconnect(ctx, client)
}

func TestRedisProvider_ConnectRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	p := NewRedisProvider(2 * time.Second)
	profile := Profile{Alias: "down", DBType: KindRedis, Host: "127.0.0.1", Port: port}

	if _, err := p.Connect(context.Background(), profile); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRedisProvider_Introspect(t *testing.T) {
	s := miniredis.RunT(t)
	p := NewRedisProvider(2 * time.Second)
	ctx := context.Background()

	client, err := p.Connect(ctx, redisTestProfile(t, s))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer p.Disconnect(ctx, client)

	metadata, err := p.Introspect(ctx, client)
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}
	if metadata.Kind != KindRedis {
		t.Errorf("Kind = %q", metadata.Kind)
	}
	if len(metadata.Tables) != 0 {
		t.Errorf("key-value metadata should have no tables, got %v", metadata.Tables)
	}
}

func TestRedisProvider_DisconnectTwice(t *testing.T) {
	s := miniredis.RunT(t)
	p := NewRedisProvider(2 * time.Second)
	ctx := context.Background()

	client, err := p.Connect(ctx, redisTestProfile(t, s))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := p.Disconnect(ctx, client); err != nil {
		t.Fatalf("first Disconnect: %v", err)
	}
	if err := p.Disconnect(ctx, client); err != nil {
		t.Fatalf("second Disconnect should be tolerated: %v", err)
	}
}
