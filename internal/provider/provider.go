// Package provider defines the capability interface that every database
// backend implements, plus the adapters for PostgreSQL and Redis.
//
// A Provider normalizes connect/disconnect/introspect/execute behind one
// interface so the rest of the application never inspects backend types.
// Adding a backend means writing a new adapter and registering it.
package provider

import (
	"context"
	"net"
	"strconv"
)

// Kind identifies a backend kind. It doubles as the persisted dbType tag on
// connection profiles, so the values are part of the storage format.
type Kind string

const (
	// KindPostgres is the relational backend.
	KindPostgres Kind = "postgres"

	// KindRedis is the key-value backend.
	KindRedis Kind = "redis"
)

// DisplayName returns the user-facing name for the backend kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindRedis:
		return "Redis"
	default:
		return "PostgreSQL"
	}
}

// Profile holds the saved settings for one connection. Alias is the stable
// identity; it is unique across all profiles.
type Profile struct {
	Alias    string `json:"alias"`
	DBType   Kind   `json:"dbType"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database,omitempty"`
}

// DefaultAlias computes the alias used when the user leaves it blank.
func (p Profile) DefaultAlias() string {
	if p.DBType == KindRedis {
		return hostPort(p.Host, p.Port)
	}
	return p.User + "@" + p.Host
}

func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Client is an opaque live backend handle produced by Connect. Only the
// adapter that created it knows its concrete type.
type Client any

// Metadata is the introspection result, a tagged variant over backend kind.
// Relational backends carry an ordered table list; key-value backends have
// no enumerable metadata (key-space enumeration is unbounded and out of
// scope).
type Metadata struct {
	Kind   Kind
	Tables []string
}

// Result holds the outcome of Execute. Relational results populate Columns
// and Rows; key-value results populate Reply with the raw backend response.
type Result struct {
	Columns []string
	Rows    []map[string]any
	Reply   any
}

// Provider is the per-backend capability interface.
type Provider interface {
	// Kind returns the backend kind tag this adapter serves.
	Kind() Kind

	// Connect establishes a live handle using the profile's credentials.
	// The attempt is bounded by the adapter's connect timeout; on any
	// failure no handle is leaked.
	Connect(ctx context.Context, profile Profile) (Client, error)

	// Disconnect releases the handle. It tolerates an already-closed
	// handle without failing the caller.
	Disconnect(ctx context.Context, client Client) error

	// Introspect returns the backend's browsable metadata.
	Introspect(ctx context.Context, client Client) (Metadata, error)

	// Execute runs a command against a live handle. Empty input is a
	// no-op returning (nil, nil).
	Execute(ctx context.Context, client Client, commandText string) (*Result, error)
}
