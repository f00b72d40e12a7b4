package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/willibrandon/looseleaf/internal/logger"
)

// tablesQuery lists user tables in the default schema, alphabetically.
const tablesQuery = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name"

// PostgresProvider is the relational adapter, backed by pgx. Each session
// owns a single connection; there is no pooling.
type PostgresProvider struct {
	connectTimeout time.Duration
}

// NewPostgresProvider creates the PostgreSQL adapter with the given connect
// timeout.
func NewPostgresProvider(connectTimeout time.Duration) *PostgresProvider {
	return &PostgresProvider{connectTimeout: connectTimeout}
}

// Kind returns the backend kind tag.
func (p *PostgresProvider) Kind() Kind {
	return KindPostgres
}

// ConnString builds a PostgreSQL connection URL from a profile. Userinfo is
// percent-encoded via url.URL so credentials round-trip through the URL
// parser verbatim.
func ConnString(profile Profile) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(profile.User, profile.Password),
		Host:   hostPort(profile.Host, profile.Port),
		Path:   "/" + profile.Database,
	}
	return u.String()
}

// Connect establishes a single connection using the profile credentials.
// The attempt is bounded by the configured timeout; on failure the partial
// connection, if any, is closed before the error returns.
func (p *PostgresProvider) Connect(ctx context.Context, profile Profile) (Client, error) {
	logger.Debug("Connecting to PostgreSQL",
		"alias", profile.Alias,
		"host", profile.Host,
		"port", profile.Port,
		"database", profile.Database,
	)

	connectCtx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()

	conn, err := pgx.Connect(connectCtx, ConnString(profile))
	if err != nil {
		return nil, &ConnectionError{Kind: KindPostgres, Err: err}
	}

	// Validate with a trivial query so auth and database errors surface
	// here rather than on first use.
	if err := conn.Ping(connectCtx); err != nil {
		_ = conn.Close(ctx)
		return nil, &ConnectionError{Kind: KindPostgres, Err: err}
	}

	logger.Info("Connected to PostgreSQL", "alias", profile.Alias, "host", profile.Host)
	return conn, nil
}

// Disconnect closes the connection. An already-closed handle is tolerated.
func (p *PostgresProvider) Disconnect(ctx context.Context, client Client) error {
	conn, ok := client.(*pgx.Conn)
	if !ok {
		return fmt.Errorf("not a PostgreSQL client: %T", client)
	}
	if conn.IsClosed() {
		logger.Debug("PostgreSQL connection already closed")
		return nil
	}
	if err := conn.Close(ctx); err != nil {
		logger.Warn("Error closing PostgreSQL connection", "error", err)
	}
	return nil
}

// Introspect lists table names in the public schema, in query order.
func (p *PostgresProvider) Introspect(ctx context.Context, client Client) (Metadata, error) {
	conn, ok := client.(*pgx.Conn)
	if !ok {
		return Metadata{}, fmt.Errorf("not a PostgreSQL client: %T", client)
	}

	rows, err := conn.Query(ctx, tablesQuery)
	if err != nil {
		return Metadata{}, &IntrospectionError{Kind: KindPostgres, Err: err}
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return Metadata{}, &IntrospectionError{Kind: KindPostgres, Err: err}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, &IntrospectionError{Kind: KindPostgres, Err: err}
	}

	return Metadata{Kind: KindPostgres, Tables: tables}, nil
}

// Execute runs SQL verbatim and collects the result set. Statements that
// return no rows produce an empty result, not an error.
func (p *PostgresProvider) Execute(ctx context.Context, client Client, commandText string) (*Result, error) {
	conn, ok := client.(*pgx.Conn)
	if !ok {
		return nil, fmt.Errorf("not a PostgreSQL client: %T", client)
	}

	rows, err := conn.Query(ctx, commandText)
	if err != nil {
		return nil, &ExecutionError{Kind: KindPostgres, Err: err}
	}
	defer rows.Close()

	var columns []string
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}

	var result []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, &ExecutionError{Kind: KindPostgres, Err: err}
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Kind: KindPostgres, Err: err}
	}

	return &Result{Columns: columns, Rows: result}, nil
}
