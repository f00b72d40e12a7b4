package sqlite

import (
	"context"
	"database/sql"
	"errors"
)

// Get returns the value stored under key. The second return reports whether
// the key exists.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Put stores value under key, replacing any existing value.
func (db *DB) Put(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Delete removes the value stored under key. Deleting a missing key is a
// no-op.
func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}
