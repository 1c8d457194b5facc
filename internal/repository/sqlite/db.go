// Package sqlite implements the remote store on a local SQLite database,
// for deployments that have no MongoDB.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS request_log (
	id TEXT PRIMARY KEY,
	request_id TEXT NOT NULL DEFAULT '',
	endpoint TEXT NOT NULL,
	method TEXT NOT NULL,
	request_body TEXT,
	response_status INTEGER NOT NULL DEFAULT 0,
	response_data TEXT,
	response_time_ms INTEGER NOT NULL DEFAULT 0,
	cache_hit INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_request_log_request_id ON request_log (request_id);
CREATE INDEX IF NOT EXISTS idx_request_log_endpoint_created ON request_log (endpoint, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_request_log_created ON request_log (created_at);

CREATE TABLE IF NOT EXISTS preferences (
	owner TEXT PRIMARY KEY,
	preference_values TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// DB is the SQLite connection shared by the repositories.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open remote db: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate remote db: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.conn.Close()
}

// HealthCheck verifies the database answers.
func (d *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.conn.PingContext(ctx)
}

// PurgeLogs deletes request logs older than ttl and returns how many were removed.
// A non-positive ttl keeps everything.
func (d *DB) PurgeLogs(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-ttl).UnixMilli()
	res, err := d.conn.ExecContext(ctx, `DELETE FROM request_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge request logs: %w", err)
	}
	return res.RowsAffected()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
