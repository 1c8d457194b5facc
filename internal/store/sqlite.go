package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_store (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0,
	path TEXT NOT NULL DEFAULT '/',
	domain TEXT NOT NULL DEFAULT '',
	secure INTEGER NOT NULL DEFAULT 0,
	same_site TEXT NOT NULL DEFAULT 'Lax',
	updated_at INTEGER NOT NULL
);
`

// SQLiteMedium persists values in a SQLite database. The database can be
// shared by several processes; concurrent writers are last-write-wins.
type SQLiteMedium struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteMedium opens (or creates) the database at dbPath.
func NewSQLiteMedium(dbPath string) (*SQLiteMedium, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite medium: path is required")
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store db: %w", err)
	}
	return &SQLiteMedium{db: db, now: time.Now}, nil
}

func toUnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Set implements Medium.
func (s *SQLiteMedium) Set(name, value string, opts Options) error {
	now := s.now()
	expiresAt, remove := opts.expiry(now)
	if remove {
		return s.Remove(name, opts)
	}
	secure := 0
	if opts.Secure {
		secure = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO kv_store (name, value, expires_at, path, domain, secure, same_site, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			path = excluded.path,
			domain = excluded.domain,
			secure = excluded.secure,
			same_site = excluded.same_site,
			updated_at = excluded.updated_at`,
		name, value, toUnixMilli(expiresAt), opts.Path, opts.Domain, secure, string(opts.SameSite), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store set: %w", err)
	}
	return nil
}

// Get implements Medium.
func (s *SQLiteMedium) Get(name string) (string, bool, error) {
	var value string
	var expiresAt int64
	err := s.db.QueryRow(
		`SELECT value, expires_at FROM kv_store WHERE name = ?`, name,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store get: %w", err)
	}
	if expiresAt > 0 && s.now().UnixMilli() > expiresAt {
		if _, err := s.db.Exec(`DELETE FROM kv_store WHERE name = ? AND expires_at = ?`, name, expiresAt); err != nil {
			return "", false, fmt.Errorf("store expire: %w", err)
		}
		return "", false, nil
	}
	return value, true, nil
}

// Remove implements Medium.
func (s *SQLiteMedium) Remove(name string, _ Options) error {
	if _, err := s.db.Exec(`DELETE FROM kv_store WHERE name = ?`, name); err != nil {
		return fmt.Errorf("store remove: %w", err)
	}
	return nil
}

// All implements Medium. Expired values are deleted first.
func (s *SQLiteMedium) All() (map[string]string, error) {
	now := s.now().UnixMilli()
	if _, err := s.db.Exec(`DELETE FROM kv_store WHERE expires_at > 0 AND expires_at < ?`, now); err != nil {
		return nil, fmt.Errorf("store prune: %w", err)
	}

	rows, err := s.db.Query(`SELECT name, value FROM kv_store ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("store scan: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

// Close releases the database connection.
func (s *SQLiteMedium) Close() error {
	return s.db.Close()
}
