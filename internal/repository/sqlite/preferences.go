package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/famroot-client/internal/repository"
)

// PreferencesRepository stores preference bags in the preferences table.
type PreferencesRepository struct {
	db  *DB
	now func() time.Time
}

// NewPreferencesRepository creates a new preferences repository.
func NewPreferencesRepository(db *DB) *PreferencesRepository {
	return &PreferencesRepository{db: db, now: time.Now}
}

var _ repository.PreferencesRepositoryInterface = (*PreferencesRepository)(nil)

// Select returns the owner's row, or nil when there is none.
func (r *PreferencesRepository) Select(ctx context.Context, owner string) (*repository.PreferencesDocument, error) {
	var (
		raw                  string
		createdAt, updatedAt int64
	)
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT preference_values, created_at, updated_at FROM preferences WHERE owner = ?`, owner,
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select preferences: %w", err)
	}

	values := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &repository.PreferencesDocument{
		Owner:     owner,
		Values:    values,
		CreatedAt: fromMillis(createdAt),
		UpdatedAt: fromMillis(updatedAt),
	}, nil
}

// Upsert writes the owner's values in one statement, creating the row on
// first save. created_at is only set on creation.
func (r *PreferencesRepository) Upsert(ctx context.Context, owner string, values map[string]interface{}) error {
	if values == nil {
		values = map[string]interface{}{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	now := toMillis(r.now().UTC())
	_, err = r.db.conn.ExecContext(ctx,
		`INSERT INTO preferences (owner, preference_values, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner) DO UPDATE SET
			preference_values = excluded.preference_values,
			updated_at = excluded.updated_at`,
		owner, string(raw), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
