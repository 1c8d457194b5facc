// Package store persists small named values for the API client: the user
// preference bag and the bearer token. Values live in a pluggable Medium
// (memory, JSON file, SQLite) with cookie-like expiry attributes.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/famroot-client/internal/auth"
	"github.com/guttosm/famroot-client/internal/logger"
)

const (
	// PreferencesName is the storage name of the preference bag.
	PreferencesName = "user_preferences"
	// TokenName is the storage name of the bearer token.
	TokenName = "auth_token"
	// PreferencesTTL is the expiry applied on every preference write.
	PreferencesTTL = 365 * 24 * time.Hour
	// TokenTTL is the token expiry used when the token carries none.
	TokenTTL = 7 * 24 * time.Hour
)

// ErrEmptyName is returned when a value is written without a name.
var ErrEmptyName = errors.New("store: name is required")

// Store reads and writes JSON-encoded values through a Medium.
type Store struct {
	medium          Medium
	secureByDefault bool
	now             func() time.Time
	log             zerolog.Logger

	// prefMu serializes read-modify-write cycles of the preference bag.
	prefMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithSecureDefault marks every write as Secure unless the caller says otherwise.
func WithSecureDefault(secure bool) Option {
	return func(s *Store) { s.secureByDefault = secure }
}

// WithClock overrides the clock used to compute expiries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store on top of medium.
func New(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		now:    time.Now,
		log:    logger.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Medium returns the underlying medium.
func (s *Store) Medium() Medium {
	return s.medium
}

// Close releases the underlying medium.
func (s *Store) Close() error {
	return s.medium.Close()
}

func (s *Store) options(opts []Options) Options {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	return o.withDefaults(s.secureByDefault)
}

// encode stores strings verbatim and everything else as JSON.
func encode(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("store: encode value: %w", err)
	}
	return string(data), nil
}

// decode parses raw as JSON and falls back to the raw string.
func decode(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// Set writes value under name. Strings are stored verbatim, other values as JSON.
func (s *Store) Set(name string, value any, opts ...Options) error {
	if name == "" {
		return ErrEmptyName
	}
	raw, err := encode(value)
	if err != nil {
		return err
	}
	return s.medium.Set(name, raw, s.options(opts))
}

// Get reads name, decoding JSON when possible. Read failures are logged
// and reported as absent.
func (s *Store) Get(name string) (any, bool) {
	raw, ok := s.raw(name)
	if !ok {
		return nil, false
	}
	return decode(raw), true
}

func (s *Store) raw(name string) (string, bool) {
	raw, ok, err := s.medium.Get(name)
	if err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("failed to read stored value")
		return "", false
	}
	return raw, ok
}

// GetAs reads name into T. A value that is not valid JSON for T is returned
// verbatim when T is string, otherwise reported as absent.
func GetAs[T any](s *Store, name string) (T, bool) {
	var zero T
	raw, ok := s.raw(name)
	if !ok {
		return zero, false
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, true
	}
	if sp, isString := any(&out).(*string); isString {
		*sp = raw
		return out, true
	}
	return zero, false
}

// Has reports whether name holds an unexpired value.
func (s *Store) Has(name string) bool {
	_, ok := s.raw(name)
	return ok
}

// Remove deletes name.
func (s *Store) Remove(name string, opts ...Options) error {
	if name == "" {
		return ErrEmptyName
	}
	return s.medium.Remove(name, s.options(opts))
}

// GetAll returns every stored value, decoded like Get.
func (s *Store) GetAll() map[string]any {
	all, err := s.medium.All()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to list stored values")
		return map[string]any{}
	}
	out := make(map[string]any, len(all))
	for name, raw := range all {
		out[name] = decode(raw)
	}
	return out
}

// Clear removes every stored value.
func (s *Store) Clear() error {
	all, err := s.medium.All()
	if err != nil {
		return err
	}
	var errs []error
	for name := range all {
		if err := s.medium.Remove(name, s.options(nil)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Token returns the stored bearer token.
func (s *Store) Token() (string, bool) {
	token, ok := s.raw(TokenName)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetToken stores the bearer token as a secure, strict value. A JWT with a
// future exp claim expires with the token, anything else after TokenTTL.
// An empty token removes the stored one.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.RemoveToken()
	}

	now := s.now()
	expires := now.Add(TokenTTL)
	if info, err := auth.Inspect(token); err == nil && !info.ExpiresAt.IsZero() && info.ExpiresAt.After(now) {
		expires = info.ExpiresAt
	}

	return s.Set(TokenName, token, Options{
		Expires:  expires,
		Secure:   true,
		SameSite: SameSiteStrict,
	})
}

// RemoveToken deletes the stored bearer token.
func (s *Store) RemoveToken() error {
	return s.Remove(TokenName)
}
