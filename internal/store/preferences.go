package store

import (
	"encoding/json"
	"errors"
	"maps"
)

// ErrEmptyKey is returned when a preference is written without a key.
var ErrEmptyKey = errors.New("store: preference key is required")

// preferences reads the bag. A missing or non-object bag reads as empty.
func (s *Store) preferences() map[string]any {
	v, ok := s.Get(PreferencesName)
	if !ok {
		return map[string]any{}
	}
	prefs, ok := v.(map[string]any)
	if !ok {
		s.log.Warn().Str("name", PreferencesName).Msg("stored preferences are not an object, ignoring")
		return map[string]any{}
	}
	return prefs
}

func (s *Store) writePreferences(prefs map[string]any) error {
	return s.Set(PreferencesName, prefs, Options{Expires: s.now().Add(PreferencesTTL)})
}

// SetPreference stores value under key in the preference bag.
func (s *Store) SetPreference(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.prefMu.Lock()
	defer s.prefMu.Unlock()

	prefs := s.preferences()
	prefs[key] = value
	return s.writePreferences(prefs)
}

// GetPreference returns the preference stored under key.
func (s *Store) GetPreference(key string) (any, bool) {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()

	v, ok := s.preferences()[key]
	return v, ok
}

// PreferenceAs returns the preference under key converted to T.
func PreferenceAs[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.GetPreference(key)
	if !ok {
		return zero, false
	}
	if t, ok := v.(T); ok {
		return t, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, false
	}
	return out, true
}

// RemovePreference deletes key from the preference bag.
func (s *Store) RemovePreference(key string) error {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()

	prefs := s.preferences()
	if _, ok := prefs[key]; !ok {
		return nil
	}
	delete(prefs, key)
	return s.writePreferences(prefs)
}

// GetAllPreferences returns a copy of the preference bag.
func (s *Store) GetAllPreferences() map[string]any {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()
	return s.preferences()
}

// ClearPreferences removes the preference bag.
func (s *Store) ClearPreferences() error {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()
	return s.Remove(PreferencesName)
}

// ReplacePreferences swaps the whole bag for prefs.
func (s *Store) ReplacePreferences(prefs map[string]any) error {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()

	if prefs == nil {
		prefs = map[string]any{}
	}
	return s.writePreferences(maps.Clone(prefs))
}

