package client

import (
	"context"
	"errors"
)

// ErrCookiesDisabled is returned by preference writes when the client keeps no store.
var ErrCookiesDisabled = errors.New("client: cookies are disabled")

// ErrNoPreferenceSync is returned when no remote preference store is configured.
var ErrNoPreferenceSync = errors.New("client: no remote preference store")

// SetPreference stores one preference.
func (c *Client) SetPreference(key string, value interface{}) error {
	if c.store == nil {
		return ErrCookiesDisabled
	}
	return c.store.SetPreference(key, value)
}

// GetPreference returns one preference.
func (c *Client) GetPreference(key string) (interface{}, bool) {
	if c.store == nil {
		return nil, false
	}
	return c.store.GetPreference(key)
}

// RemovePreference deletes one preference.
func (c *Client) RemovePreference(key string) error {
	if c.store == nil {
		return ErrCookiesDisabled
	}
	return c.store.RemovePreference(key)
}

// GetAllPreferences returns the whole preference bag.
func (c *Client) GetAllPreferences() map[string]interface{} {
	if c.store == nil {
		return map[string]interface{}{}
	}
	return c.store.GetAllPreferences()
}

// SavePreferences copies the local bag to the remote store. Failures are
// logged and returned; local state is never touched.
func (c *Client) SavePreferences(ctx context.Context) error {
	if c.store == nil {
		return ErrCookiesDisabled
	}
	if c.prefSync == nil {
		return ErrNoPreferenceSync
	}
	if err := c.prefSync.Save(ctx, c.store.GetAllPreferences()); err != nil {
		c.log.Error().Err(err).Msg("Failed to save preferences to remote store")
		return err
	}
	return nil
}

// LoadPreferences replaces the local bag with the remote one. An empty
// remote bag leaves local state alone. Failures are logged and returned;
// local state is left as it was.
func (c *Client) LoadPreferences(ctx context.Context) error {
	if c.store == nil {
		return ErrCookiesDisabled
	}
	if c.prefSync == nil {
		return ErrNoPreferenceSync
	}
	values, err := c.prefSync.Load(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to load preferences from remote store")
		return err
	}
	if len(values) == 0 {
		return nil
	}
	return c.store.ReplacePreferences(values)
}
