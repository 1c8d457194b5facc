package store

import (
	"strings"
	"time"
)

// SameSite mirrors the cookie SameSite attribute.
type SameSite string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
	SameSiteNone   SameSite = "None"
)

// Options are the attributes written alongside a stored value.
// They follow cookie semantics: a negative MaxAge or an Expires in the past
// removes the value, and a zero Expires with zero MaxAge never expires.
type Options struct {
	Expires  time.Time     `json:"expires,omitempty"`
	MaxAge   time.Duration `json:"max_age,omitempty"`
	Path     string        `json:"path,omitempty"`
	Domain   string        `json:"domain,omitempty"`
	Secure   bool          `json:"secure,omitempty"`
	SameSite SameSite      `json:"same_site,omitempty"`
}

// DefaultOptions returns the options applied when a caller gives none.
func DefaultOptions() Options {
	return Options{
		Path:     "/",
		SameSite: SameSiteLax,
	}
}

// withDefaults fills unset fields. secureByDefault mirrors the "secure when
// served over https" rule of browser cookies.
func (o Options) withDefaults(secureByDefault bool) Options {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == "" {
		o.SameSite = SameSiteLax
	}
	if !o.Secure && secureByDefault {
		o.Secure = true
	}
	return o
}

// expiry resolves the absolute expiry of a write at now. The second result
// reports whether the write is a removal.
func (o Options) expiry(now time.Time) (time.Time, bool) {
	switch {
	case o.MaxAge < 0:
		return time.Time{}, true
	case o.MaxAge > 0:
		return now.Add(o.MaxAge), false
	case !o.Expires.IsZero():
		return o.Expires, !o.Expires.After(now)
	default:
		return time.Time{}, false
	}
}

// ParseSameSite maps a configuration string to a SameSite value.
func ParseSameSite(s string) SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return SameSiteStrict
	case "none":
		return SameSiteNone
	default:
		return SameSiteLax
	}
}

// record is the stored form of a value.
type record struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Path      string    `json:"path,omitempty"`
	Domain    string    `json:"domain,omitempty"`
	Secure    bool      `json:"secure,omitempty"`
	SameSite  SameSite  `json:"same_site,omitempty"`
}

func newRecord(value string, opts Options, expiresAt time.Time) record {
	return record{
		Value:     value,
		ExpiresAt: expiresAt,
		Path:      opts.Path,
		Domain:    opts.Domain,
		Secure:    opts.Secure,
		SameSite:  opts.SameSite,
	}
}

func (r record) expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}
