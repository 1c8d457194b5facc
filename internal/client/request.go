package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Request describes one call through the client.
type Request struct {
	Method string
	// URL is absolute or relative to Config.BaseURL.
	URL    string
	Params url.Values
	Body   interface{}
	Header http.Header
	// Cache overrides the default (GET cached, everything else not).
	Cache *bool
	// CacheTTL overrides Config.DefaultCacheTTL when positive.
	CacheTTL time.Duration
	// SkipTracking keeps the request out of telemetry.
	SkipTracking bool
}

// Response is the normalized result of a successful request.
type Response struct {
	Data       interface{}
	Status     int
	StatusText string
	Header     http.Header
	FromCache  bool
	// ResponseTime is zero for cache hits.
	ResponseTime time.Duration
}

// RequestOption adjusts a Request built by the verb helpers.
type RequestOption func(*Request)

// WithParams sets the query parameters.
func WithParams(params url.Values) RequestOption {
	return func(r *Request) {
		r.Params = params
	}
}

// WithParam adds one query parameter.
func WithParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Params == nil {
			r.Params = url.Values{}
		}
		r.Params.Add(key, value)
	}
}

// WithHeader sets one request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}
		r.Header.Set(key, value)
	}
}

// WithCache turns caching on or off for the request.
func WithCache(enabled bool) RequestOption {
	return func(r *Request) {
		r.Cache = &enabled
	}
}

// WithCacheTTL sets the TTL used when the response is cached.
func WithCacheTTL(ttl time.Duration) RequestOption {
	return func(r *Request) {
		r.CacheTTL = ttl
	}
}

// WithoutTracking keeps the request out of telemetry.
func WithoutTracking() RequestOption {
	return func(r *Request) {
		r.SkipTracking = true
	}
}

func newRequest(method, rawURL string, body interface{}, opts []RequestOption) *Request {
	req := &Request{Method: method, URL: rawURL, Body: body}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// bufferBody reads a streaming body into memory once so that it can be
// keyed and dispatched.
func (r *Request) bufferBody() error {
	rd, ok := r.Body.(io.Reader)
	if !ok {
		return nil
	}
	raw, err := io.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	r.Body = raw
	return nil
}

func (r *Request) cacheEnabled() bool {
	if r.Cache != nil {
		return *r.Cache
	}
	return r.method() == http.MethodGet
}

// CacheKey returns the key a request is cached under:
// METHOD:URL:json(params):json(body), with absent params or body as {}.
// Byte bodies are keyed by their text. Client.Request buffers io.Reader
// bodies first; an unbuffered reader is keyed by identity only.
func CacheKey(method, rawURL string, params url.Values, body interface{}) string {
	return fmt.Sprintf("%s:%s:%s:%s", strings.ToUpper(method), rawURL, keyJSON(params), keyJSON(body))
}

func keyJSON(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "{}"
	case []byte:
		return string(t)
	case io.Reader:
		return fmt.Sprintf("reader:%p", t)
	case url.Values:
		if t == nil {
			return "{}"
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

// resolveURL joins rawURL onto base unless it is already absolute.
func resolveURL(base, rawURL string) string {
	if base == "" {
		return rawURL
	}
	if u, err := url.Parse(rawURL); err == nil && u.IsAbs() {
		return rawURL
	}
	if rawURL == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rawURL, "/")
}

// urlPath strips the query string and fragment.
func urlPath(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
