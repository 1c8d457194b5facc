// Package client is the API-access layer: an HTTP request wrapper with
// interceptors, bearer-token propagation, an LRU+TTL response cache and
// request telemetry.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guttosm/famroot-client/internal/cache"
	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/logger"
	"github.com/guttosm/famroot-client/internal/store"
	"github.com/guttosm/famroot-client/internal/telemetry"
)

// RequestIDHeader carries the id that ties a request to its telemetry entry.
const RequestIDHeader = "X-Request-ID"

// PreferenceSync is the remote copy of the preference bag.
type PreferenceSync interface {
	Save(ctx context.Context, values map[string]interface{}) error
	Load(ctx context.Context) (map[string]interface{}, error)
}

// cachedResponse is what the cache holds for one key.
type cachedResponse struct {
	Method string
	URL    string
	Data   interface{}
}

// Client issues requests against one API. Each Client owns its cache and
// telemetry; it is safe for concurrent use.
type Client struct {
	cfg          Config
	transport    Transport
	store        *store.Store
	recorder     *telemetry.Recorder
	prefSync     PreferenceSync
	cache        *cache.Pool[cachedResponse]
	interceptors interceptors
	now          func() time.Time
	log          zerolog.Logger

	headerMu sync.RWMutex
	headers  http.Header
}

type clientOptions struct {
	transport Transport
	store     *store.Store
	recorder  *telemetry.Recorder
	prefSync  PreferenceSync
	now       func() time.Time
}

// Option configures a Client.
type Option func(*clientOptions)

// WithTransport replaces the net/http transport.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithStore sets the store holding the token and preferences.
func WithStore(s *store.Store) Option {
	return func(o *clientOptions) {
		o.store = s
	}
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(o *clientOptions) {
		o.recorder = r
	}
}

// WithPreferenceSync sets the remote preference store.
func WithPreferenceSync(p PreferenceSync) Option {
	return func(o *clientOptions) {
		o.prefSync = p
	}
}

// WithClock sets the clock used for cache expiry and response timing.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		o.now = now
	}
}

// New creates a client from cfg, normally DefaultConfig with fields
// overridden. EnableTracking and EnableCookies are not defaulted. Without
// WithStore an in-memory store is used when cookies are enabled.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("invalid base url %q: must be absolute", cfg.BaseURL)
		}
	}

	o := clientOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		cfg:       cfg,
		transport: o.transport,
		recorder:  o.recorder,
		prefSync:  o.prefSync,
		now:       o.now,
		log:       logger.Component("api-client"),
		headers:   http.Header{},
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(cfg.Timeout)
	}
	if c.recorder == nil {
		c.recorder = telemetry.NewRecorder()
	}
	if cfg.EnableCookies {
		c.store = o.store
		if c.store == nil {
			c.store = store.New(store.NewMemoryMedium())
		}
	}
	for k, v := range cfg.Headers {
		c.headers.Set(k, v)
	}

	c.cache = cache.NewPool(cache.PoolOptions[cachedResponse]{
		Name:      "api",
		MaxSize:   c.cacheSize(),
		TTL:       cfg.DefaultCacheTTL,
		Partition: cache.ContainsPartitioner(cfg.CachePools),
		Now:       c.now,
		OnEvict: func(partition, key string, _ cachedResponse) {
			c.log.Debug().Str("partition", partition).Str("cache_key", key).Msg("Cache entry evicted")
		},
	})

	return c, nil
}

// cacheSize applies the stored cache-size preference over the configured size.
func (c *Client) cacheSize() int {
	if c.store == nil {
		return c.cfg.CacheSize
	}
	size, ok := store.PreferenceAs[int](c.store, CacheSizePreference)
	if !ok || size <= 0 {
		return c.cfg.CacheSize
	}
	c.log.Info().Int("cache_size", size).Msg("Loaded cache size preference")
	return size
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Store returns the token and preference store, nil when cookies are disabled.
func (c *Client) Store() *store.Store {
	return c.store
}

// Recorder returns the telemetry recorder.
func (c *Client) Recorder() *telemetry.Recorder {
	return c.recorder
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, newRequest(http.MethodGet, rawURL, nil, opts))
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, rawURL string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, newRequest(http.MethodPost, rawURL, body, opts))
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, rawURL string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, newRequest(http.MethodPut, rawURL, body, opts))
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, rawURL string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, newRequest(http.MethodPatch, rawURL, body, opts))
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, newRequest(http.MethodDelete, rawURL, nil, opts))
}

// Request serves req from the cache or dispatches it. Failures are *Error.
func (c *Client) Request(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, newRequestError("", "", errors.New("nil request"))
	}
	if err := req.bufferBody(); err != nil {
		return nil, newRequestError(req.method(), req.URL, err)
	}
	method := req.method()
	useCache := req.cacheEnabled()
	key := CacheKey(method, req.URL, req.Params, req.Body)

	if useCache {
		if cached, ok := c.cache.Get(key); ok {
			return c.cacheHit(req, method, key, cached), nil
		}
	}

	treq, err := c.buildTransportRequest(ctx, req, method)
	if err != nil {
		return nil, c.fail(ctx, req, method, "", 0, err)
	}
	requestID := treq.Header.Get(RequestIDHeader)

	start := c.now()
	dispatchCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	tresp, err := c.transport.Do(dispatchCtx, treq)
	cancel()
	elapsed := c.now().Sub(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("timeout of %dms exceeded: %w", c.cfg.Timeout.Milliseconds(), err)
		}
		return nil, c.fail(ctx, req, method, requestID, elapsed, newNetworkError(method, req.URL, err))
	}

	c.rotateToken(tresp)

	if tresp.Status < 200 || tresp.Status >= 300 {
		if tresp.Status == http.StatusUnauthorized && c.cfg.ClearTokenOnUnauthorized {
			if err := c.RemoveAuthToken(); err != nil {
				c.log.Warn().Err(err).Msg("Failed to clear token after 401")
			}
		}
		return nil, c.fail(ctx, req, method, requestID, elapsed, newHTTPError(method, req.URL, tresp))
	}

	resp := &Response{
		Data:         tresp.Data,
		Status:       tresp.Status,
		StatusText:   tresp.StatusText,
		Header:       tresp.Header,
		ResponseTime: elapsed,
	}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}

	_, responseChain := c.interceptors.snapshot()
	for _, ri := range responseChain {
		if ri.onSuccess == nil {
			continue
		}
		if err := ri.onSuccess(ctx, resp); err != nil {
			return nil, c.fail(ctx, req, method, requestID, elapsed, err)
		}
	}

	// The snapshot is shared by the cache and the telemetry sink, never by callers.
	snapshot := cloneData(resp.Data)
	if useCache {
		value := cachedResponse{Method: method, URL: req.URL, Data: snapshot}
		if req.CacheTTL > 0 {
			c.cache.SetWithTTL(key, value, req.CacheTTL)
		} else {
			c.cache.Set(key, value)
		}
	}

	c.track(req, model.RequestLog{
		RequestID:      requestID,
		Endpoint:       req.URL,
		Method:         method,
		RequestBody:    req.Body,
		ResponseStatus: resp.Status,
		ResponseData:   snapshot,
		ResponseTimeMs: elapsed.Milliseconds(),
	})

	c.log.Debug().
		Str("endpoint", req.URL).
		Str("method", method).
		Str("request_id", requestID).
		Int("status_code", resp.Status).
		Int64("duration_ms", elapsed.Milliseconds()).
		Bool("cached", useCache).
		Msg("API request completed")

	return resp, nil
}

func (c *Client) cacheHit(req *Request, method, key string, cached cachedResponse) *Response {
	c.track(req, model.RequestLog{
		Endpoint:       req.URL,
		Method:         method,
		RequestBody:    req.Body,
		ResponseStatus: http.StatusOK,
		ResponseData:   cached.Data,
		CacheHit:       true,
	})
	c.log.Debug().Str("endpoint", req.URL).Str("method", method).Str("cache_key", key).Msg("Cache hit")

	return &Response{
		Data:       cloneData(cached.Data),
		Status:     http.StatusOK,
		StatusText: http.StatusText(http.StatusOK),
		Header:     http.Header{},
		FromCache:  true,
	}
}

// buildTransportRequest merges headers, sets the request id and runs the
// request interceptors, user ones first and the auth injection last.
func (c *Client) buildTransportRequest(ctx context.Context, req *Request, method string) (*TransportRequest, error) {
	header := c.defaultHeaders()
	for k, vs := range req.Header {
		header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if header.Get(RequestIDHeader) == "" {
		header.Set(RequestIDHeader, uuid.NewString())
	}

	treq := &TransportRequest{
		Method: method,
		URL:    resolveURL(c.cfg.BaseURL, req.URL),
		Params: req.Params,
		Header: header,
		Body:   req.Body,
	}

	requestChain, _ := c.interceptors.snapshot()
	for _, ri := range requestChain {
		if err := ri.fn(ctx, treq); err != nil {
			return nil, newRequestError(method, req.URL, err)
		}
	}
	c.injectAuth(treq)

	if treq.Header == nil {
		treq.Header = http.Header{}
	}
	return treq, nil
}

func (c *Client) injectAuth(treq *TransportRequest) {
	if !c.cfg.EnableCookies || c.store == nil {
		return
	}
	if treq.Header == nil {
		treq.Header = http.Header{}
	}
	if treq.Header.Get("Authorization") != "" {
		return
	}
	if token, ok := c.store.Token(); ok {
		treq.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) rotateToken(tresp *TransportResponse) {
	if c.cfg.TokenHeader == "" || tresp.Header == nil {
		return
	}
	token := tresp.Header.Get(c.cfg.TokenHeader)
	if token == "" {
		return
	}
	if err := c.SetAuthToken(token); err != nil {
		c.log.Warn().Err(err).Msg("Failed to store rotated token")
	}
}

// fail runs the error interceptors, records telemetry and returns the final error.
func (c *Client) fail(ctx context.Context, req *Request, method, requestID string, elapsed time.Duration, err error) error {
	_, responseChain := c.interceptors.snapshot()
	for _, ri := range responseChain {
		if ri.onError == nil {
			continue
		}
		if replaced := ri.onError(ctx, err); replaced != nil {
			err = replaced
		}
	}

	entry := model.RequestLog{
		RequestID:      requestID,
		Endpoint:       req.URL,
		Method:         method,
		RequestBody:    req.Body,
		ResponseTimeMs: elapsed.Milliseconds(),
		ErrorMessage:   err.Error(),
	}
	if e, ok := AsError(err); ok {
		entry.ResponseStatus = e.Status
	}
	c.track(req, entry)

	c.log.Warn().
		Err(err).
		Str("endpoint", req.URL).
		Str("method", method).
		Str("request_id", requestID).
		Int("status_code", entry.ResponseStatus).
		Int64("duration_ms", entry.ResponseTimeMs).
		Msg("API request failed")

	return err
}

func (c *Client) track(req *Request, entry model.RequestLog) {
	if !c.cfg.EnableTracking || req.SkipTracking {
		return
	}
	c.recorder.LogRequest(entry)
}

func (c *Client) defaultHeaders() http.Header {
	c.headerMu.RLock()
	defer c.headerMu.RUnlock()
	return c.headers.Clone()
}

// SetDefaultHeader sets a header sent with every request.
func (c *Client) SetDefaultHeader(key, value string) {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()
	c.headers.Set(key, value)
}

// RemoveDefaultHeader stops sending a default header.
func (c *Client) RemoveDefaultHeader(key string) {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()
	c.headers.Del(key)
}

// AddRequestInterceptor appends fn to the request chain.
func (c *Client) AddRequestInterceptor(fn RequestInterceptor) RequestInterceptorID {
	return c.interceptors.addRequest(fn)
}

// RemoveRequestInterceptor removes a request interceptor. Reports whether it was registered.
func (c *Client) RemoveRequestInterceptor(id RequestInterceptorID) bool {
	return c.interceptors.removeRequest(id)
}

// AddResponseInterceptor appends a success/error pair to the response chain.
// Either function may be nil.
func (c *Client) AddResponseInterceptor(onSuccess ResponseInterceptor, onError ErrorInterceptor) ResponseInterceptorID {
	return c.interceptors.addResponse(onSuccess, onError)
}

// RemoveResponseInterceptor removes a response interceptor pair. Reports whether it was registered.
func (c *Client) RemoveResponseInterceptor(id ResponseInterceptorID) bool {
	return c.interceptors.removeResponse(id)
}

// SetAuthToken persists token (when cookies are enabled) and sends it as the
// default Authorization header. The cache is left alone.
func (c *Client) SetAuthToken(token string) error {
	if c.store != nil {
		if err := c.store.SetToken(token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
	}
	if token == "" {
		c.RemoveDefaultHeader("Authorization")
		return nil
	}
	c.SetDefaultHeader("Authorization", "Bearer "+token)
	return nil
}

// RemoveAuthToken undoes SetAuthToken.
func (c *Client) RemoveAuthToken() error {
	c.RemoveDefaultHeader("Authorization")
	if c.store != nil {
		if err := c.store.RemoveToken(); err != nil {
			return fmt.Errorf("remove token: %w", err)
		}
	}
	return nil
}

// AuthToken returns the bearer token the client currently sends, read from
// the store first and the default Authorization header otherwise.
func (c *Client) AuthToken() (string, bool) {
	if c.store != nil {
		if token, ok := c.store.Token(); ok {
			return token, true
		}
	}
	header := c.defaultHeaders().Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return "", false
	}
	return token, true
}

// Stats returns the telemetry aggregates.
func (c *Client) Stats() model.RequestStats {
	return c.recorder.Stats()
}

// Logs returns the in-memory request log.
func (c *Client) Logs() []model.RequestLog {
	return c.recorder.Logs()
}

// ClearLogs empties the in-memory request log.
func (c *Client) ClearLogs() {
	c.recorder.ClearLogs()
}

// Close drains the telemetry sink.
func (c *Client) Close() {
	c.recorder.Close()
}

// urlMatches reports whether a cached URL is one of targets, ignoring query strings.
func urlMatches(cached string, targets map[string]struct{}) bool {
	_, ok := targets[strings.TrimRight(urlPath(cached), "/")]
	return ok
}
