//go:build !integration

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/internal/client"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// upstream is a scripted client transport keyed by URL.
type upstream struct {
	mu        sync.Mutex
	responses map[string]*client.TransportResponse
	failures  map[string]error
	calls     []*client.TransportRequest
}

func newUpstream() *upstream {
	return &upstream{
		responses: map[string]*client.TransportResponse{},
		failures:  map[string]error{},
	}
}

func (u *upstream) respond(url string, status int, data interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.responses[url] = &client.TransportResponse{
		Status:     status,
		StatusText: http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Data:       data,
	}
}

func (u *upstream) fail(url string, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failures[url] = err
}

func (u *upstream) Do(_ context.Context, req *client.TransportRequest) (*client.TransportResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, req)
	if err, ok := u.failures[req.URL]; ok {
		return nil, err
	}
	if resp, ok := u.responses[req.URL]; ok {
		return resp, nil
	}
	return &client.TransportResponse{Status: http.StatusOK, StatusText: "OK", Data: map[string]interface{}{"url": req.URL}}, nil
}

func (u *upstream) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

func (u *upstream) lastCall() *client.TransportRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.calls) == 0 {
		return nil
	}
	return u.calls[len(u.calls)-1]
}

var errConnectionRefused = errors.New("dial tcp 127.0.0.1:1: connect: connection refused")

func newTestClient(t *testing.T, up *upstream, mutate func(*client.Config), opts ...client.Option) *client.Client {
	t.Helper()
	cfg := client.DefaultConfig()
	cfg.BaseURL = "https://api.famroot.test"
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := client.New(cfg, append([]client.Option{client.WithTransport(up)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func newTestRouter(t *testing.T, handler *Handler, cfg RouterConfig) *Router {
	t.Helper()
	router := NewRouter(handler, NewHealthHandler(), cfg)
	t.Cleanup(router.Close)
	return router
}

func perform(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope mirrors dto.SuccessResponse with a typed payload.
type envelope[T any] struct {
	Data      T      `json:"data"`
	RequestID string `json:"request_id"`
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
