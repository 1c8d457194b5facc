//go:build !integration

package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/famroot-client/internal/domain/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// stubTransport answers every request with a JSON echo of its URL and
// records what it was sent.
type stubTransport struct {
	mu       sync.Mutex
	calls    atomic.Int64
	requests []*TransportRequest
	status   int
	header   http.Header
	data     interface{}
	err      error
	onDo     func(ctx context.Context, req *TransportRequest) error
}

func (s *stubTransport) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.onDo != nil {
		if err := s.onDo(ctx, req); err != nil {
			return nil, err
		}
	}
	if s.err != nil {
		return nil, s.err
	}

	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	data := s.data
	if data == nil {
		data = map[string]interface{}{"url": req.URL}
	}
	return &TransportResponse{
		Status:     status,
		StatusText: http.StatusText(status),
		Header:     s.header,
		Data:       data,
	}, nil
}

func (s *stubTransport) last() *TransportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

type failingSink struct {
	calls atomic.Int64
}

func (f *failingSink) InsertRequestLog(context.Context, *model.RequestLog) error {
	f.calls.Add(1)
	return errors.New("remote store unavailable")
}

type memorySync struct {
	mu     sync.Mutex
	values map[string]interface{}
	err    error
}

func (m *memorySync) Save(_ context.Context, values map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values = values
	return nil
}

func (m *memorySync) Load(context.Context) (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values, m.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://api.example.com"
	return cfg
}
