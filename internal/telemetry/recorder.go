// Package telemetry records every request the API client makes: an
// in-memory log, running aggregates, Prometheus counters and an optional
// asynchronous remote sink.
package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/metrics"
)

// Recorder holds the request log and its aggregates. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	logs    []model.RequestLog
	stats   model.RequestStats
	maxLogs int
	sink    *AsyncSink
	now     func() time.Time
}

type recorderOptions struct {
	sink       Sink
	sinkConfig SinkConfig
	maxLogs    int
	now        func() time.Time
}

// Option configures a Recorder.
type Option func(*recorderOptions)

// WithSink forwards every logged entry to sink asynchronously.
func WithSink(sink Sink) Option {
	return func(o *recorderOptions) {
		o.sink = sink
	}
}

// WithSinkConfig sizes the async sink.
func WithSinkConfig(cfg SinkConfig) Option {
	return func(o *recorderOptions) {
		o.sinkConfig = cfg
	}
}

// WithMaxLogs keeps at most n entries in memory, dropping the oldest.
// Zero keeps everything.
func WithMaxLogs(n int) Option {
	return func(o *recorderOptions) {
		o.maxLogs = n
	}
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *recorderOptions) {
		o.now = now
	}
}

// NewRecorder creates a recorder.
func NewRecorder(opts ...Option) *Recorder {
	o := recorderOptions{
		sinkConfig: DefaultSinkConfig(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Recorder{
		maxLogs: o.maxLogs,
		now:     o.now,
	}
	if o.sink != nil {
		r.sink = NewAsyncSink(o.sink, o.sinkConfig)
	}
	return r
}

// LogRequest appends entry, folds it into the aggregates and forwards it to
// the sink. Missing ID and CreatedAt are filled in.
func (r *Recorder) LogRequest(entry model.RequestLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}

	r.mu.Lock()
	r.logs = append(r.logs, entry)
	if r.maxLogs > 0 && len(r.logs) > r.maxLogs {
		drop := len(r.logs) - r.maxLogs
		r.logs = append(r.logs[:0:0], r.logs[drop:]...)
	}
	r.stats.Add(entry)
	r.mu.Unlock()

	metrics.RecordClientRequest(entry.Method, entry.ResponseStatus, entry.CacheHit,
		time.Duration(entry.ResponseTimeMs)*time.Millisecond)

	if r.sink != nil {
		remote := entry
		r.sink.Enqueue(&remote)
	}
}

// Stats returns a copy of the aggregates.
func (r *Recorder) Stats() model.RequestStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Logs returns a copy of the in-memory log, oldest first.
func (r *Recorder) Logs() []model.RequestLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.RequestLog, len(r.logs))
	copy(out, r.logs)
	return out
}

// ClearLogs empties the in-memory log. Aggregates keep counting.
func (r *Recorder) ClearLogs() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = nil
}

// SinkStats returns the async sink counters; ok is false without a sink.
func (r *Recorder) SinkStats() (stats SinkStats, ok bool) {
	if r.sink == nil {
		return SinkStats{}, false
	}
	return r.sink.Stats(), true
}

// Close drains the sink.
func (r *Recorder) Close() {
	if r.sink != nil {
		r.sink.Stop()
	}
}

type panicError struct {
	value interface{}
}

func (e panicError) Error() string {
	return fmt.Sprintf("sink panicked: %v", e.value)
}
