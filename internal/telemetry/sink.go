package telemetry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/famroot-client/internal/circuitbreaker"
	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/logger"
	"github.com/guttosm/famroot-client/internal/metrics"
)

// Sink persists request logs to a remote store.
type Sink interface {
	InsertRequestLog(ctx context.Context, entry *model.RequestLog) error
}

// SinkConfig holds configuration for the async sink.
type SinkConfig struct {
	// BufferSize is the size of the entry channel buffer.
	BufferSize int
	// Workers is the number of goroutines writing to the sink.
	Workers int
	// WriteTimeout bounds a single remote write.
	WriteTimeout time.Duration
}

// DefaultSinkConfig returns defaults sized for a single client.
func DefaultSinkConfig() SinkConfig {
	return SinkConfig{
		BufferSize:   1000,
		Workers:      2,
		WriteTimeout: 5 * time.Second,
	}
}

// SinkStats are the counters of an AsyncSink.
type SinkStats struct {
	Enqueued int64 `json:"enqueued"`
	Dropped  int64 `json:"dropped"`
	Written  int64 `json:"written"`
	Errors   int64 `json:"errors"`
}

// AsyncSink forwards entries to a Sink from a bounded worker pool.
// A full buffer drops the entry; write failures are logged and counted.
type AsyncSink struct {
	sink         Sink
	entryCh      chan *model.RequestLog
	stopCh       chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	writeTimeout time.Duration

	// mu is held for reading across Enqueue's check and send and for
	// writing while Stop sets stopped, so nothing lands after the drain.
	mu      sync.RWMutex
	stopped bool

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	errors   atomic.Int64
}

// NewAsyncSink starts the workers. Returns nil when sink is nil.
func NewAsyncSink(sink Sink, cfg SinkConfig) *AsyncSink {
	if sink == nil {
		return nil
	}
	def := DefaultSinkConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	s := &AsyncSink{
		sink:         sink,
		entryCh:      make(chan *model.RequestLog, cfg.BufferSize),
		stopCh:       make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
	}

	for i := 0; i < cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

func (s *AsyncSink) worker() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.entryCh:
			s.write(entry)
		case <-s.stopCh:
			// Drain what is already buffered
			for {
				select {
				case entry := <-s.entryCh:
					s.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (s *AsyncSink) write(entry *model.RequestLog) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	if err := s.insert(ctx, entry); err != nil {
		s.errors.Add(1)
		metrics.RecordSinkEvent("error")
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			return
		}
		log := logger.Logger()
		log.Warn().
			Err(err).
			Str("endpoint", entry.Endpoint).
			Str("method", entry.Method).
			Str("request_id", entry.RequestID).
			Msg("Failed to persist request log")
		return
	}
	s.written.Add(1)
	metrics.RecordSinkEvent("written")
}

// insert calls the sink, turning a panic into an error.
func (s *AsyncSink) insert(ctx context.Context, entry *model.RequestLog) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return s.sink.InsertRequestLog(ctx, entry)
}

// Enqueue hands entry to the workers. Returns false when it was dropped.
func (s *AsyncSink) Enqueue(entry *model.RequestLog) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		s.dropped.Add(1)
		metrics.RecordSinkEvent("dropped")
		return false
	}
	select {
	case s.entryCh <- entry:
		s.enqueued.Add(1)
		return true
	default:
		s.dropped.Add(1)
		metrics.RecordSinkEvent("dropped")
		return false
	}
}

// Stop drains buffered entries and waits for the workers. Safe to call twice.
func (s *AsyncSink) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()

		close(s.stopCh)
		s.wg.Wait()
	})
}

// Stats returns the current counters.
func (s *AsyncSink) Stats() SinkStats {
	return SinkStats{
		Enqueued: s.enqueued.Load(),
		Dropped:  s.dropped.Load(),
		Written:  s.written.Load(),
		Errors:   s.errors.Load(),
	}
}
