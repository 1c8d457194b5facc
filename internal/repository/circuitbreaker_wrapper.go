package repository

import (
	"context"
	"errors"

	"github.com/guttosm/famroot-client/internal/circuitbreaker"
	"github.com/guttosm/famroot-client/internal/domain/model"
)

// RequestLogRepositoryWithCircuitBreaker wraps a request log repository with circuit breaker protection.
type RequestLogRepositoryWithCircuitBreaker struct {
	repo           RequestLogRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewRequestLogRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewRequestLogRepositoryWithCircuitBreaker(repo RequestLogRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *RequestLogRepositoryWithCircuitBreaker {
	return &RequestLogRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log document with circuit breaker protection.
// If the circuit is open the write is dropped (telemetry is non-critical).
func (r *RequestLogRepositoryWithCircuitBreaker) Create(ctx context.Context, doc *RequestLogDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, doc)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores log documents with circuit breaker protection.
// If the circuit is open the write is dropped (telemetry is non-critical).
func (r *RequestLogRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, docs []*RequestLogDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, docs)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query queries log documents with circuit breaker protection.
func (r *RequestLogRepositoryWithCircuitBreaker) Query(ctx context.Context, q model.RequestLogQuery) ([]*RequestLogDocument, error) {
	return circuitbreaker.Do(ctx, r.circuitBreaker, func() ([]*RequestLogDocument, error) {
		return r.repo.Query(ctx, q)
	})
}

// Count counts log documents with circuit breaker protection.
func (r *RequestLogRepositoryWithCircuitBreaker) Count(ctx context.Context, q model.RequestLogQuery) (int64, error) {
	return circuitbreaker.Do(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, q)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *RequestLogRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// PreferencesRepositoryWithCircuitBreaker wraps a preferences repository with circuit breaker protection.
type PreferencesRepositoryWithCircuitBreaker struct {
	repo           PreferencesRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPreferencesRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewPreferencesRepositoryWithCircuitBreaker(repo PreferencesRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PreferencesRepositoryWithCircuitBreaker {
	return &PreferencesRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Select returns the owner's document with circuit breaker protection.
func (r *PreferencesRepositoryWithCircuitBreaker) Select(ctx context.Context, owner string) (*PreferencesDocument, error) {
	return circuitbreaker.Do(ctx, r.circuitBreaker, func() (*PreferencesDocument, error) {
		return r.repo.Select(ctx, owner)
	})
}

// Upsert writes the owner's values with circuit breaker protection.
func (r *PreferencesRepositoryWithCircuitBreaker) Upsert(ctx context.Context, owner string, values map[string]interface{}) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Upsert(ctx, owner, values)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *PreferencesRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

var (
	_ RequestLogRepositoryInterface  = (*RequestLogRepositoryWithCircuitBreaker)(nil)
	_ PreferencesRepositoryInterface = (*PreferencesRepositoryWithCircuitBreaker)(nil)
)
