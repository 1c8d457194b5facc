package repository

import (
	"context"

	"github.com/guttosm/famroot-client/internal/domain/model"
)

// RequestLogRepositoryInterface defines the request log resource of the remote store.
type RequestLogRepositoryInterface interface {
	Create(ctx context.Context, doc *RequestLogDocument) error
	CreateMany(ctx context.Context, docs []*RequestLogDocument) error
	Query(ctx context.Context, q model.RequestLogQuery) ([]*RequestLogDocument, error)
	Count(ctx context.Context, q model.RequestLogQuery) (int64, error)
}

// PreferencesRepositoryInterface defines the preferences resource of the remote store.
type PreferencesRepositoryInterface interface {
	Select(ctx context.Context, owner string) (*PreferencesDocument, error)
	Upsert(ctx context.Context, owner string, values map[string]interface{}) error
}

var (
	_ RequestLogRepositoryInterface  = (*RequestLogRepository)(nil)
	_ PreferencesRepositoryInterface = (*PreferencesRepository)(nil)
)
