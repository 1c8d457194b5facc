// Package service adapts the remote store repositories to the interfaces the
// API client consumes: the telemetry sink and the preference sync.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/repository"
)

// RequestLogService persists and queries request logs.
type RequestLogService interface {
	// InsertRequestLog stores a single entry.
	InsertRequestLog(ctx context.Context, entry *model.RequestLog) error

	// InsertRequestLogs stores entries in bulk.
	InsertRequestLogs(ctx context.Context, entries []*model.RequestLog) error

	// QueryRequestLogs returns entries matching q, newest first.
	QueryRequestLogs(ctx context.Context, q model.RequestLogQuery) ([]model.RequestLog, error)

	// CountRequestLogs returns the number of entries matching q.
	CountRequestLogs(ctx context.Context, q model.RequestLogQuery) (int64, error)
}

// RequestLogServiceImpl implements RequestLogService on a repository.
type RequestLogServiceImpl struct {
	repo repository.RequestLogRepositoryInterface
}

// NewRequestLogService creates a new request log service.
func NewRequestLogService(repo repository.RequestLogRepositoryInterface) RequestLogService {
	return &RequestLogServiceImpl{
		repo: repo,
	}
}

// InsertRequestLog stores a single entry.
func (s *RequestLogServiceImpl) InsertRequestLog(ctx context.Context, entry *model.RequestLog) error {
	return s.repo.Create(ctx, modelToDocument(entry))
}

// InsertRequestLogs stores entries in bulk.
func (s *RequestLogServiceImpl) InsertRequestLogs(ctx context.Context, entries []*model.RequestLog) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]*repository.RequestLogDocument, len(entries))
	for i, entry := range entries {
		docs[i] = modelToDocument(entry)
	}
	return s.repo.CreateMany(ctx, docs)
}

// QueryRequestLogs returns entries matching q, newest first.
func (s *RequestLogServiceImpl) QueryRequestLogs(ctx context.Context, q model.RequestLogQuery) ([]model.RequestLog, error) {
	docs, err := s.repo.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	entries := make([]model.RequestLog, len(docs))
	for i, doc := range docs {
		entries[i] = documentToModel(doc)
	}
	return entries, nil
}

// CountRequestLogs returns the number of entries matching q.
func (s *RequestLogServiceImpl) CountRequestLogs(ctx context.Context, q model.RequestLogQuery) (int64, error) {
	return s.repo.Count(ctx, q)
}

// modelToDocument converts a domain record to a repository document,
// filling ID and CreatedAt on the record when missing.
func modelToDocument(entry *model.RequestLog) *repository.RequestLogDocument {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	return &repository.RequestLogDocument{
		ID:             entry.ID,
		RequestID:      entry.RequestID,
		Endpoint:       entry.Endpoint,
		Method:         entry.Method,
		RequestBody:    entry.RequestBody,
		ResponseStatus: entry.ResponseStatus,
		ResponseData:   entry.ResponseData,
		ResponseTimeMs: entry.ResponseTimeMs,
		CacheHit:       entry.CacheHit,
		ErrorMessage:   entry.ErrorMessage,
		CreatedAt:      entry.CreatedAt,
	}
}

func documentToModel(doc *repository.RequestLogDocument) model.RequestLog {
	return model.RequestLog{
		ID:             doc.ID,
		RequestID:      doc.RequestID,
		Endpoint:       doc.Endpoint,
		Method:         doc.Method,
		RequestBody:    doc.RequestBody,
		ResponseStatus: doc.ResponseStatus,
		ResponseData:   doc.ResponseData,
		ResponseTimeMs: doc.ResponseTimeMs,
		CacheHit:       doc.CacheHit,
		ErrorMessage:   doc.ErrorMessage,
		CreatedAt:      doc.CreatedAt,
	}
}
