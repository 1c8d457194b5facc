package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guttosm/famroot-client/internal/domain/model"
	"github.com/guttosm/famroot-client/internal/repository"
)

// RequestLogRepository stores request logs in the request_log table.
type RequestLogRepository struct {
	db *DB
}

// NewRequestLogRepository creates a new request log repository.
func NewRequestLogRepository(db *DB) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

var _ repository.RequestLogRepositoryInterface = (*RequestLogRepository)(nil)

const insertRequestLog = `
INSERT INTO request_log (
	id, request_id, endpoint, method, request_body, response_status,
	response_data, response_time_ms, cache_hit, error_message, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertDocument(ctx context.Context, ex execer, doc *repository.RequestLogDocument) error {
	doc.Prepare()

	body, err := encodeJSON(doc.RequestBody)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	data, err := encodeJSON(doc.ResponseData)
	if err != nil {
		return fmt.Errorf("encode response data: %w", err)
	}

	_, err = ex.ExecContext(ctx, insertRequestLog,
		doc.ID, doc.RequestID, doc.Endpoint, doc.Method, body, doc.ResponseStatus,
		data, doc.ResponseTimeMs, doc.CacheHit, doc.ErrorMessage, toMillis(doc.CreatedAt),
	)
	return err
}

// Create inserts a request log row.
func (r *RequestLogRepository) Create(ctx context.Context, doc *repository.RequestLogDocument) error {
	if err := insertDocument(ctx, r.db.conn, doc); err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}

// CreateMany inserts request log rows in one transaction.
func (r *RequestLogRepository) CreateMany(ctx context.Context, docs []*repository.RequestLogDocument) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, doc := range docs {
		if err := insertDocument(ctx, tx, doc); err != nil {
			return fmt.Errorf("insert request log: %w", err)
		}
	}
	return tx.Commit()
}

func requestLogWhere(q model.RequestLogQuery) (string, []any) {
	var clauses []string
	var args []any

	if q.RequestID != "" {
		clauses = append(clauses, "request_id = ?")
		args = append(args, q.RequestID)
	}
	if q.Method != "" {
		clauses = append(clauses, "method = ?")
		args = append(args, q.Method)
	}
	if q.Endpoint != "" {
		clauses = append(clauses, "endpoint LIKE ?")
		args = append(args, "%"+q.Endpoint+"%")
	}
	if q.CacheHit != nil {
		clauses = append(clauses, "cache_hit = ?")
		args = append(args, *q.CacheHit)
	}
	if q.ErrorsOnly {
		clauses = append(clauses, "error_message <> ''")
	}
	if q.StartTime != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, toMillis(*q.StartTime))
	}
	if q.EndTime != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, toMillis(*q.EndTime))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Query returns request logs matching q, newest first.
func (r *RequestLogRepository) Query(ctx context.Context, q model.RequestLogQuery) ([]*repository.RequestLogDocument, error) {
	where, args := requestLogWhere(q)
	query := `SELECT id, request_id, endpoint, method, request_body, response_status,
		response_data, response_time_ms, cache_hit, error_message, created_at
		FROM request_log` + where + ` ORDER BY created_at DESC, rowid DESC`

	limit := q.Limit
	if limit <= 0 && q.Skip > 0 {
		limit = -1
	}
	if limit != 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, q.Skip)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request logs: %w", err)
	}
	defer rows.Close()

	docs := []*repository.RequestLogDocument{}
	for rows.Next() {
		var (
			doc       repository.RequestLogDocument
			body      sql.NullString
			data      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&doc.ID, &doc.RequestID, &doc.Endpoint, &doc.Method, &body,
			&doc.ResponseStatus, &data, &doc.ResponseTimeMs, &doc.CacheHit, &doc.ErrorMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("scan request log: %w", err)
		}
		doc.RequestBody = decodeJSON(body)
		doc.ResponseData = decodeJSON(data)
		doc.CreatedAt = fromMillis(createdAt)
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// Count returns the number of request logs matching q.
func (r *RequestLogRepository) Count(ctx context.Context, q model.RequestLogQuery) (int64, error) {
	where, args := requestLogWhere(q)
	var n int64
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM request_log`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count request logs: %w", err)
	}
	return n, nil
}

func encodeJSON(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// decodeJSON returns the decoded value, or the raw text when it is not JSON.
func decodeJSON(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return s.String
	}
	return v
}
