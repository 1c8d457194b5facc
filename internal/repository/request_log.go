package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/famroot-client/internal/domain/model"
)

// RequestLogDocument is the stored form of a request log entry.
type RequestLogDocument struct {
	ID             string      `bson:"_id" json:"id"`
	RequestID      string      `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Endpoint       string      `bson:"endpoint" json:"endpoint"`
	Method         string      `bson:"method" json:"method"`
	RequestBody    interface{} `bson:"request_body,omitempty" json:"request_body,omitempty"`
	ResponseStatus int         `bson:"response_status,omitempty" json:"response_status,omitempty"`
	ResponseData   interface{} `bson:"response_data,omitempty" json:"response_data,omitempty"`
	ResponseTimeMs int64       `bson:"response_time_ms" json:"response_time_ms"`
	CacheHit       bool        `bson:"cache_hit" json:"cache_hit"`
	ErrorMessage   string      `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedAt      time.Time   `bson:"created_at" json:"created_at"`
}

// Prepare fills the generated fields of a document about to be inserted.
func (d *RequestLogDocument) Prepare() {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
}

// RequestLogRepository stores request logs in MongoDB.
type RequestLogRepository struct {
	collection *mongo.Collection
}

// NewRequestLogRepository creates a new request log repository.
func NewRequestLogRepository(db *MongoDB) *RequestLogRepository {
	return &RequestLogRepository{
		collection: db.RequestLogs,
	}
}

// Create inserts a request log document.
func (r *RequestLogRepository) Create(ctx context.Context, doc *RequestLogDocument) error {
	doc.Prepare()
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// CreateMany inserts request log documents in bulk.
func (r *RequestLogRepository) CreateMany(ctx context.Context, docs []*RequestLogDocument) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]interface{}, len(docs))
	for i, doc := range docs {
		doc.Prepare()
		items[i] = doc
	}

	_, err := r.collection.InsertMany(ctx, items, options.InsertMany().SetOrdered(false))
	return err
}

func requestLogFilter(q model.RequestLogQuery) bson.M {
	filter := bson.M{}

	if q.RequestID != "" {
		filter["request_id"] = q.RequestID
	}
	if q.Method != "" {
		filter["method"] = q.Method
	}
	if q.Endpoint != "" {
		filter["endpoint"] = bson.M{"$regex": q.Endpoint, "$options": "i"}
	}
	if q.CacheHit != nil {
		filter["cache_hit"] = *q.CacheHit
	}
	if q.ErrorsOnly {
		filter["error_message"] = bson.M{"$exists": true, "$ne": ""}
	}
	if q.StartTime != nil || q.EndTime != nil {
		timeFilter := bson.M{}
		if q.StartTime != nil {
			timeFilter["$gte"] = *q.StartTime
		}
		if q.EndTime != nil {
			timeFilter["$lte"] = *q.EndTime
		}
		filter["created_at"] = timeFilter
	}
	return filter
}

// Query returns request log documents matching q, newest first.
func (r *RequestLogRepository) Query(ctx context.Context, q model.RequestLogQuery) ([]*RequestLogDocument, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}
	if q.Skip > 0 {
		findOptions.SetSkip(int64(q.Skip))
	}

	cursor, err := r.collection.Find(ctx, requestLogFilter(q), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := []*RequestLogDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the number of request log documents matching q.
func (r *RequestLogRepository) Count(ctx context.Context, q model.RequestLogQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, requestLogFilter(q))
}
