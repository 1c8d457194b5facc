package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PreferencesDocument is the stored form of a preference bag.
type PreferencesDocument struct {
	Owner     string                 `bson:"owner" json:"owner"`
	Values    map[string]interface{} `bson:"values" json:"values"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}

// PreferencesRepository stores preference bags in MongoDB, one per owner.
type PreferencesRepository struct {
	collection *mongo.Collection
}

// NewPreferencesRepository creates a new preferences repository.
func NewPreferencesRepository(db *MongoDB) *PreferencesRepository {
	return &PreferencesRepository{
		collection: db.Preferences,
	}
}

// Select returns the owner's document, or nil when there is none.
func (r *PreferencesRepository) Select(ctx context.Context, owner string) (*PreferencesDocument, error) {
	var doc PreferencesDocument
	err := r.collection.FindOne(ctx, bson.M{"owner": owner}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Upsert writes the owner's values in one statement, creating the document
// on first save. created_at is only set on creation.
func (r *PreferencesRepository) Upsert(ctx context.Context, owner string, values map[string]interface{}) error {
	if values == nil {
		values = map[string]interface{}{}
	}
	now := time.Now().UTC()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"owner": owner},
		bson.M{
			"$set":         bson.M{"values": values, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
