package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"autolog/internal/models"
)

// MongoCounterRepository keeps sequence counters in the counters collection.
type MongoCounterRepository struct {
	coll *mongo.Collection
}

// NewMongoCounterRepository creates a new instance of MongoCounterRepository.
func NewMongoCounterRepository(db *mongo.Database) *MongoCounterRepository {
	return &MongoCounterRepository{coll: db.Collection(CountersCollection)}
}

// Next increments the counter document and returns its new value.
func (r *MongoCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"sequence_value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}
	return counter.Value, nil
}
