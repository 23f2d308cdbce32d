package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names used by the AutoLog web client database. Users
// documents keep that database's capitalised keys (UserId, Email, ...).
const (
	CountersCollection = "counters"
	UsersCollection    = "Users"
	CarsCollection     = "Cars"
	NotesCollection    = "CarNotes"
)

// EnsureMongoIndexes creates the unique and lookup indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "UserId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "Email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "verificationToken", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "resetToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		CarsCollection: {
			{Keys: bson.D{{Key: "carId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		NotesCollection: {
			{Keys: bson.D{{Key: "noteId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "carId", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
