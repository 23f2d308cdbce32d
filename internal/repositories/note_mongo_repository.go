package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"autolog/internal/models"
)

// MongoNoteRepository is a MongoDB implementation of NoteRepository.
type MongoNoteRepository struct {
	coll *mongo.Collection
}

// NewMongoNoteRepository creates a new instance of MongoNoteRepository.
func NewMongoNoteRepository(db *mongo.Database) *MongoNoteRepository {
	return &MongoNoteRepository{coll: db.Collection(NotesCollection)}
}

func (r *MongoNoteRepository) Create(ctx context.Context, note *models.CarNote) error {
	if _, err := r.coll.InsertOne(ctx, note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *MongoNoteRepository) ListByCar(ctx context.Context, carID int64) ([]models.CarNote, error) {
	cur, err := r.coll.Find(ctx, bson.M{"carId": carID}, options.Find().SetSort(bson.D{{Key: "noteId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for car %d: %w", carID, err)
	}
	notes := []models.CarNote{}
	if err := cur.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

func (r *MongoNoteRepository) Update(ctx context.Context, note *models.CarNote) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"carId": note.CarID, "noteId": note.NoteID},
		bson.M{"$set": bson.M{
			"note":        note.Note,
			"type":        note.Type,
			"miles":       note.Miles,
			"dateCreated": note.DateCreated,
		}})
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNoteRepository) Delete(ctx context.Context, carID, noteID int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"carId": carID, "noteId": noteID})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoNoteRepository) DeleteByCar(ctx context.Context, carID int64) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"carId": carID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete notes for car %d: %w", carID, err)
	}
	return res.DeletedCount, nil
}
