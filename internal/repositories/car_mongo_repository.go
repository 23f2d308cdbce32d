package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"autolog/internal/models"
)

// MongoCarRepository is a MongoDB implementation of CarRepository.
type MongoCarRepository struct {
	coll *mongo.Collection
}

// NewMongoCarRepository creates a new instance of MongoCarRepository.
func NewMongoCarRepository(db *mongo.Database) *MongoCarRepository {
	return &MongoCarRepository{coll: db.Collection(CarsCollection)}
}

func (r *MongoCarRepository) Create(ctx context.Context, car *models.Car) error {
	if _, err := r.coll.InsertOne(ctx, car); err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

func (r *MongoCarRepository) GetByID(ctx context.Context, carID int64) (*models.Car, error) {
	var car models.Car
	if err := r.coll.FindOne(ctx, bson.M{"carId": carID}).Decode(&car); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get car by ID %d: %w", carID, err)
	}
	return &car, nil
}

// Search anchors the quoted term at the start of each field. Year and
// odometer are numbers in the collection and are matched through $toString.
func (r *MongoCarRepository) Search(ctx context.Context, userID int64, term string) ([]models.Car, error) {
	pattern := "^" + regexp.QuoteMeta(term)
	text := bson.Regex{Pattern: pattern, Options: "i"}
	numeric := func(field string) bson.M {
		return bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$toString": "$" + field},
			"regex":   pattern,
			"options": "i",
		}}}
	}
	filter := bson.M{
		"userId": userID,
		"$or": bson.A{
			bson.M{"make": text},
			bson.M{"model": text},
			numeric("year"),
			bson.M{"color": text},
			numeric("odometer"),
		},
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to search cars for user %d: %w", userID, err)
	}
	cars := []models.Car{}
	if err := cur.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func (r *MongoCarRepository) Update(ctx context.Context, car *models.Car) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"carId": car.CarID},
		bson.M{"$set": bson.M{
			"make":      car.Make,
			"model":     car.Model,
			"year":      car.Year,
			"odometer":  car.Odometer,
			"color":     car.Color,
			"createdAt": car.CreatedAt,
		}})
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCarRepository) Delete(ctx context.Context, userID, carID int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"carId": carID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
