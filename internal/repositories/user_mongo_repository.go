package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"autolog/internal/models"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"Email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) SetVerifiedByToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotFound
	}
	return r.updateOne(ctx,
		bson.M{"verificationToken": token},
		bson.M{
			"$set":   bson.M{"isVerified": true},
			"$unset": bson.M{"verificationToken": ""},
		})
}

func (r *MongoUserRepository) SetResetToken(ctx context.Context, email, token string, expiresAtMillis int64) error {
	return r.updateOne(ctx,
		bson.M{"Email": email},
		bson.M{"$set": bson.M{"resetToken": token, "resetTokenExpiration": expiresAtMillis}})
}

func (r *MongoUserRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, nowMillis int64) error {
	if token == "" {
		return ErrNotFound
	}
	return r.updateOne(ctx,
		bson.M{"resetToken": token, "resetTokenExpiration": bson.M{"$gte": nowMillis}},
		bson.M{
			"$set":   bson.M{"Password": passwordHash},
			"$unset": bson.M{"resetToken": "", "resetTokenExpiration": ""},
		})
}

func (r *MongoUserRepository) UpdateName(ctx context.Context, userID int64, firstName, lastName string) error {
	return r.updateOne(ctx,
		bson.M{"UserId": userID},
		bson.M{"$set": bson.M{"FirstName": firstName, "LastName": lastName}})
}

func (r *MongoUserRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
