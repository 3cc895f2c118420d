package repository

import (
	"context"
	"errors"
	"time"

	"feedsense-backend/internal/database"
	"feedsense-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const loginTokenCollection = "login_tokens"

type LoginTokenRepo struct {
	collection *mongo.Collection
}

func NewLoginTokenRepo() *LoginTokenRepo {
	return &LoginTokenRepo{
		collection: database.GetCollection(loginTokenCollection),
	}
}

func (r *LoginTokenRepo) Create(ctx context.Context, token *models.LoginToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	result, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return err
	}
	token.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// Consume marks an unused, unexpired token as used and returns it. It returns
// (nil, nil) when the token does not exist, has expired or was already used,
// so two concurrent verifications cannot both succeed.
func (r *LoginTokenRepo) Consume(ctx context.Context, token string, now time.Time) (*models.LoginToken, error) {
	filter := bson.M{
		"token":      token,
		"is_used":    false,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"is_used": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var loginToken models.LoginToken
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&loginToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &loginToken, nil
}

// CountRecentByEmail counts how many tokens were created for an email since the given time.
// Used for rate limiting.
func (r *LoginTokenRepo) CountRecentByEmail(ctx context.Context, email string, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"email":      email,
		"created_at": bson.M{"$gte": since},
	})
}

// EnsureIndexes creates necessary indexes for the login_tokens collection
func (r *LoginTokenRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index: Mongo deletes expired tokens
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
