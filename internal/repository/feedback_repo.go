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

const feedbackCollection = "feedbacks"

// ErrDuplicateIdempotencyKey is returned by Create when the owner already has a
// record under the same idempotency key.
var ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		collection: database.GetCollection(feedbackCollection),
	}
}

// Create inserts the record as given; CreatedAt is set by the caller.
func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) && feedback.IdempotencyKey != "" {
			return ErrDuplicateIdempotencyKey
		}
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *FeedbackRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// FindByIdempotencyKey returns the owner's record submitted under key, if any.
func (r *FeedbackRepo) FindByIdempotencyKey(ctx context.Context, userID bson.ObjectID, key string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "idempotency_key": key}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// FindByOwner returns the owner's records newest first. limit <= 0 means no limit.
func (r *FeedbackRepo) FindByOwner(ctx context.Context, userID bson.ObjectID, limit int) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	feedbacks := []models.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// FindAllWithOwner returns every record newest first with the owner's name
// and email joined in. Owner is nil when the user no longer exists.
func (r *FeedbackRepo) FindAllWithOwner(ctx context.Context) ([]models.FeedbackWithOwner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: userCollection},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "full_name", Value: 1},
					{Key: "email", Value: 1},
				}}},
			}},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	feedbacks := []models.FeedbackWithOwner{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// Delete removes the record and reports whether it existed.
func (r *FeedbackRepo) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// CountBySentiment groups records by sentiment. A nil userID counts every record.
func (r *FeedbackRepo) CountBySentiment(ctx context.Context, userID *bson.ObjectID) ([]models.SentimentCount, error) {
	match := bson.D{}
	if userID != nil {
		match = bson.D{{Key: "user_id", Value: *userID}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$sentiment"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	counts := []models.SentimentCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// DailyCounts buckets records created at or after since by UTC day and sentiment.
func (r *FeedbackRepo) DailyCounts(ctx context.Context, since time.Time) ([]models.DailySentimentCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "day", Value: bson.D{{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%Y-%m-%d"},
					{Key: "date", Value: "$created_at"},
					{Key: "timezone", Value: "UTC"},
				}}}},
				{Key: "sentiment", Value: "$sentiment"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "day", Value: "$_id.day"},
			{Key: "sentiment", Value: "$_id.sentiment"},
			{Key: "count", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "day", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	counts := []models.DailySentimentCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// EnsureIndexes creates necessary indexes for the feedbacks collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{
				{Key: "idempotency_key", Value: bson.D{{Key: "$exists", Value: true}}},
			}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
