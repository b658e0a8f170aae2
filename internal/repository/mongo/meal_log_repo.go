package mongo

import (
	"context"
	"errors"
	"time"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mealLogCollectionName = "meal_logs"

type mongoMealLogRepository struct {
	collection *mongo.Collection
}

// NewMongoMealLogRepository creates a new meal log repository.
func NewMongoMealLogRepository(db *mongo.Database) repository.MealLogRepository {
	return &mongoMealLogRepository{
		collection: db.Collection(mealLogCollectionName),
	}
}

func (r *mongoMealLogRepository) Create(ctx context.Context, entry *domain.MealLog) (primitive.ObjectID, error) {
	if entry.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("meal log requires userId")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.MealDate.IsZero() {
		entry.MealDate = now
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, classify(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal log ID")
	}
	return insertedID, nil
}

// GetByUserID returns the user's meal history, newest first.
func (r *mongoMealLogRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.MealLog, error) {
	var entries []domain.MealLog
	findOptions := options.Find().SetSort(bson.D{{Key: "mealDate", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

func (r *mongoMealLogRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return classify(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMealLogIndexes creates necessary indexes. Call during startup.
func EnsureMealLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "mealDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
