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

const workoutLogCollectionName = "workout_logs"

type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new workout log repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

func (r *mongoWorkoutLogRepository) Create(ctx context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error) {
	if entry.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("workout log requires userId")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.WorkoutDate.IsZero() {
		entry.WorkoutDate = now
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, classify(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout log ID")
	}
	return insertedID, nil
}

// GetByUserID returns the user's workout history, newest first.
func (r *mongoWorkoutLogRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error) {
	var entries []domain.WorkoutLog
	findOptions := options.Find().SetSort(bson.D{{Key: "workoutDate", Value: -1}})
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

// Delete removes a log entry. The userId filter keeps users from deleting
// entries that are not theirs.
func (r *mongoWorkoutLogRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return classify(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "workoutDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
