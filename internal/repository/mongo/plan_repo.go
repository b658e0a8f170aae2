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

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan record. planId uniqueness is intended but not
// enforced atomically: callers check-then-insert, and concurrent writers can
// race. The index below is non-unique to preserve that behavior.
func (r *mongoPlanRepository) Create(ctx context.Context, record *domain.PlanRecord) (primitive.ObjectID, error) {
	if record.PlanID == "" {
		return primitive.NilObjectID, errors.New("plan record requires planId")
	}
	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	record.IsActive = true

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, classify(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan record ID")
	}
	return insertedID, nil
}

// GetByPlanID retrieves the active record for a plan identifier.
func (r *mongoPlanRepository) GetByPlanID(ctx context.Context, planID string) (*domain.PlanRecord, error) {
	var record domain.PlanRecord
	filter := bson.M{"planId": planID, "isActive": true}
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, classify(err)
	}
	return &record, nil
}

// GetRecordByPlanID retrieves the record regardless of the active flag.
// Used to verify that deactivation keeps the row around.
func (r *mongoPlanRepository) GetRecordByPlanID(ctx context.Context, planID string) (*domain.PlanRecord, error) {
	var record domain.PlanRecord
	err := r.collection.FindOne(ctx, bson.M{"planId": planID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, classify(err)
	}
	return &record, nil
}

// ListActive returns all active plan records, newest first.
func (r *mongoPlanRepository) ListActive(ctx context.Context) ([]domain.PlanRecord, error) {
	var records []domain.PlanRecord
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, findOptions)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, classify(err)
	}
	return records, nil
}

// Update overwrites planData and metadata in place. No versioning.
func (r *mongoPlanRepository) Update(ctx context.Context, record *domain.PlanRecord) error {
	if record.PlanID == "" {
		return errors.New("planId is required for update")
	}

	updateDoc := bson.M{
		"$set": bson.M{
			"planData":  record.PlanData,
			"metadata":  record.Metadata,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"planId": record.PlanID}, updateDoc)
	if err != nil {
		return classify(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Deactivate flips the is_active flag. The row stays in place.
func (r *mongoPlanRepository) Deactivate(ctx context.Context, planID string) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"planId": planID}, update)
	if err != nil {
		return classify(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the record entirely.
func (r *mongoPlanRepository) Delete(ctx context.Context, planID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"planId": planID})
	if err != nil {
		return classify(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
// planId is deliberately NOT a unique index; see Create.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
