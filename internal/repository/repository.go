package repository

import (
	"context"

	"slateai/health-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	// ErrUnavailable signals that the backing store could not be reached at
	// all, as opposed to a well-formed negative answer. Callers use it to
	// decide whether the static fallback catalog applies.
	ErrUnavailable = RepositoryError("store unavailable")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// PlanRepository defines the interface for interacting with stored plan
// records. plan_id lookups use the external string identifier, not the
// row ObjectID.
type PlanRepository interface {
	Create(ctx context.Context, record *domain.PlanRecord) (primitive.ObjectID, error)
	// GetByPlanID returns the active record for plan_id, ErrNotFound if
	// absent or deactivated.
	GetByPlanID(ctx context.Context, planID string) (*domain.PlanRecord, error)
	// GetRecordByPlanID returns the record regardless of the active flag.
	GetRecordByPlanID(ctx context.Context, planID string) (*domain.PlanRecord, error)
	ListActive(ctx context.Context) ([]domain.PlanRecord, error)
	// Update overwrites planData (and optionally metadata) in place.
	Update(ctx context.Context, record *domain.PlanRecord) error
	// Deactivate flips the is_active flag (soft delete).
	Deactivate(ctx context.Context, planID string) error
	// Delete removes the row entirely (hard delete).
	Delete(ctx context.Context, planID string) error
}

// WorkoutLogRepository defines the interface for workout log rows.
type WorkoutLogRepository interface {
	Create(ctx context.Context, logEntry *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// MealLogRepository defines the interface for meal log rows.
type MealLogRepository interface {
	Create(ctx context.Context, meal *domain.MealLog) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.MealLog, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
