package service

import (
	"context"
	"testing"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeWorkoutLogRepo is an in-memory WorkoutLogRepository.
type fakeWorkoutLogRepo struct {
	entries []domain.WorkoutLog
}

func (r *fakeWorkoutLogRepo) Create(_ context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeWorkoutLogRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeWorkoutLogRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	for i, entry := range r.entries {
		if entry.ID == id && entry.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeMealLogRepo is an in-memory MealLogRepository.
type fakeMealLogRepo struct {
	entries []domain.MealLog
}

func (r *fakeMealLogRepo) Create(_ context.Context, entry *domain.MealLog) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeMealLogRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.MealLog, error) {
	var out []domain.MealLog
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeMealLogRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	for i, entry := range r.entries {
		if entry.ID == id && entry.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func newLogServiceWithUser(t *testing.T) (LogService, *fakeUserRepo, primitive.ObjectID) {
	t.Helper()
	userRepo := newFakeUserRepo()
	userID, err := userRepo.Create(context.Background(), &domain.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
	})
	require.NoError(t, err)
	svc := NewLogService(userRepo, &fakeWorkoutLogRepo{}, &fakeMealLogRepo{})
	return svc, userRepo, userID
}

func TestLogServiceProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("get profile strips password hash", func(t *testing.T) {
		svc, _, userID := newLogServiceWithUser(t)
		user, err := svc.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		svc, repo, userID := newLogServiceWithUser(t)

		age := 34
		weight := 68.5
		updated, err := svc.UpdateProfile(ctx, userID, ProfileUpdate{Age: &age, WeightKg: &weight})
		require.NoError(t, err)
		assert.Equal(t, 34, updated.Age)
		assert.Equal(t, 68.5, updated.WeightKg)
		assert.Equal(t, "Alice", updated.Name)

		// A second update with only a goal change keeps age and weight.
		goal := "weight_loss"
		updated, err = svc.UpdateProfile(ctx, userID, ProfileUpdate{FitnessGoalType: &goal})
		require.NoError(t, err)
		assert.Equal(t, "weight_loss", updated.FitnessGoalType)
		assert.Equal(t, 34, updated.Age)
		assert.Equal(t, 68.5, updated.WeightKg)

		// The hash survives in the store despite being stripped in responses.
		assert.NotEmpty(t, repo.users["alice@example.com"].PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newLogServiceWithUser(t)
		_, err := svc.GetProfile(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestLogServiceWorkoutLogs(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newLogServiceWithUser(t)

	t.Run("create requires an exercise name", func(t *testing.T) {
		_, err := svc.LogWorkout(ctx, &domain.WorkoutLog{UserID: userID})
		assert.Error(t, err)
	})

	t.Run("create, list, delete", func(t *testing.T) {
		entry, err := svc.LogWorkout(ctx, &domain.WorkoutLog{
			UserID:       userID,
			ExerciseName: "Squats",
			Sets:         3,
			Reps:         10,
			WeightKg:     60,
		})
		require.NoError(t, err)
		assert.False(t, entry.ID.IsZero())

		logs, err := svc.GetWorkoutLogs(ctx, userID, 50)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "Squats", logs[0].ExerciseName)

		require.NoError(t, svc.DeleteWorkoutLog(ctx, entry.ID, userID))
		logs, err = svc.GetWorkoutLogs(ctx, userID, 50)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("delete is owner-scoped", func(t *testing.T) {
		entry, err := svc.LogWorkout(ctx, &domain.WorkoutLog{UserID: userID, ExerciseName: "Rows"})
		require.NoError(t, err)

		err = svc.DeleteWorkoutLog(ctx, entry.ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrLogNotFound)
	})
}

func TestLogServiceMealLogs(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newLogServiceWithUser(t)

	t.Run("create requires a description", func(t *testing.T) {
		_, err := svc.LogMeal(ctx, &domain.MealLog{UserID: userID, MealType: "lunch"})
		assert.Error(t, err)
	})

	t.Run("create, list, delete", func(t *testing.T) {
		entry, err := svc.LogMeal(ctx, &domain.MealLog{
			UserID:      userID,
			MealType:    "lunch",
			Description: "Chicken and rice",
			Calories:    650,
			ProteinG:    45,
		})
		require.NoError(t, err)
		assert.False(t, entry.ID.IsZero())

		logs, err := svc.GetMealLogs(ctx, userID, 50)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "Chicken and rice", logs[0].Description)

		require.NoError(t, svc.DeleteMealLog(ctx, entry.ID, userID))
		logs, err = svc.GetMealLogs(ctx, userID, 50)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}
