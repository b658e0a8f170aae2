package service

import (
	"context"
	"errors"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrLogNotFound = errors.New("log entry not found")

// ProfileUpdate carries the mutable profile fields. Nil pointers leave
// the stored value untouched.
type ProfileUpdate struct {
	Name                *string
	Age                 *int
	WeightKg            *float64
	HeightCm            *float64
	FitnessGoals        []string
	FitnessGoalType     *string
	FitnessLevel        *string
	InjuriesLimitations *string
}

// LogService covers the user-facing tracking surface: profile,
// workout logs, and meal logs. All operations are owner-scoped.
type LogService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error)

	LogWorkout(ctx context.Context, entry *domain.WorkoutLog) (*domain.WorkoutLog, error)
	GetWorkoutLogs(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error)
	DeleteWorkoutLog(ctx context.Context, id, userID primitive.ObjectID) error

	LogMeal(ctx context.Context, entry *domain.MealLog) (*domain.MealLog, error)
	GetMealLogs(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.MealLog, error)
	DeleteMealLog(ctx context.Context, id, userID primitive.ObjectID) error
}

type logService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutLogRepository
	mealRepo    repository.MealLogRepository
}

func NewLogService(userRepo repository.UserRepository, workoutRepo repository.WorkoutLogRepository, mealRepo repository.MealLogRepository) LogService {
	return &logService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		mealRepo:    mealRepo,
	}
}

func (s *logService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *logService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.WeightKg != nil {
		user.WeightKg = *update.WeightKg
	}
	if update.HeightCm != nil {
		user.HeightCm = *update.HeightCm
	}
	if update.FitnessGoals != nil {
		user.FitnessGoals = update.FitnessGoals
	}
	if update.FitnessGoalType != nil {
		user.FitnessGoalType = *update.FitnessGoalType
	}
	if update.FitnessLevel != nil {
		user.FitnessLevel = *update.FitnessLevel
	}
	if update.InjuriesLimitations != nil {
		user.InjuriesLimitations = *update.InjuriesLimitations
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *logService) LogWorkout(ctx context.Context, entry *domain.WorkoutLog) (*domain.WorkoutLog, error) {
	if entry.ExerciseName == "" {
		return nil, errors.New("exercise name is required")
	}
	id, err := s.workoutRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

func (s *logService) GetWorkoutLogs(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error) {
	return s.workoutRepo.GetByUserID(ctx, userID, limit)
}

func (s *logService) DeleteWorkoutLog(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.workoutRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLogNotFound
	}
	return err
}

func (s *logService) LogMeal(ctx context.Context, entry *domain.MealLog) (*domain.MealLog, error) {
	if entry.Description == "" {
		return nil, errors.New("meal description is required")
	}
	id, err := s.mealRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

func (s *logService) GetMealLogs(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.MealLog, error) {
	return s.mealRepo.GetByUserID(ctx, userID, limit)
}

func (s *logService) DeleteMealLog(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.mealRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLogNotFound
	}
	return err
}
