package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/repository"
	"slateai/health-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogHandler serves the profile and tracking endpoints.
type LogHandler struct {
	logService service.LogService
}

func NewLogHandler(logService service.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// requireStoredUser resolves the authenticated subject into an
// ObjectID. Local fallback sessions have no persisted user, so the
// tracking surface is closed to them.
func requireStoredUser(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}
	if strings.HasPrefix(userIDStr, "local_") {
		abortWithError(c, http.StatusForbidden, "This endpoint requires a persisted account")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func limitQuery(c *gin.Context) int64 {
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 50
}

// --- Profile ---

type ProfileResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Age                 int       `json:"age,omitempty"`
	WeightKg            float64   `json:"weightKg,omitempty"`
	HeightCm            float64   `json:"heightCm,omitempty"`
	FitnessGoals        []string  `json:"fitnessGoals,omitempty"`
	FitnessGoalType     string    `json:"fitnessGoalType,omitempty"`
	FitnessLevel        string    `json:"fitnessLevel,omitempty"`
	InjuriesLimitations string    `json:"injuriesLimitations,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

type UpdateProfileRequest struct {
	Name                *string  `json:"name"`
	Age                 *int     `json:"age" binding:"omitempty,gte=13,lte=120"`
	WeightKg            *float64 `json:"weightKg" binding:"omitempty,gt=0"`
	HeightCm            *float64 `json:"heightCm" binding:"omitempty,gt=0"`
	FitnessGoals        []string `json:"fitnessGoals"`
	FitnessGoalType     *string  `json:"fitnessGoalType"`
	FitnessLevel        *string  `json:"fitnessLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	InjuriesLimitations *string  `json:"injuriesLimitations"`
}

func (h *LogHandler) GetProfile(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	user, err := h.logService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, mapProfileToResponse(user))
}

func (h *LogHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.logService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Name:                req.Name,
		Age:                 req.Age,
		WeightKg:            req.WeightKg,
		HeightCm:            req.HeightCm,
		FitnessGoals:        req.FitnessGoals,
		FitnessGoalType:     req.FitnessGoalType,
		FitnessLevel:        req.FitnessLevel,
		InjuriesLimitations: req.InjuriesLimitations,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, mapProfileToResponse(user))
}

func mapProfileToResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:                  user.ID.Hex(),
		Name:                user.Name,
		Email:               user.Email,
		Age:                 user.Age,
		WeightKg:            user.WeightKg,
		HeightCm:            user.HeightCm,
		FitnessGoals:        user.FitnessGoals,
		FitnessGoalType:     user.FitnessGoalType,
		FitnessLevel:        user.FitnessLevel,
		InjuriesLimitations: user.InjuriesLimitations,
		CreatedAt:           user.CreatedAt,
	}
}

// --- Workout logs ---

type WorkoutLogRequest struct {
	ExerciseName string    `json:"exerciseName" binding:"required"`
	Sets         int       `json:"sets" binding:"omitempty,gte=0"`
	Reps         int       `json:"reps" binding:"omitempty,gte=0"`
	WeightKg     float64   `json:"weightKg" binding:"omitempty,gte=0"`
	WorkoutDate  time.Time `json:"workoutDate"`
	Notes        string    `json:"notes"`
}

type WorkoutLogResponse struct {
	ID           string    `json:"id"`
	ExerciseName string    `json:"exerciseName"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	WeightKg     float64   `json:"weightKg"`
	WorkoutDate  time.Time `json:"workoutDate"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (h *LogHandler) CreateWorkoutLog(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	var req WorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.logService.LogWorkout(c.Request.Context(), &domain.WorkoutLog{
		UserID:       userID,
		ExerciseName: req.ExerciseName,
		Sets:         req.Sets,
		Reps:         req.Reps,
		WeightKg:     req.WeightKg,
		WorkoutDate:  req.WorkoutDate,
		Notes:        req.Notes,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to record workout")
		return
	}
	c.JSON(http.StatusCreated, mapWorkoutLogToResponse(entry))
}

func (h *LogHandler) GetWorkoutLogs(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	entries, err := h.logService.GetWorkoutLogs(c.Request.Context(), userID, limitQuery(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load workout logs")
		return
	}

	responses := make([]WorkoutLogResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, mapWorkoutLogToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *LogHandler) DeleteWorkoutLog(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	logID, err := primitive.ObjectIDFromHex(c.Param("log_id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format")
		return
	}

	if err := h.logService.DeleteWorkoutLog(c.Request.Context(), logID, userID); err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout log not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete workout log")
		return
	}
	c.Status(http.StatusNoContent)
}

func mapWorkoutLogToResponse(entry *domain.WorkoutLog) WorkoutLogResponse {
	return WorkoutLogResponse{
		ID:           entry.ID.Hex(),
		ExerciseName: entry.ExerciseName,
		Sets:         entry.Sets,
		Reps:         entry.Reps,
		WeightKg:     entry.WeightKg,
		WorkoutDate:  entry.WorkoutDate,
		Notes:        entry.Notes,
		CreatedAt:    entry.CreatedAt,
	}
}

// --- Meal logs ---

type MealLogRequest struct {
	MealType    string    `json:"mealType" binding:"required,oneof=breakfast lunch dinner snack"`
	Description string    `json:"description" binding:"required"`
	Calories    int       `json:"calories" binding:"omitempty,gte=0"`
	ProteinG    float64   `json:"proteinG" binding:"omitempty,gte=0"`
	CarbsG      float64   `json:"carbsG" binding:"omitempty,gte=0"`
	FatG        float64   `json:"fatG" binding:"omitempty,gte=0"`
	MealDate    time.Time `json:"mealDate"`
}

type MealLogResponse struct {
	ID          string    `json:"id"`
	MealType    string    `json:"mealType"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	ProteinG    float64   `json:"proteinG"`
	CarbsG      float64   `json:"carbsG"`
	FatG        float64   `json:"fatG"`
	MealDate    time.Time `json:"mealDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *LogHandler) CreateMealLog(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	var req MealLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.logService.LogMeal(c.Request.Context(), &domain.MealLog{
		UserID:      userID,
		MealType:    req.MealType,
		Description: req.Description,
		Calories:    req.Calories,
		ProteinG:    req.ProteinG,
		CarbsG:      req.CarbsG,
		FatG:        req.FatG,
		MealDate:    req.MealDate,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to record meal")
		return
	}
	c.JSON(http.StatusCreated, mapMealLogToResponse(entry))
}

func (h *LogHandler) GetMealLogs(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	entries, err := h.logService.GetMealLogs(c.Request.Context(), userID, limitQuery(c))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load meal logs")
		return
	}

	responses := make([]MealLogResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, mapMealLogToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *LogHandler) DeleteMealLog(c *gin.Context) {
	userID, ok := requireStoredUser(c)
	if !ok {
		return
	}

	logID, err := primitive.ObjectIDFromHex(c.Param("log_id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format")
		return
	}

	if err := h.logService.DeleteMealLog(c.Request.Context(), logID, userID); err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			abortWithError(c, http.StatusNotFound, "Meal log not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete meal log")
		return
	}
	c.Status(http.StatusNoContent)
}

func mapMealLogToResponse(entry *domain.MealLog) MealLogResponse {
	return MealLogResponse{
		ID:          entry.ID.Hex(),
		MealType:    entry.MealType,
		Description: entry.Description,
		Calories:    entry.Calories,
		ProteinG:    entry.ProteinG,
		CarbsG:      entry.CarbsG,
		FatG:        entry.FatG,
		MealDate:    entry.MealDate,
		CreatedAt:   entry.CreatedAt,
	}
}
