package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog records a single exercise performed by a user: one row per
// exercise per session.
type WorkoutLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	Sets         int                `bson:"sets" json:"sets"`
	Reps         int                `bson:"reps" json:"reps"`
	WeightKg     float64            `bson:"weightKg" json:"weightKg"`
	WorkoutDate  time.Time          `bson:"workoutDate" json:"workoutDate"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
