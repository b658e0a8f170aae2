package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account holder in the coaching platform.
// Profile fields feed directly into plan generation prompts, so they live
// alongside the credentials rather than in a separate collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Profile ---
	Age                 int      `bson:"age,omitempty" json:"age,omitempty"`
	WeightKg            float64  `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	HeightCm            float64  `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	FitnessGoals        []string `bson:"fitnessGoals,omitempty" json:"fitnessGoals,omitempty"`
	FitnessGoalType     string   `bson:"fitnessGoalType,omitempty" json:"fitnessGoalType,omitempty"` // e.g. "building_muscle", "weight_loss"
	FitnessLevel        string   `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`       // "beginner", "intermediate", "advanced"
	InjuriesLimitations string   `bson:"injuriesLimitations,omitempty" json:"injuriesLimitations,omitempty"`
}
