package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealLog records one logged meal with estimated macros.
type MealLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	MealType    string             `bson:"mealType" json:"mealType"` // "breakfast", "lunch", "dinner", "snack"
	Description string             `bson:"description" json:"description"`
	Calories    int                `bson:"calories" json:"calories"`
	ProteinG    float64            `bson:"proteinG" json:"proteinG"`
	CarbsG      float64            `bson:"carbsG" json:"carbsG"`
	FatG        float64            `bson:"fatG" json:"fatG"`
	MealDate    time.Time          `bson:"mealDate" json:"mealDate"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
