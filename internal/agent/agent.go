package agent

import (
	"slateai/health-planner/internal/domain"
)

// ResearchFindings is the research stage output handed to later stages.
type ResearchFindings struct {
	Population        string
	Goals             []string
	Constraints       []string
	Guidelines        []string
	Contraindications []string
	Recommendations   []string
}

// FitnessPlan is the fitness stage output. Days holds the decoded
// exercise structure keyed by session name.
type FitnessPlan struct {
	Days                 map[string][]domain.ExerciseDay
	WeeklySplit          []string
	TrainingPrinciples   []string
	RecoveryProtocols    []string
	SafetyConsiderations []string
}

// NutritionPlan is the nutrition stage output.
type NutritionPlan struct {
	Goal         string
	Calories     string
	Protein      string
	Carbohydrate string
	Fat          string
	MealTiming   []string
	Supplements  []string
	Hydration    domain.Hydration
}

// MotivationPlan is the motivation stage output.
type MotivationPlan struct {
	ProcessGoals  []string
	OutcomeGoals  []string
	HabitTips     []string
	Milestones    []string
	Encouragement []string
}

// FlaggedExercise records a plan entry that conflicts with a condition.
type FlaggedExercise struct {
	Exercise  string `json:"exercise"`
	Condition string `json:"condition"`
	RiskLevel string `json:"risk_level"`
}

// Alternative pairs a contraindicated exercise with a safe substitute.
type Alternative struct {
	Original    string `json:"original"`
	Alternative string `json:"alternative"`
}

// SafetyReport is the safety stage output.
type SafetyReport struct {
	FlaggedExercises   []FlaggedExercise
	SafeAlternatives   []Alternative
	SafetyGuidelines   []string
	EmergencyProtocols []string
	RiskScore          int
	RiskLevel          string
	OverallSafety      string
}
