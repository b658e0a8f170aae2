package agent

import (
	"context"
	"testing"

	"slateai/health-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		name        string
		constraints []string
		flagged     int
		wantScore   int
		wantLevel   string
	}{
		{"no constraints", nil, 0, 0, "low"},
		{"one minor constraint", []string{"knee_pain"}, 0, 1, "low"},
		{"one high-risk condition", []string{"pregnancy"}, 0, 3, "low"},
		{"high-risk plus minor", []string{"pregnancy", "knee_pain"}, 0, 4, "moderate"},
		{"two high-risk conditions", []string{"diastasis_recti", "hypertension"}, 0, 6, "moderate"},
		{"flagged exercises double", []string{"diastasis_recti"}, 2, 7, "moderate"},
		{"crosses high threshold", []string{"diastasis_recti", "pelvic_organ_prolapse"}, 1, 8, "high"},
		{"flags alone can reach high", nil, 4, 8, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := assessRisk(tt.constraints, tt.flagged)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestOverallRating(t *testing.T) {
	tests := []struct {
		name      string
		riskLevel string
		flagged   int
		want      string
	}{
		{"low risk no flags", "low", 0, "low_risk"},
		{"low risk one flag", "low", 1, "low_risk"},
		{"low risk two flags", "low", 2, "moderate_risk"},
		{"moderate risk", "moderate", 0, "moderate_risk"},
		{"high risk", "high", 0, "requires_medical_clearance"},
		{"many flags override level", "low", 4, "requires_medical_clearance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overallRating(tt.riskLevel, tt.flagged))
		})
	}
}

func TestSafetyAgentProcess(t *testing.T) {
	agent := NewSafetyAgent()
	ctx := context.Background()

	t.Run("flags contraindicated exercises", func(t *testing.T) {
		fitness := FitnessPlan{
			Days: map[string][]domain.ExerciseDay{
				"Core": {
					{Name: "Sit-ups", Sets: "3", Reps: "15"},
					{Name: "Bird dog", Sets: "3", Reps: "10"},
				},
			},
		}
		report := agent.Process(ctx, fitness, NutritionPlan{}, MotivationPlan{}, []string{"diastasis_recti"}, ResearchFindings{})

		require.Len(t, report.FlaggedExercises, 1)
		assert.Equal(t, "Sit-ups", report.FlaggedExercises[0].Exercise)
		assert.Equal(t, "diastasis_recti", report.FlaggedExercises[0].Condition)
		assert.Equal(t, "high", report.FlaggedExercises[0].RiskLevel)
		assert.NotEmpty(t, report.SafeAlternatives)
	})

	t.Run("clean plan has no flags or alternatives", func(t *testing.T) {
		fitness := FitnessPlan{
			Days: map[string][]domain.ExerciseDay{
				"Full Body A": {{Name: "Bodyweight squats", Sets: "3", Reps: "10-15"}},
			},
		}
		report := agent.Process(ctx, fitness, NutritionPlan{}, MotivationPlan{}, []string{"diastasis_recti"}, ResearchFindings{})

		assert.Empty(t, report.FlaggedExercises)
		assert.Empty(t, report.SafeAlternatives)
		assert.Equal(t, "low_risk", report.OverallSafety)
	})

	t.Run("shorthand entries are checked by raw text", func(t *testing.T) {
		fitness := FitnessPlan{
			Days: map[string][]domain.ExerciseDay{
				"Core": {{Shorthand: "Russian twists"}},
			},
		}
		report := agent.Process(ctx, fitness, NutritionPlan{}, MotivationPlan{}, []string{"diastasis_recti"}, ResearchFindings{})
		require.Len(t, report.FlaggedExercises, 1)
		assert.Equal(t, "Russian twists", report.FlaggedExercises[0].Exercise)
	})

	t.Run("high risk adds supervision protocols", func(t *testing.T) {
		fitness := FitnessPlan{
			Days: map[string][]domain.ExerciseDay{
				"Session": {
					{Name: "Heavy lifting"},
					{Name: "Jumping"},
				},
			},
		}
		report := agent.Process(ctx, fitness, NutritionPlan{}, MotivationPlan{}, []string{"pelvic_organ_prolapse", "hypertension"}, ResearchFindings{})

		assert.Equal(t, "high", report.RiskLevel)
		assert.Equal(t, "requires_medical_clearance", report.OverallSafety)
		assert.Contains(t, report.EmergencyProtocols, "Exercise with supervision when possible")
	})

	t.Run("guidelines carry research recommendations and condition rules", func(t *testing.T) {
		findings := ResearchFindings{Recommendations: []string{"Focus on functional movements"}}
		report := agent.Process(ctx, FitnessPlan{}, NutritionPlan{}, MotivationPlan{}, []string{"pregnancy"}, findings)

		assert.Contains(t, report.SafetyGuidelines, "Focus on functional movements")
		assert.Contains(t, report.SafetyGuidelines, "Get medical clearance before starting exercise")
		assert.Contains(t, report.SafetyGuidelines, "Start slowly and progress gradually")
	})
}
