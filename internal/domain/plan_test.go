package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRequestPlanID(t *testing.T) {
	tests := []struct {
		name string
		req  PlanRequest
		want string
	}{
		{
			name: "population plus two goals",
			req:  PlanRequest{Population: "weight_loss", Goals: []string{"fat_loss", "endurance"}},
			want: "weight_loss_fat_loss_endurance",
		},
		{
			name: "only first two goals count",
			req:  PlanRequest{Population: "general", Goals: []string{"strength", "mobility", "endurance"}},
			want: "general_strength_mobility",
		},
		{
			name: "spaces and hyphens fold to underscores",
			req:  PlanRequest{Population: "Senior Fitness", Goals: []string{"fall-prevention"}},
			want: "senior_fitness_fall_prevention",
		},
		{
			name: "single goal",
			req:  PlanRequest{Population: "postpartum", Goals: []string{"core_restoration"}},
			want: "postpartum_core_restoration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.PlanID())
			// Deterministic: same request, same id.
			assert.Equal(t, tt.req.PlanID(), tt.req.PlanID())
		})
	}
}

func TestPlanRequestApplyDefaults(t *testing.T) {
	req := PlanRequest{Population: "general", Goals: []string{"strength"}}
	req.ApplyDefaults()

	assert.Equal(t, "12_weeks", req.Timeline)
	assert.Equal(t, "beginner", req.FitnessLevel)
	assert.NotNil(t, req.Constraints)
	assert.NotNil(t, req.Preferences)

	// Explicit values survive.
	req2 := PlanRequest{Population: "general", Goals: []string{"strength"}, Timeline: "8_weeks", FitnessLevel: "advanced"}
	req2.ApplyDefaults()
	assert.Equal(t, "8_weeks", req2.Timeline)
	assert.Equal(t, "advanced", req2.FitnessLevel)
}

func TestExerciseDayUnmarshalJSON(t *testing.T) {
	t.Run("detailed object", func(t *testing.T) {
		var e ExerciseDay
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Squats","sets":"4","reps":"8-12","notes":"go deep"}`), &e))
		assert.Equal(t, "Squats", e.Name)
		assert.Equal(t, "4", e.Sets)
		assert.Equal(t, "8-12", e.Reps)
		assert.Equal(t, "go deep", e.Notes)
		assert.False(t, e.IsShorthand())
	})

	t.Run("numeric sets and reps normalize to strings", func(t *testing.T) {
		var e ExerciseDay
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Plank","sets":3,"reps":45}`), &e))
		assert.Equal(t, "3", e.Sets)
		assert.Equal(t, "45", e.Reps)
	})

	t.Run("bare string becomes shorthand", func(t *testing.T) {
		var e ExerciseDay
		require.NoError(t, json.Unmarshal([]byte(`"Walking lunges 2x10 per leg"`), &e))
		assert.True(t, e.IsShorthand())
		assert.Equal(t, "Walking lunges 2x10 per leg", e.Shorthand)
	})

	t.Run("mixed list", func(t *testing.T) {
		var day []ExerciseDay
		data := `[{"name":"Squats","sets":"3","reps":"10"},"Plank 3x30s"]`
		require.NoError(t, json.Unmarshal([]byte(data), &day))
		require.Len(t, day, 2)
		assert.False(t, day[0].IsShorthand())
		assert.True(t, day[1].IsShorthand())
	})
}

func TestExerciseDayFormat(t *testing.T) {
	tests := []struct {
		name     string
		entry    ExerciseDay
		position int
		want     string
	}{
		{
			name:     "full detail with notes",
			entry:    ExerciseDay{Name: "Squats", Sets: "4", Reps: "8-12", Notes: "focus on form"},
			position: 1,
			want:     "1) Squats — 4×8-12 (focus on form)",
		},
		{
			name:     "no notes",
			entry:    ExerciseDay{Name: "Push-ups", Sets: "3", Reps: "5-10"},
			position: 2,
			want:     "2) Push-ups — 3×5-10",
		},
		{
			name:     "missing fields get defaults",
			entry:    ExerciseDay{},
			position: 3,
			want:     "3) Exercise — 3×8-12",
		},
		{
			name:     "shorthand passes through",
			entry:    ExerciseDay{Shorthand: "Plank 3x30 seconds"},
			position: 4,
			want:     "4) Plank 3x30 seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Format(tt.position))
		})
	}
}
