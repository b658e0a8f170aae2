package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFitnessResponse(t *testing.T) {
	t.Run("days object", func(t *testing.T) {
		text := `{
			"weekly_split": ["Mon: Full Body A", "Tue: Rest"],
			"days": {
				"Full Body A": [
					{"name": "Squats", "sets": "3", "reps": "8-12", "notes": "controlled tempo"},
					"Plank 3x30s"
				]
			},
			"recovery_protocols": ["Sleep 7-9 hours"]
		}`
		decoded, err := decodeFitnessResponse(text)
		require.NoError(t, err)
		require.Contains(t, decoded.days, "Full Body A")
		require.Len(t, decoded.days["Full Body A"], 2)
		assert.Equal(t, "Squats", decoded.days["Full Body A"][0].Name)
		assert.True(t, decoded.days["Full Body A"][1].IsShorthand())
		assert.Equal(t, []string{"Mon: Full Body A", "Tue: Rest"}, decoded.weeklySplit)
		assert.Equal(t, []string{"Sleep 7-9 hours"}, decoded.recoveryProtocols)
	})

	t.Run("session names at top level", func(t *testing.T) {
		text := `{
			"weekly_split": ["Week 1-4: Foundation Phase"],
			"recovery_protocols": ["Prioritize sleep"],
			"Foundation Phase": [
				{"name": "Pelvic tilts", "sets": 3, "reps": "10-15"}
			],
			"Mobility & Balance": [
				{"name": "Hip circles", "sets": "2", "reps": "10 each direction"}
			]
		}`
		decoded, err := decodeFitnessResponse(text)
		require.NoError(t, err)
		require.Contains(t, decoded.days, "Foundation Phase")
		require.Contains(t, decoded.days, "Mobility & Balance")
		assert.Equal(t, "3", decoded.days["Foundation Phase"][0].Sets)
		assert.Equal(t, []string{"Week 1-4: Foundation Phase"}, decoded.weeklySplit)
		assert.Equal(t, []string{"Prioritize sleep"}, decoded.recoveryProtocols)
		// String arrays decode as shorthand entries, so the metadata
		// keys would otherwise leak in as fake sessions.
		assert.NotContains(t, decoded.days, "weekly_split")
		assert.NotContains(t, decoded.days, "recovery_protocols")
	})

	t.Run("nested exercises object", func(t *testing.T) {
		text := `Here is your plan: {"exercises": {"Upper A": [{"name": "Rows", "sets": "3", "reps": "10-12"}]}}`
		decoded, err := decodeFitnessResponse(text)
		require.NoError(t, err)
		require.Contains(t, decoded.days, "Upper A")
		assert.Equal(t, "Rows", decoded.days["Upper A"][0].Name)
	})

	t.Run("no recognizable shape yields empty days", func(t *testing.T) {
		decoded, err := decodeFitnessResponse(`{"something_else": true}`)
		require.NoError(t, err)
		assert.Empty(t, decoded.days)
	})

	t.Run("non-JSON text errors", func(t *testing.T) {
		_, err := decodeFitnessResponse("I cannot design a plan right now.")
		assert.Error(t, err)
	})
}

func TestDefaultDays(t *testing.T) {
	t.Run("senior family", func(t *testing.T) {
		days := defaultDays([]string{"senior_fitness"})
		assert.Contains(t, days, "Full Body A")
		assert.Contains(t, days, "Mobility & Balance")
		assert.Contains(t, days, "Active Recovery")
	})

	t.Run("postpartum family", func(t *testing.T) {
		days := defaultDays([]string{"core_restoration"})
		assert.Contains(t, days, "Foundation Phase")
		assert.Contains(t, days, "Progressive Phase")
		assert.Contains(t, days, "Integration Phase")
	})

	t.Run("general family", func(t *testing.T) {
		days := defaultDays([]string{"strength_improvement"})
		assert.Contains(t, days, "Full Body A")
		assert.Contains(t, days, "Full Body B")
		assert.Contains(t, days, "Full Body C")
	})

	t.Run("every default entry is detailed", func(t *testing.T) {
		for _, goals := range [][]string{{"senior_fitness"}, {"postpartum"}, {"weight_loss"}} {
			for session, exercises := range defaultDays(goals) {
				require.NotEmpty(t, exercises, "session %s", session)
				for _, e := range exercises {
					assert.False(t, e.IsShorthand())
					assert.NotEmpty(t, e.Name)
					assert.NotEmpty(t, e.Sets)
					assert.NotEmpty(t, e.Reps)
				}
			}
		}
	})
}

func TestDefaultWeeklySplit(t *testing.T) {
	tests := []struct {
		name  string
		goals []string
		first string
		days  int
	}{
		{"postpartum is phased", []string{"postpartum_recovery"}, "Week 1-4: Foundation Phase", 3},
		{"weight loss is five sessions", []string{"weight_loss"}, "Mon: Upper A", 7},
		{"strength is four sessions", []string{"strength_improvement"}, "Mon: Squat + Bench", 7},
		{"general fallback", []string{"flexibility"}, "Mon: Full Body A", 7},
		{"no goals", nil, "Mon: Full Body A", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := defaultWeeklySplit(tt.goals)
			require.Len(t, split, tt.days)
			assert.Equal(t, tt.first, split[0])
		})
	}
}
