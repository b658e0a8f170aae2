package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		path := writeFile(t, `{
			"building_muscle": {"overview": "hypertrophy block", "weekly_split": ["Mon: Push"]},
			"weight_loss": {"overview": "cut block"}
		}`)
		cat, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, cat.Len())

		plan, ok := cat.Get("building_muscle")
		require.True(t, ok)
		assert.Equal(t, "hypertrophy block", plan.Overview)

		_, ok = cat.Get("no_such_plan")
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeFile(t, `{"building_muscle": `)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("shipped catalog parses", func(t *testing.T) {
		cat, err := Load(filepath.Join("..", "..", "data", "workout_plans.json"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cat.Len(), 3)

		for _, id := range []string{"building_muscle", "weight_loss", "strength"} {
			plan, ok := cat.Get(id)
			require.True(t, ok, "expected bundled plan %s", id)
			assert.NotEmpty(t, plan.Overview)
			assert.Len(t, plan.WeeklySplit, 7)
			assert.NotEmpty(t, plan.Days)
			assert.NotEmpty(t, plan.Nutrition.Protein)
		}
	})
}

func TestAllReturnsACopy(t *testing.T) {
	path := writeFile(t, `{"weight_loss": {"overview": "cut block"}}`)
	cat, err := Load(path)
	require.NoError(t, err)

	all := cat.All()
	delete(all, "weight_loss")

	_, ok := cat.Get("weight_loss")
	assert.True(t, ok, "mutating the returned map must not touch the catalog")
}

func TestEmpty(t *testing.T) {
	cat := Empty()
	assert.Equal(t, 0, cat.Len())
	assert.Empty(t, cat.All())
	_, ok := cat.Get("anything")
	assert.False(t, ok)
}
