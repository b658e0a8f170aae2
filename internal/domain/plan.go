package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanRequest is the parameter bag for one plan generation call.
// Fields are validated for presence only, not semantic consistency.
type PlanRequest struct {
	Population   string   `json:"population" binding:"required"`
	Goals        []string `json:"goals" binding:"required,min=1"`
	Constraints  []string `json:"constraints"`
	Timeline     string   `json:"timeline"`      // e.g. "12_weeks"
	FitnessLevel string   `json:"fitness_level"` // "beginner", "intermediate", "advanced"
	Preferences  []string `json:"preferences"`
}

// ApplyDefaults fills the optional fields the same way the generation
// pipeline expects them.
func (r *PlanRequest) ApplyDefaults() {
	if r.Timeline == "" {
		r.Timeline = "12_weeks"
	}
	if r.FitnessLevel == "" {
		r.FitnessLevel = "beginner"
	}
	if r.Constraints == nil {
		r.Constraints = []string{}
	}
	if r.Preferences == nil {
		r.Preferences = []string{}
	}
}

// PlanID derives the plan identifier from population and the first two
// goals: lowercased, spaces and hyphens folded to underscores, joined with
// underscores. Deterministic for a given request.
func (r PlanRequest) PlanID() string {
	parts := []string{slugify(r.Population)}
	goals := r.Goals
	if len(goals) > 2 {
		goals = goals[:2]
	}
	for _, g := range goals {
		parts = append(parts, slugify(g))
	}
	return strings.Join(parts, "_")
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// GlobalRule is one titled rule in the plan's global_rules list.
type GlobalRule struct {
	Title string `bson:"title" json:"title"`
	Text  string `bson:"text" json:"text"`
}

// Hydration holds the fluid and electrolyte guidance of the nutrition block.
type Hydration struct {
	Fluids       string `bson:"fluids" json:"fluids"`
	Electrolytes string `bson:"electrolytes" json:"electrolytes"`
}

// NutritionInfo is the nutrition section of a plan document. Macro targets
// are free-text ranges, not numbers; the frontend renders them verbatim.
type NutritionInfo struct {
	Goal                      string    `bson:"goal" json:"goal"`
	Calories                  string    `bson:"calories" json:"calories"`
	Protein                   string    `bson:"protein" json:"protein"`
	Carbohydrate              string    `bson:"carbohydrate" json:"carbohydrate"`
	Fat                       string    `bson:"fat" json:"fat"`
	TimingAndTrainingDaySetup []string  `bson:"timing_and_training_day_setup" json:"timing_and_training_day_setup"`
	Supplements               []string  `bson:"supplements" json:"supplements"`
	HydrationAndElectrolytes  Hydration `bson:"hydration_and_electrolytes" json:"hydration_and_electrolytes"`
}

// PlanDocument is the frontend-facing shape of one generated workout and
// nutrition program. Missing keys are tolerated on read and backfilled with
// defaults by the orchestrator; a stored document always carries all seven
// top-level sections.
type PlanDocument struct {
	Overview                string              `bson:"overview" json:"overview"`
	WeeklySplit             []string            `bson:"weekly_split" json:"weekly_split"` // exactly 7 entries, one per day
	GlobalRules             []GlobalRule        `bson:"global_rules" json:"global_rules"`
	Days                    map[string][]string `bson:"days" json:"days"`
	ConditioningAndRecovery []string            `bson:"conditioning_and_recovery" json:"conditioning_and_recovery"`
	Nutrition               NutritionInfo       `bson:"nutrition" json:"nutrition"`
	ExecutionChecklist      []string            `bson:"execution_checklist" json:"execution_checklist"`
}

// PlanMetadata is free-form descriptive data attached to a stored plan and
// used by the discovery endpoint's filters.
type PlanMetadata struct {
	Type       string `bson:"type" json:"type"` // "generated", "default", "custom"
	Category   string `bson:"category" json:"category"`
	Difficulty string `bson:"difficulty" json:"difficulty"`
	Duration   string `bson:"duration" json:"duration"`
}

// PlanRecord is one stored plan row. plan_id is intended unique but is not
// enforced atomically (check-then-insert). Updates overwrite PlanData in
// place; there is no versioning.
type PlanRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID    string             `bson:"planId" json:"planId"`
	PlanData  PlanDocument       `bson:"planData" json:"planData"`
	Metadata  PlanMetadata       `bson:"metadata" json:"metadata"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseDay is one entry of a training day as produced by the fitness
// stage. LLM output arrives in two forms: a structured object with name,
// sets, reps and notes, or a bare string. Both are decoded here, once, so
// downstream code never has to re-guess the shape.
type ExerciseDay struct {
	// Detailed form. Name is empty for shorthand entries.
	Name  string
	Sets  string
	Reps  string
	Notes string

	// Shorthand form: the raw string as the model produced it.
	Shorthand string
}

// IsShorthand reports whether the entry was decoded from a bare string.
func (e ExerciseDay) IsShorthand() bool {
	return e.Shorthand != ""
}

// Format renders the entry in the frontend list format:
// "N) Name — Sets×Reps (notes)" for detailed entries, "N) text" for
// shorthand ones.
func (e ExerciseDay) Format(position int) string {
	if e.IsShorthand() {
		return fmt.Sprintf("%d) %s", position, e.Shorthand)
	}
	name := e.Name
	if name == "" {
		name = "Exercise"
	}
	sets := e.Sets
	if sets == "" {
		sets = "3"
	}
	reps := e.Reps
	if reps == "" {
		reps = "8-12"
	}
	out := fmt.Sprintf("%d) %s — %s×%s", position, name, sets, reps)
	if e.Notes != "" {
		out += fmt.Sprintf(" (%s)", e.Notes)
	}
	return out
}

// UnmarshalJSON decodes either variant. Numeric sets/reps (models emit both
// `"sets": 3` and `"sets": "3"`) are normalized to strings.
func (e *ExerciseDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = ExerciseDay{Shorthand: s}
		return nil
	}

	var obj struct {
		Name  string          `json:"name"`
		Sets  json.RawMessage `json:"sets"`
		Reps  json.RawMessage `json:"reps"`
		Notes string          `json:"notes"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = ExerciseDay{
		Name:  obj.Name,
		Sets:  rawToString(obj.Sets),
		Reps:  rawToString(obj.Reps),
		Notes: obj.Notes,
	}
	return nil
}

// rawToString renders a JSON scalar (string or number) as its plain text.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}
