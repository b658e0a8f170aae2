package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/llm"
)

// FitnessAgent designs the training component. The model is asked for a
// structured JSON plan; any failure to obtain or decode one falls back
// to a deterministic plan keyed off the goal family.
type FitnessAgent struct {
	completer llm.Completer
}

func NewFitnessAgent(completer llm.Completer) *FitnessAgent {
	return &FitnessAgent{completer: completer}
}

// Process designs the fitness plan from research findings and the request.
func (a *FitnessAgent) Process(ctx context.Context, findings ResearchFindings, goals, constraints []string, timeline, fitnessLevel string) FitnessPlan {
	plan := FitnessPlan{
		TrainingPrinciples:   trainingPrinciples(findings, constraints),
		SafetyConsiderations: safetyConsiderations(findings, constraints),
	}

	prompt := fmt.Sprintf(`Design a weekly training plan as JSON.

Goals: %s
Constraints: %s
Timeline: %s
Fitness level: %s

Return a JSON object of this shape:
{
  "weekly_split": ["Mon: ...", "Tue: ...", "Wed: ...", "Thu: ...", "Fri: ...", "Sat: ...", "Sun: ..."],
  "days": {
    "Session Name": [
      {"name": "Exercise", "sets": "3", "reps": "8-12", "notes": "form cue"}
    ]
  },
  "recovery_protocols": ["..."]
}

Each session should be a 30-60 minute workout appropriate for the fitness
level and constraints. Return ONLY the JSON object, no other text.`,
		strings.Join(goals, ", "), strings.Join(constraints, ", "), timeline, fitnessLevel)

	text, err := a.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		log.Printf("WARN: fitness stage completion failed, using default plan: %v", err)
		plan.Days = defaultDays(goals)
		plan.WeeklySplit = defaultWeeklySplit(goals)
		return plan
	}

	decoded, err := decodeFitnessResponse(text)
	if err != nil {
		log.Printf("WARN: fitness stage parse failed, using default plan: %v", err)
		plan.Days = defaultDays(goals)
		plan.WeeklySplit = defaultWeeklySplit(goals)
		return plan
	}

	plan.Days = decoded.days
	plan.WeeklySplit = decoded.weeklySplit
	plan.RecoveryProtocols = decoded.recoveryProtocols
	if len(plan.Days) == 0 {
		plan.Days = defaultDays(goals)
	}
	if len(plan.WeeklySplit) == 0 {
		plan.WeeklySplit = defaultWeeklySplit(goals)
	}
	return plan
}

type fitnessDecoded struct {
	days              map[string][]domain.ExerciseDay
	weeklySplit       []string
	recoveryProtocols []string
}

// legacyDayKeys marks responses where the model put session names at the
// top level instead of under "days".
var legacyDayKeys = []string{"Full Body A", "Foundation Phase", "Mobility & Balance"}

// decodeFitnessResponse handles the three shapes models have produced:
// a "days" object, session names at the top level, or a nested
// "exercises" object. The decode happens once here; everything after
// this point works with []domain.ExerciseDay.
func decodeFitnessResponse(text string) (fitnessDecoded, error) {
	var raw map[string]json.RawMessage
	if err := llm.ExtractJSONInto(text, &raw); err != nil {
		return fitnessDecoded{}, err
	}

	var out fitnessDecoded
	if split, ok := raw["weekly_split"]; ok {
		_ = json.Unmarshal(split, &out.weeklySplit)
	}
	if recovery, ok := raw["recovery_protocols"]; ok {
		_ = json.Unmarshal(recovery, &out.recoveryProtocols)
	}

	if daysRaw, ok := raw["days"]; ok {
		days := make(map[string][]domain.ExerciseDay)
		if err := json.Unmarshal(daysRaw, &days); err != nil {
			return fitnessDecoded{}, fmt.Errorf("decode days: %w", err)
		}
		out.days = days
		return out, nil
	}

	if hasLegacyDayKey(raw) {
		days := make(map[string][]domain.ExerciseDay)
		for key, value := range raw {
			if key == "weekly_split" || key == "recovery_protocols" {
				continue // already consumed above, and string arrays would pass the decode below as shorthand
			}
			var exercises []domain.ExerciseDay
			if err := json.Unmarshal(value, &exercises); err != nil {
				continue
			}
			if len(exercises) > 0 {
				days[key] = exercises
			}
		}
		out.days = days
		return out, nil
	}

	if exercisesRaw, ok := raw["exercises"]; ok {
		days := make(map[string][]domain.ExerciseDay)
		if err := json.Unmarshal(exercisesRaw, &days); err != nil {
			return fitnessDecoded{}, fmt.Errorf("decode exercises: %w", err)
		}
		out.days = days
		return out, nil
	}

	return out, nil
}

func hasLegacyDayKey(raw map[string]json.RawMessage) bool {
	for _, key := range legacyDayKeys {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

func trainingPrinciples(findings ResearchFindings, constraints []string) []string {
	var rules []string
	rules = append(rules, findings.Recommendations...)

	if contains(constraints, "diastasis_recti") {
		rules = append(rules, "Stop any exercise that causes doming or bulging in the abdominal area")
	}
	if contains(constraints, "pelvic_organ_prolapse") {
		rules = append(rules, "Avoid exercises that increase intra-abdominal pressure")
	}

	rules = append(rules,
		"Stop if you experience pain, dizziness, or unusual symptoms",
		"Only progress when current level feels comfortable and manageable",
	)
	return rules
}

func safetyConsiderations(findings ResearchFindings, constraints []string) []string {
	var out []string
	out = append(out, findings.Contraindications...)
	if contains(constraints, "diastasis_recti") {
		out = append(out, "Monitor abdominal separation weekly")
	}
	if contains(constraints, "pelvic_organ_prolapse") {
		out = append(out, "Consider working with pelvic floor physical therapist")
	}
	return out
}

func defaultWeeklySplit(goals []string) []string {
	primary := ""
	if len(goals) > 0 {
		primary = goals[0]
	}
	switch {
	case strings.Contains(primary, "postpartum"):
		return []string{
			"Week 1-4: Foundation Phase",
			"Week 5-8: Progressive Phase",
			"Week 9-12: Integration Phase",
		}
	case strings.Contains(primary, "weight_loss"):
		return []string{
			"Mon: Upper A",
			"Tue: Lower A",
			"Wed: Conditioning",
			"Thu: Upper B",
			"Fri: Lower B",
			"Sat: Active Recovery",
			"Sun: Rest",
		}
	case strings.Contains(primary, "strength"):
		return []string{
			"Mon: Squat + Bench",
			"Tue: Deadlift + Press",
			"Wed: Rest",
			"Thu: Squat + Bench",
			"Fri: Deadlift + Accessories",
			"Sat: Rest",
			"Sun: Rest",
		}
	}
	return []string{
		"Mon: Full Body A",
		"Tue: Rest",
		"Wed: Full Body B",
		"Thu: Rest",
		"Fri: Full Body C",
		"Sat: Active Recovery",
		"Sun: Rest",
	}
}

// defaultDays builds the deterministic plan used when the model gives
// nothing usable. Three families: senior, postpartum, general.
func defaultDays(goals []string) map[string][]domain.ExerciseDay {
	switch {
	case containsAny(goals, "senior_fitness", "mobility", "balance"):
		return map[string][]domain.ExerciseDay{
			"Full Body A": {
				{Name: "Gentle warm-up walk", Sets: "1", Reps: "5-10 min", Notes: "Start slow, gradually increase pace"},
				{Name: "Bodyweight squats", Sets: "3", Reps: "8-12", Notes: "Focus on form, go as deep as comfortable"},
				{Name: "Wall push-ups", Sets: "3", Reps: "8-15", Notes: "Adjust distance from wall for difficulty"},
				{Name: "Seated rows with resistance band", Sets: "3", Reps: "10-15", Notes: "Keep back straight, pull elbows back"},
				{Name: "Heel raises", Sets: "3", Reps: "12-15", Notes: "Hold onto support if needed for balance"},
			},
			"Mobility & Balance": {
				{Name: "Single-leg balance", Sets: "3", Reps: "30s each leg", Notes: "Hold onto support initially"},
				{Name: "Hip circles", Sets: "2", Reps: "10 each direction", Notes: "Gentle circular movements"},
				{Name: "Shoulder rolls", Sets: "2", Reps: "10 forward, 10 backward", Notes: "Full range of motion"},
				{Name: "Ankle mobility", Sets: "2", Reps: "10 each foot", Notes: "Point and flex toes"},
			},
			"Active Recovery": {
				{Name: "Gentle walking", Sets: "1", Reps: "20-30 min", Notes: "Conversational pace"},
				{Name: "Light stretching", Sets: "1", Reps: "10-15 min", Notes: "Hold each stretch 20-30s"},
				{Name: "Deep breathing", Sets: "1", Reps: "5 min", Notes: "4-7-8 breathing pattern"},
			},
		}
	case containsAny(goals, "postpartum", "core_restoration"):
		return map[string][]domain.ExerciseDay{
			"Foundation Phase": {
				{Name: "Pelvic floor activation", Sets: "3", Reps: "5-10", Notes: "Kegels, gentle contractions"},
				{Name: "Gentle walking", Sets: "1", Reps: "15-20 min", Notes: "Flat surface, comfortable pace"},
				{Name: "Pelvic tilts", Sets: "3", Reps: "10-15", Notes: "Lie on back, gentle movements"},
				{Name: "Deep breathing", Sets: "1", Reps: "5 min", Notes: "Diaphragmatic breathing"},
			},
			"Progressive Phase": {
				{Name: "Pelvic floor exercises", Sets: "3", Reps: "10", Notes: "Progressive intensity"},
				{Name: "Bird dog", Sets: "3", Reps: "8-12", Notes: "Start on hands and knees"},
				{Name: "Modified plank", Sets: "3", Reps: "20-30s", Notes: "Knees down, build endurance"},
				{Name: "Gentle squats", Sets: "3", Reps: "8-12", Notes: "Use support if needed"},
			},
			"Integration Phase": {
				{Name: "Dead bug", Sets: "3", Reps: "10-15", Notes: "Core stability focus"},
				{Name: "Bodyweight squats", Sets: "3", Reps: "10-15", Notes: "Full range of motion"},
				{Name: "Modified push-ups", Sets: "3", Reps: "5-10", Notes: "Knees down or wall push-ups"},
				{Name: "Walking lunges", Sets: "2", Reps: "8-10 each leg", Notes: "Light and controlled"},
			},
		}
	}
	return map[string][]domain.ExerciseDay{
		"Full Body A": {
			{Name: "Dynamic warm-up", Sets: "1", Reps: "8-10 min", Notes: "Jumping jacks, arm circles, hip swings"},
			{Name: "Squats", Sets: "4", Reps: "8-12", Notes: "Focus on form, progressive overload"},
			{Name: "Push-ups", Sets: "3", Reps: "8-15", Notes: "Modify difficulty as needed"},
			{Name: "Rows", Sets: "3", Reps: "10-12", Notes: "Dumbbell or resistance band"},
			{Name: "Plank", Sets: "3", Reps: "30-60s", Notes: "Build core endurance"},
		},
		"Cardio & Mobility": {
			{Name: "Light cardio", Sets: "1", Reps: "20-25 min", Notes: "Walking, cycling, or swimming"},
			{Name: "Dynamic stretching", Sets: "1", Reps: "10-15 min", Notes: "Hip swings, leg swings, arm circles"},
			{Name: "Mobility work", Sets: "1", Reps: "10-15 min", Notes: "Shoulder, hip, and ankle mobility"},
		},
		"Full Body B": {
			{Name: "Lunges", Sets: "3", Reps: "10-12 each leg", Notes: "Forward, reverse, and walking variations"},
			{Name: "Dips", Sets: "3", Reps: "8-12", Notes: "Chair dips or parallel bars"},
			{Name: "Pull-ups/Assisted", Sets: "3", Reps: "5-10", Notes: "Use assistance if needed"},
			{Name: "Russian twists", Sets: "3", Reps: "20-30", Notes: "Core rotation work"},
		},
		"Full Body C": {
			{Name: "Deadlift variation", Sets: "3", Reps: "8-12", Notes: "Romanian or single-leg"},
			{Name: "Overhead press", Sets: "3", Reps: "8-12", Notes: "Dumbbell or barbell"},
			{Name: "Lat pulldowns", Sets: "3", Reps: "10-12", Notes: "Focus on lat engagement"},
			{Name: "Core circuit", Sets: "3", Reps: "30s each", Notes: "Plank, side plank, dead bug"},
		},
		"Active Recovery": {
			{Name: "Light walking", Sets: "1", Reps: "25-30 min", Notes: "Conversational pace"},
			{Name: "Gentle stretching", Sets: "1", Reps: "15-20 min", Notes: "Hold stretches 30-60s"},
			{Name: "Foam rolling", Sets: "1", Reps: "10-15 min", Notes: "Major muscle groups"},
		},
	}
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func containsAny(items []string, targets ...string) bool {
	for _, item := range items {
		for _, target := range targets {
			if strings.Contains(item, target) {
				return true
			}
		}
	}
	return false
}
