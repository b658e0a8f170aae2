package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/llm"
)

// NutritionAgent designs the nutrition component. Macro targets come
// from the model when it cooperates; otherwise deterministic defaults
// keyed off the goal list.
type NutritionAgent struct {
	completer llm.Completer
}

func NewNutritionAgent(completer llm.Completer) *NutritionAgent {
	return &NutritionAgent{completer: completer}
}

// Process designs the nutrition plan.
func (a *NutritionAgent) Process(ctx context.Context, fitness FitnessPlan, goals, constraints, preferences []string) NutritionPlan {
	plan := NutritionPlan{
		Goal:        nutritionGoal(goals),
		MealTiming:  defaultMealTiming(),
		Supplements: selectSupplements(goals, constraints),
		Hydration:   defaultHydration(),
	}

	prompt := fmt.Sprintf(`Design daily macro targets as JSON for this profile.

Nutrition goal: %s
Fitness goals: %s
Constraints: %s
Preferences: %s

Return a JSON object of this shape:
{
  "calories": "2000 calories per day",
  "protein": "120g protein per day",
  "carbohydrate": "200g carbohydrates per day",
  "fat": "60g fat per day",
  "meal_timing": ["..."]
}

Return ONLY the JSON object, no other text.`,
		plan.Goal, strings.Join(goals, ", "), strings.Join(constraints, ", "), strings.Join(preferences, ", "))

	text, err := a.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	if err != nil {
		log.Printf("WARN: nutrition stage completion failed, using defaults: %v", err)
		return plan
	}

	var decoded struct {
		Calories     string   `json:"calories"`
		Protein      string   `json:"protein"`
		Carbohydrate string   `json:"carbohydrate"`
		Fat          string   `json:"fat"`
		MealTiming   []string `json:"meal_timing"`
	}
	if err := llm.ExtractJSONInto(text, &decoded); err != nil {
		log.Printf("WARN: nutrition stage parse failed, using defaults: %v", err)
		return plan
	}

	plan.Calories = decoded.Calories
	plan.Protein = decoded.Protein
	plan.Carbohydrate = decoded.Carbohydrate
	plan.Fat = decoded.Fat
	if len(decoded.MealTiming) > 0 {
		plan.MealTiming = decoded.MealTiming
	}
	return plan
}

func nutritionGoal(goals []string) string {
	switch {
	case contains(goals, "weight_loss"):
		return "Create a moderate caloric deficit while preserving muscle mass"
	case contains(goals, "muscle_gain"):
		return "Create a moderate caloric surplus to support muscle growth"
	case contains(goals, "strength_improvement"):
		return "Maintain bodyweight while optimizing performance and recovery"
	case contains(goals, "endurance"):
		return "Optimize carbohydrate intake for performance and recovery"
	case contains(goals, "core_restoration") || contains(goals, "pelvic_floor_recovery"):
		return "Support recovery and healing with adequate protein and nutrients"
	}
	return "Maintain current bodyweight while supporting overall health and fitness"
}

func defaultMealTiming() []string {
	return []string{
		"2-3 hours before exercise: Balanced meal with protein and carbohydrates",
		"30-60 minutes before exercise: Light snack with carbohydrates if needed",
		"Within 2 hours after exercise: Protein and carbohydrates for recovery",
		"Eat every 3-4 hours to maintain stable energy levels",
		"Include protein with each meal to support muscle maintenance",
	}
}

func selectSupplements(goals, constraints []string) []string {
	supplements := []string{
		"Multivitamin: To ensure adequate micronutrient intake",
		"Vitamin D3: 1000-2000 IU daily",
	}
	if containsAny(goals, "strength", "muscle_gain") {
		supplements = append(supplements,
			"Creatine monohydrate: 3-5g daily",
			"Whey protein: To meet protein targets",
		)
	}
	if contains(goals, "endurance") {
		supplements = append(supplements, "Electrolyte supplement: For longer training sessions")
	}
	if containsAny(constraints, "postpartum") {
		supplements = append(supplements,
			"Omega-3 fatty acids: Support brain health and recovery",
			"Iron: If recommended by healthcare provider",
		)
	}
	supplements = append(supplements, "Consult healthcare provider before starting any new supplements")
	return supplements
}

func defaultHydration() domain.Hydration {
	return domain.Hydration{
		Fluids:       "2-3 liters of water per day, 500ml before exercise, 150-300ml every 15-20 minutes during exercise",
		Electrolytes: "Add electrolytes for sessions over 60 minutes or heavy sweating; monitor urine color",
	}
}
