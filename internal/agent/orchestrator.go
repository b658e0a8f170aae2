package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/llm"
)

// Orchestrator runs the five specialist stages in order and assembles
// their outputs into the frontend plan document. Stage order matters:
// fitness consumes research, nutrition consumes fitness, safety
// consumes everything.
type Orchestrator struct {
	completer  llm.Completer
	research   *ResearchAgent
	fitness    *FitnessAgent
	nutrition  *NutritionAgent
	motivation *MotivationAgent
	safety     *SafetyAgent
}

func NewOrchestrator(completer llm.Completer) *Orchestrator {
	return &Orchestrator{
		completer:  completer,
		research:   NewResearchAgent(completer),
		fitness:    NewFitnessAgent(completer),
		nutrition:  NewNutritionAgent(completer),
		motivation: NewMotivationAgent(completer),
		safety:     NewSafetyAgent(),
	}
}

// GenerateResult is the orchestrator output: the plan plus the safety
// report that informed it.
type GenerateResult struct {
	PlanID   string
	Plan     domain.PlanDocument
	Metadata domain.PlanMetadata
	Safety   SafetyReport
}

// GeneratePlan runs the full pipeline for one request.
func (o *Orchestrator) GeneratePlan(ctx context.Context, req domain.PlanRequest) (GenerateResult, error) {
	req.ApplyDefaults()

	log.Printf("starting plan generation for %s, goals=%v", req.Population, req.Goals)

	findings := o.research.Process(ctx, req.Population, req.Goals, req.Constraints)
	log.Printf("research stage completed")

	fitness := o.fitness.Process(ctx, findings, req.Goals, req.Constraints, req.Timeline, req.FitnessLevel)
	log.Printf("fitness stage completed, sessions=%d", len(fitness.Days))

	nutrition := o.nutrition.Process(ctx, fitness, req.Goals, req.Constraints, req.Preferences)
	log.Printf("nutrition stage completed")

	motivation := o.motivation.Process(ctx, req.Goals, req.Timeline, req.FitnessLevel, req.Constraints)
	log.Printf("motivation stage completed")

	safety := o.safety.Process(ctx, fitness, nutrition, motivation, req.Constraints, findings)
	log.Printf("safety stage completed, rating=%s score=%d", safety.OverallSafety, safety.RiskScore)

	if err := ctx.Err(); err != nil {
		return GenerateResult{}, err
	}

	plan := domain.PlanDocument{
		Overview:                o.generateOverview(ctx, req),
		WeeklySplit:             normalizeWeeklySplit(fitness.WeeklySplit),
		GlobalRules:             buildGlobalRules(fitness, safety),
		Days:                    formatDays(fitness.Days),
		ConditioningAndRecovery: buildRecovery(fitness),
		Nutrition:               buildNutrition(nutrition),
		ExecutionChecklist:      buildChecklist(req, safety),
	}

	return GenerateResult{
		PlanID: req.PlanID(),
		Plan:   plan,
		Metadata: domain.PlanMetadata{
			Type:       "ai_generated",
			Category:   req.Population,
			Difficulty: req.FitnessLevel,
			Duration:   req.Timeline,
		},
		Safety: safety,
	}, nil
}

func (o *Orchestrator) generateOverview(ctx context.Context, req domain.PlanRequest) string {
	prompt := fmt.Sprintf(`Create a comprehensive overview for a %s health plan.

Goals: %s
Timeline: %s
Fitness Level: %s
Constraints: %s

The overview should:
1. Explain the purpose and approach of the plan
2. Highlight key components (fitness, nutrition, motivation)
3. Emphasize safety and evidence-based approach
4. Set expectations for results and timeline
5. Be encouraging and motivating

Keep it concise but comprehensive (2-3 paragraphs).`,
		req.Population, strings.Join(req.Goals, ", "), req.Timeline,
		req.FitnessLevel, strings.Join(req.Constraints, ", "))

	text, err := o.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt, MaxTokens: 500})
	if err != nil {
		log.Printf("WARN: overview completion failed, using fallback: %v", err)
		return fallbackOverview(req)
	}
	return text
}

func fallbackOverview(req domain.PlanRequest) string {
	return fmt.Sprintf("This comprehensive %s health plan is designed to help you achieve your goals of %s over %s. "+
		"The plan integrates evidence-based fitness programming, personalized nutrition guidance, and motivational strategies to support your journey. "+
		"It is tailored for %s fitness level and takes into account your unique constraints and preferences. "+
		"Safety is the top priority, with built-in validation and modification protocols throughout the program. "+
		"Follow the plan consistently, listen to your body, and celebrate your progress along the way.",
		req.Population, strings.Join(req.Goals, ", "), req.Timeline, req.FitnessLevel)
}

var defaultSplit = []string{
	"Mon: Full Body A",
	"Tue: Rest",
	"Wed: Full Body B",
	"Thu: Rest",
	"Fri: Full Body C",
	"Sat: Active Recovery",
	"Sun: Rest",
}

// normalizeWeeklySplit forces exactly seven entries. Short splits are
// padded from the default at the same positions, long ones truncated.
func normalizeWeeklySplit(split []string) []string {
	if len(split) == 0 {
		out := make([]string, len(defaultSplit))
		copy(out, defaultSplit)
		return out
	}
	out := make([]string, 7)
	for i := 0; i < 7; i++ {
		if i < len(split) {
			out[i] = split[i]
		} else {
			out[i] = defaultSplit[i]
		}
	}
	return out
}

func buildGlobalRules(fitness FitnessPlan, safety SafetyReport) []domain.GlobalRule {
	var rules []domain.GlobalRule
	for _, guideline := range safety.SafetyGuidelines {
		rules = append(rules, domain.GlobalRule{Title: "Safety", Text: guideline})
	}
	for _, principle := range fitness.TrainingPrinciples {
		rules = append(rules, domain.GlobalRule{Title: "Training", Text: principle})
	}
	if len(rules) == 0 {
		rules = []domain.GlobalRule{
			{Title: "Progression", Text: "Start with lighter weights and gradually increase as you become comfortable with the movements."},
			{Title: "Form", Text: "Focus on proper form and technique before increasing intensity or weight."},
		}
	}
	return rules
}

// formatDays renders each session's exercises as numbered display
// strings. An empty structure gets the hardcoded starter session so a
// plan is never delivered without at least one workout.
func formatDays(days map[string][]domain.ExerciseDay) map[string][]string {
	out := make(map[string][]string)
	for name, exercises := range days {
		if len(exercises) == 0 {
			continue
		}
		formatted := make([]string, 0, len(exercises))
		for i, exercise := range exercises {
			formatted = append(formatted, exercise.Format(i+1))
		}
		out[name] = formatted
	}
	if len(out) == 0 {
		out["Full Body A"] = []string{
			"1) Bodyweight squats — 3×10-15",
			"2) Push-ups — 3×5-10",
			"3) Walking lunges — 2×10/leg",
			"4) Plank — 3×30 seconds",
		}
	}
	return out
}

func buildRecovery(fitness FitnessPlan) []string {
	var items []string
	items = append(items, fitness.RecoveryProtocols...)
	if len(items) == 0 {
		items = []string{
			"Include 10-15 minutes of daily mobility work",
			"Prioritize sleep and stress management",
			"Listen to your body and rest when needed",
		}
	}
	return items
}

// buildNutrition reshapes the stage output into the frontend section,
// substituting per-macro defaults for anything the stage left blank.
func buildNutrition(plan NutritionPlan) domain.NutritionInfo {
	info := domain.NutritionInfo{
		Goal:                      plan.Goal,
		Calories:                  plan.Calories,
		Protein:                   plan.Protein,
		Carbohydrate:              plan.Carbohydrate,
		Fat:                       plan.Fat,
		TimingAndTrainingDaySetup: plan.MealTiming,
		Supplements:               plan.Supplements,
		HydrationAndElectrolytes:  plan.Hydration,
	}
	if info.Goal == "" {
		info.Goal = "Support overall health and fitness goals"
	}
	if info.Calories == "" {
		info.Calories = "Maintenance calories"
	}
	if info.Protein == "" {
		info.Protein = "1.6-2.2 g/kg/day"
	}
	if info.Carbohydrate == "" {
		info.Carbohydrate = "3-6 g/kg/day"
	}
	if info.Fat == "" {
		info.Fat = "0.6-1.0 g/kg/day"
	}
	if len(info.TimingAndTrainingDaySetup) == 0 {
		info.TimingAndTrainingDaySetup = []string{
			"Eat every 3-4 hours to maintain stable energy levels",
			"Include protein and carbohydrates within 2 hours after exercise",
		}
	}
	return info
}

func buildChecklist(req domain.PlanRequest, safety SafetyReport) []string {
	checklist := []string{
		"Obtain medical clearance if required",
		"Set up tracking systems for progress monitoring",
		"Prepare workout space and equipment",
		"Plan meals and grocery shopping",
		"Set up accountability systems",
		"Review and adjust plan based on progress",
		"Track key metrics and measurements",
		"Ensure adequate rest and recovery",
		"Stay hydrated and follow nutrition guidelines",
		"Celebrate small wins and progress",
	}
	if safety.OverallSafety != "low_risk" {
		checklist = append(checklist,
			"Monitor for any concerning symptoms",
			"Have emergency contact information readily available",
			"Consider working with a qualified professional",
		)
	}
	if contains(req.Goals, "core_restoration") {
		checklist = append(checklist,
			"Monitor abdominal separation weekly",
			"Focus on proper breathing techniques",
			"Avoid exercises that cause doming",
		)
	}
	return checklist
}
