package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"slateai/health-planner/internal/llm"
)

// MotivationAgent builds goal-setting and adherence scaffolding.
type MotivationAgent struct {
	completer llm.Completer
}

func NewMotivationAgent(completer llm.Completer) *MotivationAgent {
	return &MotivationAgent{completer: completer}
}

// Process designs the motivation plan.
func (a *MotivationAgent) Process(ctx context.Context, goals []string, timeline, fitnessLevel string, constraints []string) MotivationPlan {
	plan := MotivationPlan{
		ProcessGoals: defaultProcessGoals(),
		OutcomeGoals: outcomeGoals(goals),
		HabitTips:    defaultHabitTips(),
		Milestones:   defaultMilestones(timeline),
	}

	prompt := fmt.Sprintf(`Write 3-5 short encouragement statements as JSON for someone
starting a %s plan at %s level over %s. Goals: %s.

Return a JSON object: {"encouragement": ["...", "..."]}
Return ONLY the JSON object, no other text.`,
		strings.Join(goals, ", "), fitnessLevel, timeline, strings.Join(goals, ", "))

	text, err := a.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt, MaxTokens: 500})
	if err != nil {
		log.Printf("WARN: motivation stage completion failed, using defaults: %v", err)
		return plan
	}

	var decoded struct {
		Encouragement []string `json:"encouragement"`
	}
	if err := llm.ExtractJSONInto(text, &decoded); err != nil {
		log.Printf("WARN: motivation stage parse failed, using defaults: %v", err)
		return plan
	}
	plan.Encouragement = decoded.Encouragement
	return plan
}

func defaultProcessGoals() []string {
	return []string{
		"Complete 3 workout sessions per week",
		"Follow nutrition plan 80% of the time",
		"Get 7-9 hours of sleep per night",
		"Stay hydrated throughout the day",
	}
}

func outcomeGoals(goals []string) []string {
	var out []string
	if contains(goals, "weight_loss") {
		out = append(out, "Lose 0.5-1 kg per week")
	}
	if contains(goals, "strength_improvement") {
		out = append(out, "Increase strength by 5-10% over 12 weeks")
	}
	if contains(goals, "core_restoration") {
		out = append(out, "Reduce diastasis recti separation by 50%")
	}
	return out
}

func defaultHabitTips() []string {
	return []string{
		"Schedule workouts like appointments",
		"Prepare workout clothes and meals the night before",
		"Track every session, even incomplete ones",
		"Pair new habits with existing routines",
	}
}

func defaultMilestones(timeline string) []string {
	return []string{
		"Week 2: consistent session attendance",
		"Week 4: review progress and adjust loads",
		"Midpoint: reassess measurements and goals",
		fmt.Sprintf("End of %s: full plan review and next block", timeline),
	}
}
