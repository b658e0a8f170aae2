package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"slateai/health-planner/internal/llm"
)

// ResearchAgent gathers population guidance used by the later stages.
// The contraindication and recommendation tables are static; the model
// call enriches guidelines but the stage never fails the pipeline.
type ResearchAgent struct {
	completer llm.Completer
}

func NewResearchAgent(completer llm.Completer) *ResearchAgent {
	return &ResearchAgent{completer: completer}
}

var populationContraindications = map[string][]string{
	"postpartum_reconditioning": {
		"Unresolved diastasis recti >2cm",
		"Pelvic organ prolapse symptoms",
		"Uncontrolled bleeding",
		"C-section complications",
	},
	"weight_loss": {
		"Severe obesity complications",
		"Uncontrolled hypertension",
		"Cardiac conditions",
	},
}

var constraintContraindications = map[string][]string{
	"diastasis_recti":       {"Traditional crunches", "Sit-ups", "Heavy lifting"},
	"pelvic_organ_prolapse": {"High-impact exercises", "Heavy lifting"},
	"hypertension":          {"Heavy lifting", "Isometric exercises"},
}

var populationRecommendations = map[string][]string{
	"postpartum_reconditioning": {
		"Begin exercise 6-8 weeks postpartum with medical clearance",
		"Start with gentle walking and pelvic floor exercises",
		"Progress gradually and listen to your body",
		"Stop if you experience pain or unusual symptoms",
	},
	"weight_loss": {
		"Start with low-impact activities",
		"Gradually increase intensity and duration",
		"Focus on sustainable lifestyle changes",
		"Monitor progress and adjust as needed",
	},
}

// Process gathers findings for the population and goals.
func (a *ResearchAgent) Process(ctx context.Context, population string, goals, constraints []string) ResearchFindings {
	findings := ResearchFindings{
		Population:        population,
		Goals:             goals,
		Constraints:       constraints,
		Contraindications: contraindicationsFor(population, constraints),
		Recommendations:   recommendationsFor(population),
	}

	prompt := fmt.Sprintf(`For %s population with constraints: %s

Please provide:
1. List of contraindicated exercises or activities
2. Safety considerations
3. Recommended modifications
4. Warning signs to watch for

Format as structured safety guidelines.`, population, strings.Join(constraints, ", "))

	text, err := a.completer.Complete(ctx, llm.CompletionRequest{Prompt: prompt, MaxTokens: 1000})
	if err != nil {
		log.Printf("WARN: research stage completion failed, using static guidance: %v", err)
		return findings
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			findings.Guidelines = append(findings.Guidelines, line)
		}
	}
	return findings
}

func contraindicationsFor(population string, constraints []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(items []string) {
		for _, item := range items {
			if !seen[item] {
				seen[item] = true
				out = append(out, item)
			}
		}
	}
	add(populationContraindications[population])
	for _, constraint := range constraints {
		add(constraintContraindications[constraint])
	}
	return out
}

func recommendationsFor(population string) []string {
	if recs, ok := populationRecommendations[population]; ok {
		return recs
	}
	return []string{"Consult healthcare provider before starting any exercise program"}
}
