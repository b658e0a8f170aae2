package agent

import (
	"context"

	"slateai/health-planner/internal/domain"
)

// SafetyAgent validates the assembled components. It is fully
// deterministic: static contraindication tables, a risk score, and
// condition-keyed protocols. No model call, so this stage cannot fail.
type SafetyAgent struct{}

func NewSafetyAgent() *SafetyAgent {
	return &SafetyAgent{}
}

var contraindicatedExercises = map[string][]string{
	"diastasis_recti": {
		"Traditional crunches",
		"Sit-ups",
		"Russian twists",
		"Planks (if separation >2cm)",
		"Heavy lifting",
	},
	"pelvic_organ_prolapse": {
		"Heavy lifting",
		"High-impact exercises",
		"Jumping",
		"Running",
		"Squats with heavy weights",
	},
	"pregnancy": {
		"Contact sports",
		"Scuba diving",
		"Hot yoga",
		"Exercises lying on back after 16 weeks",
		"High-impact activities",
	},
	"hypertension": {
		"Heavy lifting",
		"Isometric exercises",
		"High-intensity intervals",
		"Exercises with breath holding",
	},
}

var safeAlternatives = map[string][]Alternative{
	"diastasis_recti": {
		{Original: "Crunches", Alternative: "Pelvic tilts"},
		{Original: "Sit-ups", Alternative: "Dead bug"},
		{Original: "Planks", Alternative: "Bird dog"},
	},
	"pelvic_organ_prolapse": {
		{Original: "Heavy lifting", Alternative: "Light resistance training"},
		{Original: "Jumping", Alternative: "Walking"},
		{Original: "Running", Alternative: "Swimming"},
	},
}

var highRiskConditions = map[string]bool{
	"diastasis_recti":       true,
	"pelvic_organ_prolapse": true,
	"pregnancy":             true,
	"hypertension":          true,
}

var conditionProtocols = map[string][]string{
	"diastasis_recti": {
		"Stop immediately if you notice increased abdominal separation",
		"Seek medical attention if separation worsens or causes pain",
	},
	"pelvic_organ_prolapse": {
		"Stop exercise if you experience pelvic pressure or heaviness",
		"Seek medical attention for any prolapse symptoms",
	},
	"pregnancy": {
		"Stop exercise if you experience vaginal bleeding, contractions, or decreased fetal movement",
		"Seek immediate medical attention for any pregnancy-related concerns",
	},
	"hypertension": {
		"Stop exercise if you experience severe headache, chest pain, or vision changes",
		"Monitor blood pressure regularly and report significant changes",
	},
}

var conditionGuidelines = map[string][]string{
	"diastasis_recti": {
		"Monitor abdominal separation weekly",
		"Stop any exercise that causes doming",
		"Focus on transverse abdominis activation",
		"Consider working with a physical therapist",
	},
	"pelvic_organ_prolapse": {
		"Prioritize pelvic floor strengthening",
		"Avoid exercises that increase intra-abdominal pressure",
		"Consider working with a pelvic floor specialist",
		"Monitor for symptoms of prolapse",
	},
	"pregnancy": {
		"Get medical clearance before starting exercise",
		"Avoid exercises lying on back after 16 weeks",
		"Stay hydrated and avoid overheating",
		"Listen to your body and stop if needed",
	},
}

// Process validates the plan against constraints and scores risk.
func (a *SafetyAgent) Process(ctx context.Context, fitness FitnessPlan, nutrition NutritionPlan, motivation MotivationPlan, constraints []string, findings ResearchFindings) SafetyReport {
	report := SafetyReport{}

	exercises := extractExerciseNames(fitness.Days)
	for _, condition := range constraints {
		banned := contraindicatedExercises[condition]
		for _, exercise := range exercises {
			if contains(banned, exercise) {
				report.FlaggedExercises = append(report.FlaggedExercises, FlaggedExercise{
					Exercise:  exercise,
					Condition: condition,
					RiskLevel: "high",
				})
			}
		}
	}
	if len(report.FlaggedExercises) > 0 {
		for _, condition := range constraints {
			report.SafeAlternatives = append(report.SafeAlternatives, safeAlternatives[condition]...)
		}
	}

	report.RiskScore, report.RiskLevel = assessRisk(constraints, len(report.FlaggedExercises))
	report.SafetyGuidelines = safetyGuidelines(constraints, findings)
	report.EmergencyProtocols = emergencyProtocols(constraints, report.RiskLevel)
	report.OverallSafety = overallRating(report.RiskLevel, len(report.FlaggedExercises))
	return report
}

// assessRisk scores constraints and flagged exercises. Known high-risk
// conditions add 3, everything else 1, each flagged exercise 2.
// Thresholds: 8 high, 4 moderate, otherwise low.
func assessRisk(constraints []string, flaggedCount int) (int, string) {
	score := 0
	for _, constraint := range constraints {
		if highRiskConditions[constraint] {
			score += 3
		} else {
			score += 1
		}
	}
	score += flaggedCount * 2

	switch {
	case score >= 8:
		return score, "high"
	case score >= 4:
		return score, "moderate"
	}
	return score, "low"
}

func safetyGuidelines(constraints []string, findings ResearchFindings) []string {
	var out []string
	out = append(out, findings.Recommendations...)
	for _, condition := range constraints {
		out = append(out, conditionGuidelines[condition]...)
	}
	out = append(out,
		"Start slowly and progress gradually",
		"Stop if you experience pain or unusual symptoms",
		"Stay hydrated during exercise",
		"Get adequate rest and recovery",
		"Consult healthcare provider with any concerns",
	)
	return out
}

func emergencyProtocols(constraints []string, riskLevel string) []string {
	protocols := []string{
		"Stop exercise immediately if you experience chest pain, shortness of breath, or dizziness",
		"Seek medical attention for any severe pain or injury",
		"Call emergency services for any concerning symptoms",
	}
	for _, condition := range constraints {
		protocols = append(protocols, conditionProtocols[condition]...)
	}
	if riskLevel == "high" {
		protocols = append(protocols,
			"Exercise with supervision when possible",
			"Have emergency contact information readily available",
			"Consider working with a qualified fitness professional",
		)
	}
	return protocols
}

func overallRating(riskLevel string, flaggedCount int) string {
	switch {
	case riskLevel == "high" || flaggedCount > 3:
		return "requires_medical_clearance"
	case riskLevel == "moderate" || flaggedCount > 1:
		return "moderate_risk"
	}
	return "low_risk"
}

func extractExerciseNames(days map[string][]domain.ExerciseDay) []string {
	var names []string
	for _, exercises := range days {
		for _, exercise := range exercises {
			if exercise.IsShorthand() {
				names = append(names, exercise.Shorthand)
			} else if exercise.Name != "" {
				names = append(names, exercise.Name)
			}
		}
	}
	return names
}
