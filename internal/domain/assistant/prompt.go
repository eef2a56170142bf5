package assistant

import (
	"fmt"
	"strings"
)

func mealPlanPrompt(category string, goalCalories int) string {
	prompt := fmt.Sprintf("Create a one-day %s meal plan with breakfast, lunch, dinner, snacks, and estimated calories.", strings.ToLower(category))
	if goalCalories > 0 {
		prompt += fmt.Sprintf(" Keep the daily total close to %d calories.", goalCalories)
	}
	return prompt
}

func doctorPlanPrompt(period Period) string {
	return fmt.Sprintf(`
You are an AI Doctor. Generate a detailed %s health plan including:
- Diet advice
- Exercise guidance
- Hydration goals
- Stress & sleep tips
- Routine suggestions
- Lifestyle improvements
Format it in markdown with clear headers and bullets.
`, period)
}

