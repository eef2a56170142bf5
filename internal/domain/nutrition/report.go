package nutrition

import (
	"fmt"
	"strings"
)

// AssessmentComplete is stored as the assessment of every analysis. The
// model's free-text assessment is shown in RawResponse but not extracted.
const AssessmentComplete = "Assessment complete"

// ReportFilename is the suggested name of the downloadable report.
const ReportFilename = "nutrition_report.txt"

const itemSeparator = " | "

// FlattenItems renders items as "Name - N calories" joined by " | ".
func FlattenItems(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %d calories", item.Name, item.Calories))
	}
	return strings.Join(lines, itemSeparator)
}

// FlattenNutrients collapses the nutrient section onto one line.
func FlattenNutrients(section string) string {
	return strings.ReplaceAll(section, "\n", " ")
}

// BuildReport assembles the plain-text downloadable report.
func BuildReport(items, nutrients, assessment string) string {
	return fmt.Sprintf("Items: %s\n\nNutrients: %s\n\nAssessment: %s", items, nutrients, assessment)
}
