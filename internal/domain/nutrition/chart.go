package nutrition

import "fmt"

// BuildPieSlices computes slice percentages and marks every slice holding the
// maximum value as exploded. An empty or all-zero input yields no slices.
func BuildPieSlices(values []NutrientValue) []PieSlice {
	if len(values) == 0 {
		return nil
	}
	var (
		sum float64
		max = values[0].Value
	)
	for _, v := range values {
		sum += v.Value
		if v.Value > max {
			max = v.Value
		}
	}
	if sum <= 0 {
		return nil
	}
	slices := make([]PieSlice, 0, len(values))
	for _, v := range values {
		pct := v.Value / sum * 100
		slices = append(slices, PieSlice{
			Label:        v.Label,
			Value:        v.Value,
			Percent:      pct,
			PercentLabel: fmt.Sprintf("%.1f%%", pct),
			Exploded:     v.Value == max,
		})
	}
	return slices
}
