package nutrition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleResponse = `### 🍽️ Food Items & Estimated Calories:
- Rice – 180 calories
- fish fry - 200 calories
- Mixed Vegetables: 100 calories
- Unknown item – not estimated

### 🔥 Total Estimated Calories:
**480 calories**

### 📊 Nutritional Breakdown (percent of total calories):
- Carbohydrates: 55%
- Protein: 25%
- Fats: 15%
- Fiber: 3%
- Sugar: 2%

### 🩺 Health Assessment:
Balanced meal.`

func TestExtractItems(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  []Item
		total int
	}{
		{
			name:  "hyphen and en dash separators",
			text:  "- Rice – 180 calories\n- Fish Fry - 200 calories",
			want:  []Item{{Name: "Rice", Calories: 180}, {Name: "Fish Fry", Calories: 200}},
			total: 380,
		},
		{
			name:  "colon separator and title casing",
			text:  "- grilled CHICKEN: 250 calories",
			want:  []Item{{Name: "Grilled Chicken", Calories: 250}},
			total: 250,
		},
		{
			name:  "no matching lines",
			text:  "I could not identify any food in this picture.",
			want:  []Item{},
			total: 0,
		},
		{
			name:  "empty text",
			text:  "",
			want:  []Item{},
			total: 0,
		},
		{
			name:  "non-breaking spaces",
			text:  "- Rice\u00a0Bowl\u00a0– 300\u00a0calories",
			want:  []Item{{Name: "Rice Bowl", Calories: 300}},
			total: 300,
		},
		{
			name:  "arabic-indic calorie digits",
			text:  "- Hummus - ١٢٠ calories",
			want:  []Item{{Name: "Hummus", Calories: 120}},
			total: 120,
		},
		{
			name:  "unknown item is ignored",
			text:  "- Unknown item – not estimated\n- Dal - 150 calories",
			want:  []Item{{Name: "Dal", Calories: 150}},
			total: 150,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			report := ParseReport(tt.text)
			require.Equal(t, tt.want, report.Items)
			require.Equal(t, tt.total, report.TotalCalories)
		})
	}
}

func TestExtractNutrientSection(t *testing.T) {
	t.Run("captures from first keyword to end of text", func(t *testing.T) {
		section := ExtractNutrientSection(sampleResponse)
		require.True(t, len(section) > 0)
		require.Equal(t, "- Carbohydrates: 55%", section[:len("- Carbohydrates: 55%")])
		require.Contains(t, section, "### 🩺 Health Assessment:")
		require.Contains(t, section, "Balanced meal.")
		require.NotContains(t, section, "Rice")
	})

	t.Run("keeps later lines verbatim", func(t *testing.T) {
		section := ExtractNutrientSection("Intro\nCarbohydrates: 55\nProtein: 25")
		require.Equal(t, "Carbohydrates: 55\nProtein: 25", section)
		require.Equal(t, []NutrientValue{{Label: "Carbohydrates", Value: 55}, {Label: "Protein", Value: 25}}, ExtractNutrientValues(section))
	})

	t.Run("keywords are case insensitive", func(t *testing.T) {
		require.Equal(t, "PROTEIN rich\n\nend", ExtractNutrientSection("start\nPROTEIN rich\n\nend\n"))
	})

	t.Run("no keyword yields empty section", func(t *testing.T) {
		section := ExtractNutrientSection("Calories: 300\nVitamins: 12")
		require.Empty(t, section)
		require.Empty(t, ExtractNutrientValues(section))
		require.Nil(t, BuildPieSlices(ExtractNutrientValues(section)))
	})
}

func TestExtractNutrientValues(t *testing.T) {
	section := "- Carbohydrates: 55%\n- Protein: 25.5%\nnotes without numbers\n- Protein: 5\nFats:12 and Fiber: 3"
	got := ExtractNutrientValues(section)
	require.Equal(t, []NutrientValue{
		{Label: "Carbohydrates", Value: 55},
		{Label: "Protein", Value: 25.5},
		{Label: "Protein", Value: 5},
		{Label: "Fats", Value: 12},
	}, got)
}

func TestExtractNutrientValuesUnicodeDigits(t *testing.T) {
	got := ExtractNutrientValues("- Carbohydrates: ٥٥%\n- Protein:\u00a0٢٥.٥%")
	require.Equal(t, []NutrientValue{
		{Label: "Carbohydrates", Value: 55},
		{Label: "Protein", Value: 25.5},
	}, got)
}

func TestAsciiDigits(t *testing.T) {
	require.Equal(t, "0123456789", asciiDigits("٠١٢٣٤٥٦٧٨٩"))
	require.Equal(t, "42", asciiDigits("४२"))
	require.Equal(t, "12.5", asciiDigits("12.5"))
}

func TestParseReportIsIdempotent(t *testing.T) {
	first := ParseReport(sampleResponse)
	second := ParseReport(sampleResponse)
	require.Equal(t, first, second)
	require.Equal(t, 480, first.TotalCalories)
	require.Len(t, first.Items, 3)
	require.Equal(t, "Fish Fry", first.Items[1].Name)
}
