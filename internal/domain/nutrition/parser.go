package nutrition

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// itemPattern matches "- <name> <hyphen|en-dash|colon> <n> calories". Letters,
// digits and spaces are Unicode-aware. The name class includes line breaks, so a
// name may span lines.
var itemPattern = regexp.MustCompile(`- ([\p{L}\p{N}_\s\p{Zs}]+)[–\-:][\s\p{Zs}]*(\p{Nd}+)[\s\p{Zs}]*calories`)

// nutrientValuePattern matches "<word>: <number>" anywhere on a line.
var nutrientValuePattern = regexp.MustCompile(`([\p{L}\p{N}_]+):[\s\p{Zs}]*(\p{Nd}+\.?\p{Nd}*)`)

var nutrientKeywords = []string{"carbohydrates", "protein", "fats", "fiber", "sugar"}

// ParseReport extracts items, the nutrient section and the calorie total.
// It never fails: unrecognised text yields empty fields.
func ParseReport(text string) ParsedReport {
	items := ExtractItems(text)
	return ParsedReport{
		Items:           items,
		NutrientSection: ExtractNutrientSection(text),
		TotalCalories:   TotalCalories(items),
	}
}

// ExtractItems returns every item line in encounter order.
func ExtractItems(text string) []Item {
	matches := itemPattern.FindAllStringSubmatch(text, -1)
	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		calories, err := strconv.Atoi(asciiDigits(m[2]))
		if err != nil {
			continue
		}
		items = append(items, Item{Name: titleCase(cleanName(m[1])), Calories: calories})
	}
	return items
}

// cleanName trims the name and turns space separators such as NBSP into plain spaces.
func cleanName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r != ' ' && unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// asciiDigits rewrites decimal digits of any script as 0-9. Unicode lays out
// each script's digits as a contiguous run starting at zero.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII || !unicode.IsDigit(r) {
			return r
		}
		zero := r
		for unicode.IsDigit(zero - 1) {
			zero--
		}
		return '0' + (r-zero)%10
	}, s)
}

// titleCase builds a fresh Caser per call; Casers are stateful.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// TotalCalories sums item calories.
func TotalCalories(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Calories
	}
	return total
}

// ExtractNutrientSection captures from the first line mentioning a nutrient
// keyword through the end of the text. Capture does not stop at later headers.
func ExtractNutrientSection(text string) string {
	var (
		builder strings.Builder
		found   bool
	)
	for _, line := range strings.Split(text, "\n") {
		if !found && containsKeyword(strings.ToLower(line)) {
			found = true
		}
		if found {
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}
	return strings.TrimSpace(builder.String())
}

func containsKeyword(lower string) bool {
	for _, kw := range nutrientKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractNutrientValues reads the first "<word>: <number>" pair of each line.
// Duplicate labels are kept in encounter order.
func ExtractNutrientValues(section string) []NutrientValue {
	var values []NutrientValue
	for _, line := range strings.Split(section, "\n") {
		m := nutrientValuePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(asciiDigits(m[2]), 64)
		if err != nil {
			continue
		}
		values = append(values, NutrientValue{Label: m[1], Value: value})
	}
	return values
}
