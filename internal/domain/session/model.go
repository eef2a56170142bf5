package session

import "strings"

// Category is a meal-plan goal offered to the user.
type Category string

const (
	CategoryGeneralHealth    Category = "General Health"
	CategoryWeightLoss       Category = "Weight Loss"
	CategoryMuscleGain       Category = "Muscle Gain"
	CategoryDiabeticFriendly Category = "Diabetic Friendly"
	CategoryHeartHealthy     Category = "Heart Healthy"
)

// Categories lists every supported meal-plan category in display order.
var Categories = []Category{
	CategoryGeneralHealth,
	CategoryWeightLoss,
	CategoryMuscleGain,
	CategoryDiabeticFriendly,
	CategoryHeartHealthy,
}

// ParseCategory matches raw against the known categories, ignoring case and
// treating dashes/underscores as spaces.
func ParseCategory(raw string) (Category, bool) {
	clean := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(raw))
	for _, c := range Categories {
		if strings.EqualFold(clean, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Preferences are held for the lifetime of one interactive session.
type Preferences struct {
	GoalCalories int      `json:"goalCalories"`
	MealPlan     Category `json:"mealPlan"`
}

// UpdateRequest carries a partial preferences update.
type UpdateRequest struct {
	GoalCalories *int    `json:"goalCalories"`
	MealPlan     *string `json:"mealPlan"`
}

// Response is serialized back to API consumers.
type Response struct {
	SessionID   string      `json:"sessionId"`
	Preferences Preferences `json:"preferences"`
	Categories  []Category  `json:"categories"`
}

// Config bounds the preferences.
type Config struct {
	DefaultGoalCalories int
	MinGoalCalories     int
	MaxGoalCalories     int
	DefaultMealPlan     Category
}
