package assistant

import (
	"strings"
	"time"

	"github.com/yanqian/nutrisnap/pkg/metrics"
)

// Period is the horizon of a doctor-style health plan.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod accepts daily, weekly or monthly in any case; empty means daily.
func ParsePeriod(raw string) (Period, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "daily":
		return PeriodDaily, true
	case "weekly":
		return PeriodWeekly, true
	case "monthly":
		return PeriodMonthly, true
	default:
		return "", false
	}
}

// AskRequest is a free-form health question.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse returns the model's answer verbatim.
type AskResponse struct {
	Question   string              `json:"question"`
	Answer     string              `json:"answer"`
	Spoken     bool                `json:"spoken"`
	DurationMs int64               `json:"durationMs,omitempty"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// MealPlanRequest asks for a one-day plan; Category falls back to the session preference.
type MealPlanRequest struct {
	SessionID string `json:"-"`
	Category  string `json:"category"`
}

// MealPlanResponse carries the generated plan.
type MealPlanResponse struct {
	Category     string              `json:"category"`
	GoalCalories int                 `json:"goalCalories"`
	Plan         string              `json:"plan"`
	DurationMs   int64               `json:"durationMs,omitempty"`
	TokenUsage   *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// DoctorPlanRequest selects the plan horizon.
type DoctorPlanRequest struct {
	Period string `json:"period"`
}

// DoctorPlanResponse carries the generated plan.
type DoctorPlanResponse struct {
	Period     Period              `json:"period"`
	Plan       string              `json:"plan"`
	Spoken     bool                `json:"spoken"`
	DurationMs int64               `json:"durationMs,omitempty"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// VoiceRequest carries recorded audio of a spoken question.
type VoiceRequest struct {
	Audio    []byte
	MimeType string
}

// Config wires runtime dependencies for the assistant domain.
type Config struct {
	Model         string
	Temperature   float32
	Speak         bool
	SpeakPrefix   int
	ListenTimeout time.Duration
}
