package nutrition

import (
	"time"

	"github.com/yanqian/nutrisnap/pkg/metrics"
)

// Item is one food line extracted from the model's report.
type Item struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// NutrientValue is a labeled number found in the nutrient section.
type NutrientValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PieSlice is one computed wedge of the nutrient pie chart.
type PieSlice struct {
	Label        string  `json:"label"`
	Value        float64 `json:"value"`
	Percent      float64 `json:"percent"`
	PercentLabel string  `json:"percentLabel"`
	Exploded     bool    `json:"exploded"`
}

// ParsedReport is derived from one model response and discarded afterwards.
type ParsedReport struct {
	Items           []Item
	NutrientSection string
	TotalCalories   int
}

// Source identifies how the image was captured.
type Source string

const (
	SourceUpload Source = "upload"
	SourceCamera Source = "camera"
)

// AnalyzeRequest captures one uploaded meal photo.
type AnalyzeRequest struct {
	SessionID string
	Filename  string
	Source    Source
	MimeType  string
	Image     []byte
}

// AnalysisResponse is serialized back to API consumers.
type AnalysisResponse struct {
	ID                string              `json:"id"`
	Source            string              `json:"source"`
	Items             []Item              `json:"items"`
	TotalCalories     int                 `json:"totalCalories"`
	NutrientSection   string              `json:"nutrientSection"`
	Nutrients         []NutrientValue     `json:"nutrients"`
	Slices            []PieSlice          `json:"slices"`
	ChartAvailable    bool                `json:"chartAvailable"`
	Assessment        string              `json:"assessment"`
	Report            string              `json:"report"`
	Blurry            bool                `json:"blurry"`
	Warnings          []string            `json:"warnings,omitempty"`
	RawResponse       string              `json:"rawResponse"`
	GoalCalories      int                 `json:"goalCalories"`
	RemainingCalories int                 `json:"remainingCalories"`
	DurationMs        int64               `json:"durationMs,omitempty"`
	TokenUsage        *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// Artifact holds the downloadable outputs of one analysis.
type Artifact struct {
	ID        string    `json:"id"`
	Report    string    `json:"report"`
	ChartPNG  []byte    `json:"chartPng,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredObject captures archived image metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// Config wires runtime dependencies for the nutrition domain.
type Config struct {
	Model         string
	Temperature   float32
	BlurDetection bool
	ArtifactTTL   time.Duration
	ArchiveImages bool
}
