package history

// CameraSource labels entries whose image came from a live camera capture.
const CameraSource = "camera_image"

// Entry is one persisted record of a past meal analysis.
type Entry struct {
	Timestamp     string `json:"timestamp"`
	Source        string `json:"source"`
	TotalCalories int    `json:"totalCalories"`
	Items         string `json:"items"`
	Nutrients     string `json:"nutrients"`
	Assessment    string `json:"assessment"`
}

// ListResponse is returned to API consumers, most recent first.
type ListResponse struct {
	Entries []Entry `json:"entries"`
}
