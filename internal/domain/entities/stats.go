package entities

// Stats is a read-model derived from the full meeting collection.
// It is recomputed on demand and never stored.
type Stats struct {
	Total                int `json:"total"`
	Completed            int `json:"completed"`
	TotalDurationSeconds int `json:"totalDurationSeconds"`
	ThisMonth            int `json:"thisMonth"`
}
