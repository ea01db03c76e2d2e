package meeting

// ExportResponse represents a transcript export result
type ExportResponse struct {
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
}
