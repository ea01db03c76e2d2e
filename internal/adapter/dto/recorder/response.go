package recorder

import "github.com/meetflow-app/meetflow/internal/domain/entities"

// SessionResponse represents the current recording session in responses
type SessionResponse struct {
	State          string            `json:"state"`
	ElapsedSeconds int               `json:"elapsedSeconds"`
	Meeting        *entities.Meeting `json:"meeting,omitempty"`
}

// TranscriptResponse wraps the appended transcript line
type TranscriptResponse struct {
	Line entities.TranscriptLine `json:"line"`
}
