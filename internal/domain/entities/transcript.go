package entities

import (
	"github.com/google/uuid"
)

// TranscriptLine is a single speech segment. Lines are immutable once
// appended and ordered by append time; ElapsedSeconds is stamped from the
// session clock at append time, so append order equals elapsed-time order.
type TranscriptLine struct {
	ID             uuid.UUID `json:"id"`
	Speaker        string    `json:"speaker"`
	Text           string    `json:"text"`
	ElapsedSeconds int       `json:"elapsedSeconds"`
}

// NewTranscriptLine creates a transcript line stamped at the given elapsed time
func NewTranscriptLine(speaker, text string, elapsedSeconds int) TranscriptLine {
	return TranscriptLine{
		ID:             uuid.New(),
		Speaker:        speaker,
		Text:           text,
		ElapsedSeconds: elapsedSeconds,
	}
}
