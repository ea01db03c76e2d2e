package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle status of a meeting record
type MeetingStatus string

const (
	// MeetingStatusRecording only ever describes the in-memory session;
	// a stored meeting never carries it.
	MeetingStatusRecording  MeetingStatus = "recording"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
)

// Meeting is the persisted record of a finished (or finishing) recording.
// Field names are part of the persistence contract and must stay stable.
type Meeting struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	StartTime       time.Time        `json:"startTime"`
	EndTime         *time.Time       `json:"endTime,omitempty"`
	DurationSeconds int              `json:"durationSeconds"`
	Status          MeetingStatus    `json:"status"`
	Participants    []Participant    `json:"participants"`
	Transcript      []TranscriptLine `json:"transcript"`
	Analysis        *Analysis        `json:"analysis,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// NewMeeting creates a new in-progress meeting with a fresh unique ID
func NewMeeting(title string, startTime time.Time) *Meeting {
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		StartTime: startTime,
		Status:    MeetingStatusRecording,
		CreatedAt: startTime,
	}
}

// IsCompleted checks whether analysis has finished for this meeting
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingStatusCompleted
}

// Clone returns a deep copy. Transcript and participant slices are copied
// so the caller can mutate its copy without sharing state with the store.
func (m *Meeting) Clone() *Meeting {
	if m == nil {
		return nil
	}
	cp := *m

	if m.EndTime != nil {
		end := *m.EndTime
		cp.EndTime = &end
	}
	if m.Participants != nil {
		cp.Participants = make([]Participant, len(m.Participants))
		copy(cp.Participants, m.Participants)
	}
	if m.Transcript != nil {
		cp.Transcript = make([]TranscriptLine, len(m.Transcript))
		copy(cp.Transcript, m.Transcript)
	}
	if m.Analysis != nil {
		cp.Analysis = m.Analysis.Clone()
	}
	return &cp
}
