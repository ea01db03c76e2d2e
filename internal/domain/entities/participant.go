package entities

import (
	"strings"

	"github.com/google/uuid"
)

// Participant represents a person in the active recording session.
// The Speaking flag is live telemetry and is mutated in place while recording.
type Participant struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	AvatarInitials string    `json:"avatarInitials"`
	Speaking       bool      `json:"speaking"`
}

// NewParticipant creates a participant with initials derived from the name
func NewParticipant(name string) Participant {
	return Participant{
		ID:             uuid.New(),
		Name:           name,
		AvatarInitials: Initials(name),
	}
}

// Initials derives up-to-two uppercase initials from a display name
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}
	initials := string([]rune(fields[0])[0])
	if len(fields) > 1 {
		last := fields[len(fields)-1]
		initials += string([]rune(last)[0])
	}
	return strings.ToUpper(initials)
}
