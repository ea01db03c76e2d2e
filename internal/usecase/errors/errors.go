package errors

import "errors"

// Session errors
var (
	ErrSessionAlreadyActive = errors.New("a recording session is already active")
	ErrNoActiveSession      = errors.New("no active recording session")
	ErrSessionNotPaused     = errors.New("session is not paused")
	ErrSessionNotRecording  = errors.New("session is not recording")
)

// Store errors
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrDuplicateMeeting   = errors.New("meeting id already exists")
	ErrPersistenceCorrupt = errors.New("persisted meeting data is malformed")
	ErrPersistenceFailed  = errors.New("failed to persist meeting collection")
)

// Analysis errors
var (
	ErrAnalysisFailed = errors.New("meeting analysis failed")
)
