package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetflow-app/meetflow/errors"
	recorderDTO "github.com/meetflow-app/meetflow/internal/adapter/dto/recorder"
	"github.com/meetflow-app/meetflow/internal/session"
	usecaseErrors "github.com/meetflow-app/meetflow/internal/usecase/errors"
)

// Recorder handles recording session HTTP requests
type Recorder struct {
	recorder *session.Recorder
	logger   *zap.Logger
}

// NewRecorder creates a new recorder handler
func NewRecorder(recorder *session.Recorder, logger *zap.Logger) *Recorder {
	return &Recorder{
		recorder: recorder,
		logger:   logger,
	}
}

// Start begins a new recording session
// POST /v1/recorder/start
func (h *Recorder) Start(c echo.Context) error {
	var req recorderDTO.StartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.recorder.Start(session.StartConfig{
		Title:        req.Title,
		Participants: req.Participants,
	})
	if err != nil {
		return HandleError(h.logger, c, h.mapSessionError(err))
	}

	return HandleSuccess(h.logger, c, recorderDTO.SessionResponse{
		State:          string(h.recorder.State()),
		ElapsedSeconds: h.recorder.ElapsedSeconds(),
		Meeting:        meeting,
	})
}

// Pause halts elapsed-time accounting for the active session
// POST /v1/recorder/pause
func (h *Recorder) Pause(c echo.Context) error {
	if err := h.recorder.Pause(); err != nil {
		return HandleError(h.logger, c, h.mapSessionError(err))
	}
	return h.respondSession(c)
}

// Resume continues a paused session
// POST /v1/recorder/resume
func (h *Recorder) Resume(c echo.Context) error {
	if err := h.recorder.Resume(); err != nil {
		return HandleError(h.logger, c, h.mapSessionError(err))
	}
	return h.respondSession(c)
}

// AppendTranscript appends a transcript line to the active session
// POST /v1/recorder/transcript
func (h *Recorder) AppendTranscript(c echo.Context) error {
	var req recorderDTO.TranscriptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	line, err := h.recorder.AppendTranscript(req.Speaker, req.Text)
	if err != nil {
		return HandleError(h.logger, c, h.mapSessionError(err))
	}

	return HandleSuccess(h.logger, c, recorderDTO.TranscriptResponse{Line: line})
}

// Stop finalizes the active session. Stopping with no active session
// succeeds with an empty payload.
// POST /v1/recorder/stop
func (h *Recorder) Stop(c echo.Context) error {
	meeting, err := h.recorder.Stop(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, h.mapSessionError(err))
	}

	return HandleSuccess(h.logger, c, recorderDTO.SessionResponse{
		State:   string(h.recorder.State()),
		Meeting: meeting,
	})
}

// Get returns the current session state and in-progress meeting
// GET /v1/recorder
func (h *Recorder) Get(c echo.Context) error {
	return h.respondSession(c)
}

func (h *Recorder) respondSession(c echo.Context) error {
	return HandleSuccess(h.logger, c, recorderDTO.SessionResponse{
		State:          string(h.recorder.State()),
		ElapsedSeconds: h.recorder.ElapsedSeconds(),
		Meeting:        h.recorder.Snapshot(),
	})
}

// mapSessionError translates session errors into client-facing errors
func (h *Recorder) mapSessionError(err error) error {
	switch {
	case stdErrors.Is(err, usecaseErrors.ErrSessionAlreadyActive):
		activeID := ""
		if snap := h.recorder.Snapshot(); snap != nil {
			activeID = snap.ID.String()
		}
		return errors.ErrSessionAlreadyActive(activeID)
	case stdErrors.Is(err, usecaseErrors.ErrNoActiveSession):
		return errors.ErrNoActiveSession()
	case stdErrors.Is(err, usecaseErrors.ErrSessionNotRecording):
		return errors.ErrSessionInvalidState(string(session.StatePaused), string(session.StateRecording))
	case stdErrors.Is(err, usecaseErrors.ErrSessionNotPaused):
		return errors.ErrSessionInvalidState(string(session.StateRecording), string(session.StatePaused))
	case stdErrors.Is(err, usecaseErrors.ErrPersistenceFailed):
		return errors.ErrPersistenceFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrDuplicateMeeting):
		return errors.ErrDuplicateMeeting("")
	default:
		return err
	}
}
