package handler

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetflow-app/meetflow/errors"
	meetingDTO "github.com/meetflow-app/meetflow/internal/adapter/dto/meeting"
	"github.com/meetflow-app/meetflow/internal/domain/entities"
	"github.com/meetflow-app/meetflow/internal/infrastructure/storage"
	"github.com/meetflow-app/meetflow/internal/store"
	"github.com/meetflow-app/meetflow/internal/usecase/analysis"
	usecaseErrors "github.com/meetflow-app/meetflow/internal/usecase/errors"
)

const exportURLExpiry = 24 * time.Hour

// Meeting handles meeting collection HTTP requests
type Meeting struct {
	store    *store.MeetingStore
	engine   *analysis.Service
	exporter *storage.MinIOClient
	logger   *zap.Logger
}

// NewMeeting creates a new meeting handler. The exporter is optional;
// export requests fail cleanly when object storage is disabled.
func NewMeeting(store *store.MeetingStore, engine *analysis.Service, exporter *storage.MinIOClient, logger *zap.Logger) *Meeting {
	return &Meeting{
		store:    store,
		engine:   engine,
		exporter: exporter,
		logger:   logger,
	}
}

// List returns all stored meetings, most recent first
// GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	return HandleSuccess(h.logger, c, h.store.List())
}

// Get returns a single stored meeting
// GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	id, err := parseMeetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting := h.store.GetByID(id)
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(id.String()))
	}
	return HandleSuccess(h.logger, c, meeting)
}

// Delete removes a stored meeting. Deleting an absent meeting succeeds.
// DELETE /v1/meetings/:id
func (h *Meeting) Delete(c echo.Context) error {
	id, err := parseMeetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, errors.ErrPersistenceFailed(err))
	}
	return HandleSuccess(h.logger, c, nil)
}

// Stats returns aggregate statistics over the stored meetings
// GET /v1/stats
func (h *Meeting) Stats(c echo.Context) error {
	return HandleSuccess(h.logger, c, h.store.ComputeStats())
}

// RunAnalysis runs analysis for a stored meeting synchronously
// POST /v1/meetings/:id/analysis
func (h *Meeting) RunAnalysis(c echo.Context) error {
	id, err := parseMeetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.engine.Run(c.Request().Context(), id)
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
			return HandleError(h.logger, c, errors.ErrMeetingNotFound(id.String()))
		case stdErrors.Is(err, usecaseErrors.ErrAnalysisFailed):
			return HandleError(h.logger, c, errors.ErrAnalysisFailed(id.String(), err))
		default:
			return HandleError(h.logger, c, err)
		}
	}
	return HandleSuccess(h.logger, c, result)
}

// Export uploads the meeting transcript to object storage and returns a
// time-limited download URL
// POST /v1/meetings/:id/export
func (h *Meeting) Export(c echo.Context) error {
	id, err := parseMeetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.exporter == nil {
		return HandleError(h.logger, c,
			errors.ErrStorageFailed("export", stdErrors.New("object storage is not enabled")))
	}

	meeting := h.store.GetByID(id)
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(id.String()))
	}

	ctx := c.Request().Context()
	objectName := fmt.Sprintf("transcripts/%s.txt", meeting.ID)

	if err := h.exporter.UploadText(ctx, objectName, renderTranscript(meeting)); err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("upload", err))
	}

	url, err := h.exporter.GetFileURL(ctx, objectName, exportURLExpiry)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
	}

	return HandleSuccess(h.logger, c, meetingDTO.ExportResponse{
		ObjectName: objectName,
		URL:        url,
	})
}

func parseMeetingID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("Invalid meeting id")
	}
	return id, nil
}

// renderTranscript formats the meeting transcript as plain text
func renderTranscript(meeting *entities.Meeting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", meeting.Title)
	fmt.Fprintf(&b, "Started: %s\n", meeting.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n\n", (time.Duration(meeting.DurationSeconds) * time.Second).String())

	for _, line := range meeting.Transcript {
		fmt.Fprintf(&b, "[%02d:%02d] %s: %s\n",
			line.ElapsedSeconds/60, line.ElapsedSeconds%60, line.Speaker, line.Text)
	}
	return b.String()
}
