package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
	usecaseErrors "github.com/meetflow-app/meetflow/internal/usecase/errors"
)

// MeetingStore owns the durable collection of completed and in-flight
// meetings. The collection is ordered most-recent-first. All writes are
// linearized under the mutex; every mutation serializes the full collection
// through the Backend before the in-memory state is updated, so a failed
// write leaves prior state intact.
type MeetingStore struct {
	mu       sync.RWMutex
	meetings []*entities.Meeting

	backend Backend
	key     string
	clk     clock.Clock
	logger  *zap.Logger
}

// NewMeetingStore creates a meeting store persisting under the given key
func NewMeetingStore(backend Backend, key string, clk clock.Clock, logger *zap.Logger) *MeetingStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &MeetingStore{
		backend: backend,
		key:     key,
		clk:     clk,
		logger:  logger,
	}
}

// Load deserializes the persisted collection once at startup. Malformed
// persisted data is not fatal: the store resets to an empty collection.
func (s *MeetingStore) Load(ctx context.Context) error {
	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load meetings: %w", err)
	}
	if !found {
		return nil
	}

	var meetings []*entities.Meeting
	if err := json.Unmarshal(raw, &meetings); err != nil {
		s.logger.Warn("persisted meeting data is malformed, resetting to empty collection",
			zap.String("key", s.key),
			zap.Error(fmt.Errorf("%w: %v", usecaseErrors.ErrPersistenceCorrupt, err)),
		)
		s.mu.Lock()
		s.meetings = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.meetings = meetings
	s.mu.Unlock()

	s.logger.Info("meeting collection loaded", zap.Int("count", len(meetings)))
	return nil
}

// Commit inserts a finalized meeting at the head of the collection.
// A meeting id collision means the session id generation invariant was
// broken, so it is surfaced loudly rather than absorbed.
func (s *MeetingStore) Commit(ctx context.Context, meeting *entities.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfLocked(meeting.ID) >= 0 {
		return fmt.Errorf("%w: %s", usecaseErrors.ErrDuplicateMeeting, meeting.ID)
	}

	candidate := make([]*entities.Meeting, 0, len(s.meetings)+1)
	candidate = append(candidate, meeting.Clone())
	candidate = append(candidate, s.meetings...)

	if err := s.persist(ctx, candidate); err != nil {
		return err
	}
	s.meetings = candidate

	s.logger.Info("meeting committed",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("title", meeting.Title),
		zap.Int("duration_seconds", meeting.DurationSeconds),
	)
	return nil
}

// UpdateStatus sets the status on the matching record. A missing id is
// reported in the log and treated as a no-op.
func (s *MeetingStore) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.logger.Warn("update status for unknown meeting", zap.String("meeting_id", id.String()))
		return nil
	}

	candidate := s.cloneCollectionLocked()
	candidate[idx].Status = status

	if err := s.persist(ctx, candidate); err != nil {
		return err
	}
	s.meetings = candidate
	return nil
}

// AttachAnalysis sets the analysis payload and marks the meeting completed.
// Attaching twice is allowed; the last write wins. A missing id (e.g. the
// meeting was deleted while analysis was in flight) is a logged no-op.
func (s *MeetingStore) AttachAnalysis(ctx context.Context, id uuid.UUID, analysis *entities.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.logger.Warn("attach analysis for unknown meeting", zap.String("meeting_id", id.String()))
		return nil
	}

	candidate := s.cloneCollectionLocked()
	candidate[idx].Analysis = analysis.Clone()
	candidate[idx].Status = entities.MeetingStatusCompleted

	if err := s.persist(ctx, candidate); err != nil {
		return err
	}
	s.meetings = candidate

	s.logger.Info("analysis attached", zap.String("meeting_id", id.String()))
	return nil
}

// GetByID returns a copy of the matching meeting, or nil when absent
func (s *MeetingStore) GetByID(id uuid.UUID) *entities.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil
	}
	return s.meetings[idx].Clone()
}

// List returns copies of all meetings, most-recent-first
func (s *MeetingStore) List() []*entities.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Meeting, len(s.meetings))
	for i, m := range s.meetings {
		out[i] = m.Clone()
	}
	return out
}

// Delete removes the record; absent ids are a no-op
func (s *MeetingStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil
	}

	candidate := make([]*entities.Meeting, 0, len(s.meetings)-1)
	candidate = append(candidate, s.meetings[:idx]...)
	candidate = append(candidate, s.meetings[idx+1:]...)

	if err := s.persist(ctx, candidate); err != nil {
		return err
	}
	s.meetings = candidate

	s.logger.Info("meeting deleted", zap.String("meeting_id", id.String()))
	return nil
}

// ComputeStats derives aggregate statistics over the current collection.
// ThisMonth is evaluated against the store clock at call time.
func (s *MeetingStore) ComputeStats() entities.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clk.Now()
	stats := entities.Stats{Total: len(s.meetings)}
	for _, m := range s.meetings {
		stats.TotalDurationSeconds += m.DurationSeconds
		if m.Status == entities.MeetingStatusCompleted {
			stats.Completed++
		}
		if m.CreatedAt.Year() == now.Year() && m.CreatedAt.Month() == now.Month() {
			stats.ThisMonth++
		}
	}
	return stats
}

func (s *MeetingStore) indexOfLocked(id uuid.UUID) int {
	for i, m := range s.meetings {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *MeetingStore) cloneCollectionLocked() []*entities.Meeting {
	out := make([]*entities.Meeting, len(s.meetings))
	for i, m := range s.meetings {
		out[i] = m.Clone()
	}
	return out
}

func (s *MeetingStore) persist(ctx context.Context, meetings []*entities.Meeting) error {
	raw, err := json.Marshal(meetings)
	if err != nil {
		return fmt.Errorf("%w: %v", usecaseErrors.ErrPersistenceFailed, err)
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%w: %v", usecaseErrors.ErrPersistenceFailed, err)
	}
	return nil
}
