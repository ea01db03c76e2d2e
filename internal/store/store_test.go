package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
	"github.com/meetflow-app/meetflow/internal/infrastructure/kv"
	usecaseErrors "github.com/meetflow-app/meetflow/internal/usecase/errors"
)

func newTestStore(mock *clock.Mock) (*MeetingStore, *kv.MemoryStore) {
	backend := kv.NewMemoryStore()
	return NewMeetingStore(backend, "meetings", mock, nil), backend
}

// flakyBackend wraps the memory backend and fails writes on demand
type flakyBackend struct {
	inner   *kv.MemoryStore
	failSet bool
}

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return b.inner.Get(ctx, key)
}

func (b *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.failSet {
		return errors.New("backend write refused")
	}
	return b.inner.Set(ctx, key, value)
}

func finishedMeeting(title string, start time.Time, durationSeconds int) *entities.Meeting {
	m := entities.NewMeeting(title, start)
	end := start.Add(time.Duration(durationSeconds) * time.Second)
	m.EndTime = &end
	m.DurationSeconds = durationSeconds
	m.Status = entities.MeetingStatusProcessing
	return m
}

func TestCommitAndList(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)
	ctx := context.Background()

	first := finishedMeeting("First", mock.Now(), 60)
	second := finishedMeeting("Second", mock.Now().Add(time.Hour), 120)

	if err := s.Commit(ctx, first); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := s.Commit(ctx, second); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("Expected 2 meetings, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("Expected most-recent-first ordering")
	}
}

func TestCommitDuplicate(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)
	ctx := context.Background()

	m := finishedMeeting("Standup", mock.Now(), 30)
	if err := s.Commit(ctx, m); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := s.Commit(ctx, m); !errors.Is(err, usecaseErrors.ErrDuplicateMeeting) {
		t.Fatalf("Expected ErrDuplicateMeeting, got %v", err)
	}
	if len(s.List()) != 1 {
		t.Error("Expected duplicate commit to leave the collection unchanged")
	}
}

func TestGetByIDReturnsCopy(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)
	ctx := context.Background()

	m := finishedMeeting("Retro", mock.Now(), 45)
	if err := s.Commit(ctx, m); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	got := s.GetByID(m.ID)
	if got == nil {
		t.Fatal("Expected meeting to be found")
	}
	got.Title = "mutated"

	if s.GetByID(m.ID).Title != "Retro" {
		t.Error("Expected store state to be isolated from caller mutation")
	}

	if s.GetByID(uuid.New()) != nil {
		t.Error("Expected nil for unknown id")
	}
}

func TestPersistRoundtrip(t *testing.T) {
	mock := clock.NewMock()
	s, backend := newTestStore(mock)
	ctx := context.Background()

	m := finishedMeeting("Design Review", mock.Now(), 90)
	m.Transcript = []entities.TranscriptLine{
		entities.NewTranscriptLine("You", "kicking off", 1),
	}
	if err := s.Commit(ctx, m); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	reloaded := NewMeetingStore(backend, "meetings", mock, nil)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := reloaded.GetByID(m.ID)
	if got == nil {
		t.Fatal("Expected persisted meeting after reload")
	}
	if got.Title != "Design Review" || got.DurationSeconds != 90 {
		t.Errorf("Unexpected reloaded meeting: %+v", got)
	}
	if len(got.Transcript) != 1 || got.Transcript[0].Text != "kicking off" {
		t.Error("Expected transcript to survive the roundtrip")
	}
}

func TestLoadMalformedData(t *testing.T) {
	mock := clock.NewMock()
	s, backend := newTestStore(mock)
	ctx := context.Background()

	if err := backend.Set(ctx, "meetings", []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Load(ctx); err != nil {
		t.Fatalf("Expected malformed data to be non-fatal, got %v", err)
	}
	if len(s.List()) != 0 {
		t.Error("Expected empty collection after malformed load")
	}

	// The store keeps working after recovery.
	if err := s.Commit(ctx, finishedMeeting("Fresh", mock.Now(), 10)); err != nil {
		t.Fatalf("Commit after recovery failed: %v", err)
	}
}

func TestDeleteAbsentIsNoOp(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)
	ctx := context.Background()

	if err := s.Delete(ctx, uuid.New()); err != nil {
		t.Fatalf("Expected delete of absent meeting to succeed, got %v", err)
	}

	m := finishedMeeting("One", mock.Now(), 15)
	if err := s.Commit(ctx, m); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(s.List()) != 0 {
		t.Error("Expected empty collection after delete")
	}
}

func TestUpdateStatus(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)
	ctx := context.Background()

	m := finishedMeeting("Standup", mock.Now(), 30)
	if err := s.Commit(ctx, m); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if err := s.UpdateStatus(ctx, m.ID, entities.MeetingStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if got := s.GetByID(m.ID); got.Status != entities.MeetingStatusCompleted {
		t.Errorf("Expected completed status, got %s", got.Status)
	}

	// Unknown ids are a reported no-op.
	if err := s.UpdateStatus(ctx, uuid.New(), entities.MeetingStatusCompleted); err != nil {
		t.Fatalf("Expected update of unknown meeting to be a no-op, got %v", err)
	}
}

func TestAttachAnalysis(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)
	ctx := context.Background()

	m := finishedMeeting("Planning", mock.Now(), 300)
	if err := s.Commit(ctx, m); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	analysis := &entities.Analysis{Summary: "short summary"}
	if err := s.AttachAnalysis(ctx, m.ID, analysis); err != nil {
		t.Fatalf("AttachAnalysis failed: %v", err)
	}

	got := s.GetByID(m.ID)
	if got.Status != entities.MeetingStatusCompleted {
		t.Errorf("Expected completed status, got %s", got.Status)
	}
	if got.Analysis == nil || got.Analysis.Summary != "short summary" {
		t.Error("Expected analysis to be attached")
	}

	// Attaching to a deleted meeting is a no-op, not an error.
	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.AttachAnalysis(ctx, m.ID, analysis); err != nil {
		t.Fatalf("Expected attach after delete to be a no-op, got %v", err)
	}
	if s.GetByID(m.ID) != nil {
		t.Error("Expected meeting to stay deleted")
	}
}

func TestAttachAnalysisIdempotent(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)
	ctx := context.Background()

	m := finishedMeeting("Planning", mock.Now(), 300)
	if err := s.Commit(ctx, m); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	analysis := &entities.Analysis{
		Summary:   "first pass",
		KeyPoints: []string{"a", "b"},
	}
	if err := s.AttachAnalysis(ctx, m.ID, analysis); err != nil {
		t.Fatalf("AttachAnalysis failed: %v", err)
	}
	once, err := json.Marshal(s.GetByID(m.ID))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Attaching the same payload again leaves the record identical.
	if err := s.AttachAnalysis(ctx, m.ID, analysis); err != nil {
		t.Fatalf("Second AttachAnalysis failed: %v", err)
	}
	twice, err := json.Marshal(s.GetByID(m.ID))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(once) != string(twice) {
		t.Errorf("Expected double attach to leave the meeting identical\nonce:  %s\ntwice: %s", once, twice)
	}

	// A re-run with a new payload wins outright.
	if err := s.AttachAnalysis(ctx, m.ID, &entities.Analysis{Summary: "second pass"}); err != nil {
		t.Fatalf("Overwriting AttachAnalysis failed: %v", err)
	}
	got := s.GetByID(m.ID)
	if got.Analysis.Summary != "second pass" {
		t.Errorf("Expected last write to win, got %q", got.Analysis.Summary)
	}
	if len(got.Analysis.KeyPoints) != 0 {
		t.Errorf("Expected the old payload to be fully replaced, got %v", got.Analysis.KeyPoints)
	}
	if got.Status != entities.MeetingStatusCompleted {
		t.Errorf("Expected completed status, got %s", got.Status)
	}
}

func TestFailedWriteLeavesStateIntact(t *testing.T) {
	mock := clock.NewMock()
	backend := &flakyBackend{inner: kv.NewMemoryStore()}
	s := NewMeetingStore(backend, "meetings", mock, nil)
	ctx := context.Background()

	first := finishedMeeting("First", mock.Now(), 60)
	if err := s.Commit(ctx, first); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	before, err := json.Marshal(s.List())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	statsBefore := s.ComputeStats()

	backend.failSet = true

	if err := s.Commit(ctx, finishedMeeting("Second", mock.Now(), 30)); !errors.Is(err, usecaseErrors.ErrPersistenceFailed) {
		t.Fatalf("Expected ErrPersistenceFailed from commit, got %v", err)
	}
	if err := s.UpdateStatus(ctx, first.ID, entities.MeetingStatusCompleted); !errors.Is(err, usecaseErrors.ErrPersistenceFailed) {
		t.Fatalf("Expected ErrPersistenceFailed from update, got %v", err)
	}
	if err := s.AttachAnalysis(ctx, first.ID, &entities.Analysis{Summary: "x"}); !errors.Is(err, usecaseErrors.ErrPersistenceFailed) {
		t.Fatalf("Expected ErrPersistenceFailed from attach, got %v", err)
	}
	if err := s.Delete(ctx, first.ID); !errors.Is(err, usecaseErrors.ErrPersistenceFailed) {
		t.Fatalf("Expected ErrPersistenceFailed from delete, got %v", err)
	}

	after, err := json.Marshal(s.List())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("Expected failed writes to leave the collection unchanged\nbefore: %s\nafter:  %s", before, after)
	}
	if s.ComputeStats() != statsBefore {
		t.Errorf("Expected stats to be unchanged after failed writes")
	}

	// Once the backend recovers, writes go through again.
	backend.failSet = false
	if err := s.UpdateStatus(ctx, first.ID, entities.MeetingStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus after recovery failed: %v", err)
	}
	if got := s.GetByID(first.ID); got.Status != entities.MeetingStatusCompleted {
		t.Errorf("Expected completed status after recovery, got %s", got.Status)
	}
}

func TestComputeStats(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC))
	s, _ := newTestStore(mock)
	ctx := context.Background()

	thisMonth := finishedMeeting("Recent", time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC), 600)
	lastMonth := finishedMeeting("Older", time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC), 900)

	if err := s.Commit(ctx, lastMonth); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := s.Commit(ctx, thisMonth); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := s.AttachAnalysis(ctx, thisMonth.ID, &entities.Analysis{Summary: "done"}); err != nil {
		t.Fatalf("AttachAnalysis failed: %v", err)
	}

	stats := s.ComputeStats()
	if stats.Total != 2 {
		t.Errorf("Expected total 2, got %d", stats.Total)
	}
	if stats.Completed != 1 {
		t.Errorf("Expected 1 completed, got %d", stats.Completed)
	}
	if stats.TotalDurationSeconds != 1500 {
		t.Errorf("Expected total duration 1500s, got %d", stats.TotalDurationSeconds)
	}
	if stats.ThisMonth != 1 {
		t.Errorf("Expected 1 meeting this month, got %d", stats.ThisMonth)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	mock := clock.NewMock()
	s, _ := newTestStore(mock)

	stats := s.ComputeStats()
	if stats.Total != 0 || stats.Completed != 0 || stats.TotalDurationSeconds != 0 || stats.ThisMonth != 0 {
		t.Errorf("Expected zeroed stats, got %+v", stats)
	}
}
