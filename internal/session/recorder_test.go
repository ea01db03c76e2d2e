package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
	usecaseErrors "github.com/meetflow-app/meetflow/internal/usecase/errors"
)

type fakeCommitter struct {
	meetings []*entities.Meeting
	err      error
}

func (f *fakeCommitter) Commit(_ context.Context, meeting *entities.Meeting) error {
	if f.err != nil {
		return f.err
	}
	f.meetings = append(f.meetings, meeting)
	return nil
}

type fakeScheduler struct {
	ids []uuid.UUID
}

func (f *fakeScheduler) Schedule(meetingID uuid.UUID) {
	f.ids = append(f.ids, meetingID)
}

func newTestRecorder(mock *clock.Mock) (*Recorder, *fakeCommitter, *fakeScheduler) {
	committer := &fakeCommitter{}
	scheduler := &fakeScheduler{}
	rec := NewRecorder(committer, scheduler, mock, Options{
		DefaultParticipants: []string{"You", "Sarah Chen"},
	}, nil)
	return rec, committer, scheduler
}

func TestRecorderLifecycle(t *testing.T) {
	mock := clock.NewMock()
	rec, committer, scheduler := newTestRecorder(mock)

	meeting, err := rec.Start(StartConfig{Title: "Sprint Planning"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if meeting.Title != "Sprint Planning" {
		t.Errorf("Expected title Sprint Planning, got %s", meeting.Title)
	}
	if meeting.Status != entities.MeetingStatusRecording {
		t.Errorf("Expected status recording, got %s", meeting.Status)
	}
	if len(meeting.Participants) != 2 {
		t.Errorf("Expected 2 default participants, got %d", len(meeting.Participants))
	}
	if rec.State() != StateRecording {
		t.Errorf("Expected state recording, got %s", rec.State())
	}

	mock.Add(5 * time.Second)

	if got := rec.ElapsedSeconds(); got != 5 {
		t.Errorf("Expected 5 elapsed seconds, got %d", got)
	}

	stopped, err := rec.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if stopped == nil {
		t.Fatal("Stop returned nil meeting")
	}
	if stopped.DurationSeconds != 5 {
		t.Errorf("Expected duration 5s, got %d", stopped.DurationSeconds)
	}
	if stopped.Status != entities.MeetingStatusProcessing {
		t.Errorf("Expected status processing, got %s", stopped.Status)
	}
	if stopped.EndTime == nil {
		t.Error("Expected end time to be set")
	}

	if len(committer.meetings) != 1 || committer.meetings[0].ID != stopped.ID {
		t.Error("Expected the stopped meeting to be committed")
	}
	if len(scheduler.ids) != 1 || scheduler.ids[0] != stopped.ID {
		t.Error("Expected analysis to be scheduled for the stopped meeting")
	}
	if rec.State() != StateIdle {
		t.Errorf("Expected idle state after stop, got %s", rec.State())
	}
	if rec.Snapshot() != nil {
		t.Error("Expected nil snapshot after stop")
	}
}

func TestPauseExcludesTime(t *testing.T) {
	mock := clock.NewMock()
	rec, _, _ := newTestRecorder(mock)

	if _, err := rec.Start(StartConfig{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	mock.Add(3 * time.Second)
	if err := rec.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if rec.State() != StatePaused {
		t.Errorf("Expected paused state, got %s", rec.State())
	}

	mock.Add(10 * time.Second)
	if got := rec.ElapsedSeconds(); got != 3 {
		t.Errorf("Expected elapsed to hold at 3s while paused, got %d", got)
	}

	if err := rec.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	mock.Add(2 * time.Second)

	if got := rec.ElapsedSeconds(); got != 5 {
		t.Errorf("Expected 5 elapsed seconds after resume, got %d", got)
	}

	stopped, err := rec.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if stopped.DurationSeconds != 5 {
		t.Errorf("Expected duration to exclude paused time, got %d", stopped.DurationSeconds)
	}
}

func TestStartWhileActive(t *testing.T) {
	mock := clock.NewMock()
	rec, _, _ := newTestRecorder(mock)

	first, err := rec.Start(StartConfig{Title: "First"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := rec.Start(StartConfig{Title: "Second"}); !errors.Is(err, usecaseErrors.ErrSessionAlreadyActive) {
		t.Fatalf("Expected ErrSessionAlreadyActive, got %v", err)
	}

	// The failed attempt must not disturb the running session.
	snap := rec.Snapshot()
	if snap == nil || snap.ID != first.ID || snap.Title != "First" {
		t.Error("Expected the original session to stay intact")
	}
}

func TestDefaultTitle(t *testing.T) {
	mock := clock.NewMock()
	rec, _, _ := newTestRecorder(mock)

	meeting, err := rec.Start(StartConfig{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if meeting.Title != "Untitled Meeting" {
		t.Errorf("Expected default title, got %q", meeting.Title)
	}
}

func TestAppendTranscript(t *testing.T) {
	mock := clock.NewMock()
	rec, _, _ := newTestRecorder(mock)

	if _, err := rec.AppendTranscript("You", "hello"); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Fatalf("Expected ErrNoActiveSession while idle, got %v", err)
	}

	if _, err := rec.Start(StartConfig{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	mock.Add(2 * time.Second)
	first, err := rec.AppendTranscript("You", "let's get started")
	if err != nil {
		t.Fatalf("AppendTranscript failed: %v", err)
	}
	if first.ElapsedSeconds != 2 {
		t.Errorf("Expected line stamped at 2s, got %d", first.ElapsedSeconds)
	}

	mock.Add(4 * time.Second)
	second, err := rec.AppendTranscript("Sarah Chen", "agenda first")
	if err != nil {
		t.Fatalf("AppendTranscript failed: %v", err)
	}
	if second.ElapsedSeconds != 6 {
		t.Errorf("Expected line stamped at 6s, got %d", second.ElapsedSeconds)
	}

	stopped, err := rec.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if len(stopped.Transcript) != 2 {
		t.Fatalf("Expected 2 transcript lines, got %d", len(stopped.Transcript))
	}
	if stopped.Transcript[0].ID != first.ID || stopped.Transcript[1].ID != second.ID {
		t.Error("Expected transcript order to match append order")
	}
}

func TestAppendTranscriptWhilePaused(t *testing.T) {
	mock := clock.NewMock()
	rec, _, _ := newTestRecorder(mock)

	if _, err := rec.Start(StartConfig{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	mock.Add(3 * time.Second)
	if err := rec.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	line, err := rec.AppendTranscript("You", "noted while paused")
	if err != nil {
		t.Fatalf("AppendTranscript while paused failed: %v", err)
	}
	if line.ElapsedSeconds != 3 {
		t.Errorf("Expected paused line stamped at 3s, got %d", line.ElapsedSeconds)
	}
}

func TestStopIdleIsNoOp(t *testing.T) {
	mock := clock.NewMock()
	rec, committer, scheduler := newTestRecorder(mock)

	meeting, err := rec.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop on idle recorder failed: %v", err)
	}
	if meeting != nil {
		t.Error("Expected nil meeting from idle stop")
	}
	if len(committer.meetings) != 0 || len(scheduler.ids) != 0 {
		t.Error("Expected no commit or schedule from idle stop")
	}
}

func TestInvalidStateTransitions(t *testing.T) {
	mock := clock.NewMock()
	rec, _, _ := newTestRecorder(mock)

	if err := rec.Pause(); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Errorf("Expected ErrNoActiveSession from idle pause, got %v", err)
	}
	if err := rec.Resume(); !errors.Is(err, usecaseErrors.ErrNoActiveSession) {
		t.Errorf("Expected ErrNoActiveSession from idle resume, got %v", err)
	}

	if _, err := rec.Start(StartConfig{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := rec.Resume(); !errors.Is(err, usecaseErrors.ErrSessionNotPaused) {
		t.Errorf("Expected ErrSessionNotPaused from recording resume, got %v", err)
	}

	if err := rec.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := rec.Pause(); !errors.Is(err, usecaseErrors.ErrSessionNotRecording) {
		t.Errorf("Expected ErrSessionNotRecording from paused pause, got %v", err)
	}
}

func TestStopCommitFailureKeepsSession(t *testing.T) {
	mock := clock.NewMock()
	committer := &fakeCommitter{err: errors.New("backend down")}
	scheduler := &fakeScheduler{}
	rec := NewRecorder(committer, scheduler, mock, Options{
		DefaultParticipants: []string{"You"},
	}, nil)

	if _, err := rec.Start(StartConfig{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	mock.Add(2 * time.Second)

	if _, err := rec.Stop(context.Background()); err == nil {
		t.Fatal("Expected commit failure to surface")
	}
	if rec.State() != StateRecording {
		t.Errorf("Expected session to stay active after failed commit, got %s", rec.State())
	}
	if len(scheduler.ids) != 0 {
		t.Error("Expected no analysis scheduled after failed commit")
	}

	// Once the backend recovers the same session stops cleanly.
	committer.err = nil
	stopped, err := rec.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop after recovery failed: %v", err)
	}
	if stopped == nil || stopped.DurationSeconds != 2 {
		t.Errorf("Expected the original session to stop with 2s duration, got %+v", stopped)
	}
}
