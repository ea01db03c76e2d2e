package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
	usecaseErrors "github.com/meetflow-app/meetflow/internal/usecase/errors"
)

// State represents the recording session state
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
)

// Committer receives the finalized meeting when a session stops
type Committer interface {
	Commit(ctx context.Context, meeting *entities.Meeting) error
}

// Scheduler kicks off asynchronous post-processing for a committed meeting
type Scheduler interface {
	Schedule(meetingID uuid.UUID)
}

// StartConfig carries the caller-supplied options for a new recording
type StartConfig struct {
	Title        string
	Participants []string
}

// Options holds recorder tuning knobs
type Options struct {
	// SpeakingInterval is how often speaking flags are re-rolled while recording
	SpeakingInterval time.Duration
	// SpeakingProbability is the chance each participant is marked speaking per roll
	SpeakingProbability float64
	// DefaultParticipants seeds the roster when StartConfig carries none
	DefaultParticipants []string
	// Rand overrides the random source (tests)
	Rand *rand.Rand
}

const defaultTitle = "Untitled Meeting"

// Recorder owns the single active recording session. At most one session is
// active at a time; Start while active is a precondition violation. All
// mutations, including the speaking-simulation tick, are funneled through
// the mutex, so transcript order equals append order and Stop happens-after
// the last accepted append.
type Recorder struct {
	mu sync.Mutex

	clk       clock.Clock
	committer Committer
	scheduler Scheduler
	logger    *zap.Logger
	opts      Options
	rnd       *rand.Rand

	state        State
	meeting      *entities.Meeting
	transcript   []entities.TranscriptLine
	participants []entities.Participant

	// Recording time accounting. Elapsed time advances only while recording:
	// accumulated holds time from earlier recording stretches, recordingSince
	// marks the start of the current one.
	accumulated    time.Duration
	recordingSince time.Time

	quit chan struct{}
}

// NewRecorder creates an idle recorder
func NewRecorder(committer Committer, scheduler Scheduler, clk clock.Clock, opts Options, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	if opts.SpeakingInterval <= 0 {
		opts.SpeakingInterval = 3 * time.Second
	}
	if opts.SpeakingProbability == 0 {
		opts.SpeakingProbability = 0.3
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Recorder{
		clk:       clk,
		committer: committer,
		scheduler: scheduler,
		logger:    logger,
		opts:      opts,
		rnd:       rnd,
		state:     StateIdle,
	}
}

// Start begins a new recording session. It fails when a session is already
// active; the failed attempt mutates no session state.
func (r *Recorder) Start(cfg StartConfig) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return nil, fmt.Errorf("%w: meeting %s", usecaseErrors.ErrSessionAlreadyActive, r.meeting.ID)
	}

	title := cfg.Title
	if title == "" {
		title = defaultTitle
	}

	names := cfg.Participants
	if len(names) == 0 {
		names = r.opts.DefaultParticipants
	}
	r.participants = make([]entities.Participant, 0, len(names))
	for _, name := range names {
		r.participants = append(r.participants, entities.NewParticipant(name))
	}

	now := r.clk.Now()
	r.meeting = entities.NewMeeting(title, now)
	r.transcript = nil
	r.accumulated = 0
	r.recordingSince = now
	r.state = StateRecording

	r.quit = make(chan struct{})
	go r.speakingLoop(r.quit)

	r.logger.Info("recording started",
		zap.String("meeting_id", r.meeting.ID.String()),
		zap.String("title", title),
		zap.Int("participants", len(r.participants)),
	)
	return r.snapshotLocked(), nil
}

// Pause halts elapsed-time accounting. Valid only while recording.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateIdle:
		return usecaseErrors.ErrNoActiveSession
	case StatePaused:
		return usecaseErrors.ErrSessionNotRecording
	}

	r.accumulated += r.clk.Now().Sub(r.recordingSince)
	r.state = StatePaused

	r.logger.Info("recording paused", zap.String("meeting_id", r.meeting.ID.String()))
	return nil
}

// Resume continues a paused session
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateIdle:
		return usecaseErrors.ErrNoActiveSession
	case StateRecording:
		return usecaseErrors.ErrSessionNotPaused
	}

	r.recordingSince = r.clk.Now()
	r.state = StateRecording

	r.logger.Info("recording resumed", zap.String("meeting_id", r.meeting.ID.String()))
	return nil
}

// AppendTranscript appends a line stamped with the current elapsed time.
// Valid while the session is active (recording or paused).
func (r *Recorder) AppendTranscript(speaker, text string) (entities.TranscriptLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateIdle {
		return entities.TranscriptLine{}, usecaseErrors.ErrNoActiveSession
	}

	line := entities.NewTranscriptLine(speaker, text, r.elapsedSecondsLocked())
	r.transcript = append(r.transcript, line)
	return line, nil
}

// Stop finalizes the session, commits the meeting with status processing,
// resets the session to idle and schedules analysis. Stopping with no
// active session is a tolerant no-op returning nil.
func (r *Recorder) Stop(ctx context.Context) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateIdle {
		return nil, nil
	}

	now := r.clk.Now()
	meeting := r.meeting.Clone()
	meeting.EndTime = &now
	meeting.DurationSeconds = r.elapsedSecondsLocked()
	meeting.Status = entities.MeetingStatusProcessing
	meeting.Participants = make([]entities.Participant, len(r.participants))
	copy(meeting.Participants, r.participants)
	meeting.Transcript = make([]entities.TranscriptLine, len(r.transcript))
	copy(meeting.Transcript, r.transcript)

	if err := r.committer.Commit(ctx, meeting); err != nil {
		// The session stays active so nothing is lost on a failed commit.
		return nil, err
	}

	close(r.quit)
	r.quit = nil
	r.state = StateIdle
	r.meeting = nil
	r.transcript = nil
	r.participants = nil
	r.accumulated = 0

	r.logger.Info("recording stopped",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("duration_seconds", meeting.DurationSeconds),
		zap.Int("transcript_lines", len(meeting.Transcript)),
	)

	if r.scheduler != nil {
		r.scheduler.Schedule(meeting.ID)
	}
	return meeting, nil
}

// State returns the current session state
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ElapsedSeconds returns the whole seconds spent recording so far,
// excluding paused stretches
func (r *Recorder) ElapsedSeconds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateIdle {
		return 0
	}
	return r.elapsedSecondsLocked()
}

// Snapshot returns a copy of the in-progress meeting, or nil when idle
func (r *Recorder) Snapshot() *entities.Meeting {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateIdle {
		return nil
	}
	return r.snapshotLocked()
}

func (r *Recorder) elapsedSecondsLocked() int {
	elapsed := r.accumulated
	if r.state == StateRecording {
		elapsed += r.clk.Now().Sub(r.recordingSince)
	}
	return int(elapsed / time.Second)
}

func (r *Recorder) snapshotLocked() *entities.Meeting {
	snap := r.meeting.Clone()
	snap.Participants = make([]entities.Participant, len(r.participants))
	copy(snap.Participants, r.participants)
	snap.Transcript = make([]entities.TranscriptLine, len(r.transcript))
	copy(snap.Transcript, r.transcript)
	return snap
}

// speakingLoop re-rolls the speaking flags on a fixed interval while the
// session records. This is simulated voice-activity telemetry; a real
// detector would feed the same flags through the same roster.
func (r *Recorder) speakingLoop(quit chan struct{}) {
	ticker := r.clk.Ticker(r.opts.SpeakingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			r.rerollSpeaking()
		}
	}
}

func (r *Recorder) rerollSpeaking() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return
	}
	for i := range r.participants {
		r.participants[i].Speaking = r.rnd.Float64() < r.opts.SpeakingProbability
	}
}
