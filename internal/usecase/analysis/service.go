package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
	usecaseErrors "github.com/meetflow-app/meetflow/internal/usecase/errors"
	"github.com/meetflow-app/meetflow/pkg/jobcontext"
)

// Store is the slice of the meeting store the engine needs
type Store interface {
	GetByID(id uuid.UUID) *entities.Meeting
	AttachAnalysis(ctx context.Context, id uuid.UUID, analysis *entities.Analysis) error
}

// Generator produces the analysis payload for a meeting. The simulated
// generator lives in this package; a real backend implements the same
// interface.
type Generator interface {
	Generate(ctx context.Context, meeting *entities.Meeting) (*entities.Analysis, error)
}

// Options holds engine tuning knobs
type Options struct {
	// ScheduleDelay is how long after Schedule the run is kicked off
	ScheduleDelay time.Duration
	// MaxRetries bounds the backoff retry loop around the generator
	MaxRetries uint64
	// JobTimeout guards against a hung analysis backend
	JobTimeout time.Duration
}

// Service is the analysis engine. Each run is keyed by its meeting id and
// is independent of session state: stopping or starting another recording
// never affects a pending run, and a run whose meeting was deleted in the
// meantime ends in a no-op attach.
type Service struct {
	store  Store
	gen    Generator
	clk    clock.Clock
	logger *zap.Logger
	opts   Options

	wg sync.WaitGroup
}

// NewService constructs the analysis engine
func NewService(store Store, gen Generator, clk clock.Clock, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 5 * time.Minute
	}
	return &Service{
		store:  store,
		gen:    gen,
		clk:    clk,
		logger: logger,
		opts:   opts,
	}
}

// Schedule kicks off an asynchronous run after the configured delay.
// Satisfies session.Scheduler.
func (s *Service) Schedule(meetingID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := s.clk.Timer(s.opts.ScheduleDelay)
		defer timer.Stop()
		<-timer.C

		if _, err := s.Run(context.Background(), meetingID); err != nil {
			s.logger.Error("scheduled analysis failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
	}()
}

// Run executes analysis for a stored meeting and attaches the result.
// On failure the meeting keeps status processing and the error is returned
// to the caller; nothing is attached.
func (s *Service) Run(ctx context.Context, meetingID uuid.UUID) (*entities.Analysis, error) {
	meeting := s.store.GetByID(meetingID)
	if meeting == nil {
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrMeetingNotFound, meetingID)
	}

	jobCtx, cancel := jobcontext.JobBegin(ctx, meetingID, s.opts.JobTimeout)
	defer cancel()

	s.logger.Info("analysis started", zap.String("meeting_id", meetingID.String()))

	var result *entities.Analysis
	operation := func() error {
		a, err := s.gen.Generate(jobCtx, meeting)
		if err != nil {
			if !jobcontext.IsRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = a
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, s.opts.MaxRetries), jobCtx)); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrAnalysisFailed, err)
	}

	if err := s.store.AttachAnalysis(ctx, meetingID, result); err != nil {
		return nil, err
	}

	start, _ := jobcontext.GetJobStartTime(jobCtx)
	s.logger.Info("analysis completed",
		zap.String("meeting_id", meetingID.String()),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}

// Wait blocks until all scheduled runs have finished. Used on shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}
