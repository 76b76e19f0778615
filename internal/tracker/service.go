// Package tracker implements the asynchronous generation job lifecycle:
// submit → pending record → poll upstream → reconcile terminal state exactly
// once → notify observers.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider"
)

// DefaultPollInterval is the listener tick used when no interval is configured.
const DefaultPollInterval = 5 * time.Second

// Options configures a Service.
type Options struct {
	Repo      domain.JobRepository
	Analytics domain.AnalyticsRepository
	Logger    zerolog.Logger

	// PollInterval is the delay between listener ticks for one pending job.
	PollInterval time.Duration

	// MaxPollsPerJob bounds listener polling as an operational safeguard.
	// Zero means unlimited; the job itself carries no deadline either way.
	MaxPollsPerJob int

	// Now is overridable for tests.
	Now func() time.Time
}

// Service coordinates the submitter, poller, reconciler and listener over a
// shared job store and event bus.
type Service struct {
	repo      domain.JobRepository
	analytics domain.AnalyticsRepository
	bus       *EventBus
	logger    zerolog.Logger

	clients  map[domain.JobKind]map[string]provider.Client
	defaults map[domain.JobKind]string

	pollInterval time.Duration
	maxPolls     int
	now          func() time.Time
}

func NewService(opts Options) *Service {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:         opts.Repo,
		analytics:    opts.Analytics,
		bus:          NewEventBus(),
		logger:       opts.Logger,
		clients:      make(map[domain.JobKind]map[string]provider.Client),
		defaults:     make(map[domain.JobKind]string),
		pollInterval: interval,
		maxPolls:     opts.MaxPollsPerJob,
		now:          now,
	}
}

// Register adds a generation client for a kind. The first client registered
// for a kind becomes its default.
func (s *Service) Register(kind domain.JobKind, client provider.Client) {
	if s.clients[kind] == nil {
		s.clients[kind] = make(map[string]provider.Client)
		s.defaults[kind] = client.Name()
	}
	s.clients[kind][client.Name()] = client
}

// Bus exposes the event bus for components that publish or subscribe outside
// the service, such as the SSE handler.
func (s *Service) Bus() *EventBus { return s.bus }

// PollInterval returns the configured listener tick.
func (s *Service) PollInterval() time.Duration { return s.pollInterval }

func (s *Service) resolveClient(kind domain.JobKind, name string) (provider.Client, error) {
	byName := s.clients[kind]
	if len(byName) == 0 {
		return nil, fmt.Errorf("%w: no provider configured for kind %q", domain.ErrInvalidInput, kind)
	}
	if name == "" {
		name = s.defaults[kind]
	}
	client, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported provider %q for kind %q", domain.ErrInvalidInput, name, kind)
	}
	return client, nil
}

// Submit validates input, calls the generation API exactly once and persists
// the resulting job. Validation failures and upstream rejections leave zero
// persisted state.
func (s *Service) Submit(ctx context.Context, userID string, kind domain.JobKind, providerName string, input domain.JobInput) (*domain.Job, error) {
	if err := domain.ValidateInput(kind, input); err != nil {
		return nil, err
	}
	client, err := s.resolveClient(kind, providerName)
	if err != nil {
		return nil, err
	}

	submission, err := client.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := &domain.Job{
		ID:             uuid.NewString(),
		UserID:         userID,
		Kind:           kind,
		Provider:       client.Name(),
		ExternalTaskID: submission.TaskID,
		Input:          input,
		Status:         domain.JobStatusPending,
		CreatedAt:      now,
	}
	if submission.TaskID == "" {
		// Synchronous provider: the job is born terminal.
		completed := now
		job.Status = domain.JobStatusSucceeded
		job.ResultURLs = submission.ResultURLs
		job.ThumbnailURL = submission.ThumbnailURL
		job.CompletedAt = &completed
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("persist job: %w", err)
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("kind", string(kind)).
		Str("provider", job.Provider).
		Str("status", string(job.Status)).
		Msg("job submitted")

	s.countSubmission(ctx, job)
	if job.Terminal() {
		s.bus.Publish(job.ID, job)
	}
	return job, nil
}

// Poll checks upstream status for one job. It never writes the store: a
// terminal outcome is handed to Reconcile by the caller. Transport failures
// surface as *domain.PollError and leave the job pending.
func (s *Service) Poll(ctx context.Context, job *domain.Job) (domain.StatusUpdate, error) {
	if job.Terminal() {
		return domain.StatusUpdate{
			Status:       job.Status,
			ResultURLs:   job.ResultURLs,
			ThumbnailURL: job.ThumbnailURL,
			Error:        job.Error,
		}, nil
	}
	if job.ExternalTaskID == "" {
		return domain.StatusUpdate{}, &domain.PollError{
			Provider: job.Provider,
			Err:      fmt.Errorf("job %s has no upstream task", job.ID),
		}
	}
	client, err := s.resolveClient(job.Kind, job.Provider)
	if err != nil {
		return domain.StatusUpdate{}, &domain.PollError{Provider: job.Provider, Err: err}
	}

	if err := s.repo.TouchPolled(ctx, job.ID, s.now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("record poll time failed")
	}

	status, err := client.TaskStatus(ctx, job.ExternalTaskID)
	if err != nil {
		return domain.StatusUpdate{}, err
	}

	switch status.State {
	case provider.TaskStateSucceeded:
		return domain.StatusUpdate{
			Status:       domain.JobStatusSucceeded,
			ResultURLs:   status.ResultURLs,
			ThumbnailURL: status.ThumbnailURL,
		}, nil
	case provider.TaskStateFailed:
		return domain.StatusUpdate{
			Status: domain.JobStatusFailed,
			Error: &domain.JobError{
				Code:    status.FailureCode,
				Message: status.FailureReason,
			},
		}, nil
	default:
		return domain.StatusUpdate{Status: domain.JobStatusPending}, nil
	}
}

// Reconcile commits a terminal update exactly once and notifies observers.
// A pending update, or a terminal update against an already-terminal job, is
// a no-op. The fresh snapshot is returned either way.
func (s *Service) Reconcile(ctx context.Context, jobID string, update domain.StatusUpdate) (*domain.Job, error) {
	if !update.Terminal() {
		return s.repo.GetByID(ctx, jobID)
	}

	applied, err := s.repo.ApplyTerminal(ctx, jobID, update, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("apply terminal update: %w", err)
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if applied {
		s.logger.Info().
			Str("job_id", job.ID).
			Str("status", string(job.Status)).
			Msg("job reconciled")
		s.countCompletion(ctx, job)
		s.bus.Publish(job.ID, job)
	}
	return job, nil
}

// PollOnce performs one poll round and reconciles a terminal outcome. Used by
// the manual retry endpoint and the background poll daemon. The returned job
// reflects the store after the round; a *domain.PollError is passed through
// with the unchanged job.
func (s *Service) PollOnce(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	update, err := s.Poll(ctx, job)
	if err != nil {
		return job, err
	}
	if !update.Terminal() {
		return job, nil
	}
	return s.Reconcile(ctx, job.ID, update)
}

func (s *Service) countSubmission(ctx context.Context, job *domain.Job) {
	counters := map[string]int{domain.CounterJobsSubmitted: 1}
	if job.Status == domain.JobStatusSucceeded {
		counters[domain.CounterJobsSucceeded] = 1
		counters[generatedCounter(job.Kind)] = len(job.ResultURLs)
	}
	s.count(ctx, counters)
}

func (s *Service) countCompletion(ctx context.Context, job *domain.Job) {
	counters := map[string]int{}
	switch job.Status {
	case domain.JobStatusSucceeded:
		counters[domain.CounterJobsSucceeded] = 1
		counters[generatedCounter(job.Kind)] = len(job.ResultURLs)
	case domain.JobStatusFailed:
		counters[domain.CounterJobsFailed] = 1
	}
	s.count(ctx, counters)
}

func (s *Service) count(ctx context.Context, counters map[string]int) {
	if s.analytics == nil || len(counters) == 0 {
		return
	}
	day := s.now().UTC().Format("2006-01-02")
	if err := s.analytics.IncrementCounters(ctx, day, counters); err != nil {
		s.logger.Warn().Err(err).Msg("increment analytics counters failed")
	}
}

func generatedCounter(kind domain.JobKind) string {
	if kind == domain.JobKindVideoGeneration {
		return domain.CounterVideosGenerated
	}
	return domain.CounterImagesGenerated
}
