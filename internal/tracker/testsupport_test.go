package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider"
)

// memoryRepo is an in-memory domain.JobRepository that counts writes so tests
// can assert zero persistence on rejected submissions.
type memoryRepo struct {
	mu     sync.Mutex
	jobs   map[string]*domain.Job
	writes int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{jobs: make(map[string]*domain.Job)}
}

func copyJob(job *domain.Job) *domain.Job {
	clone := *job
	clone.ResultURLs = append([]string(nil), job.ResultURLs...)
	if job.Error != nil {
		errCopy := *job.Error
		clone.Error = &errCopy
	}
	if job.CompletedAt != nil {
		at := *job.CompletedAt
		clone.CompletedAt = &at
	}
	if job.PolledAt != nil {
		at := *job.PolledAt
		clone.PolledAt = &at
	}
	return &clone
}

func (r *memoryRepo) Create(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.jobs[job.ID] = copyJob(job)
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyJob(job), nil
}

func (r *memoryRepo) GetForUser(ctx context.Context, jobID, userID string) (*domain.Job, error) {
	job, err := r.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []domain.Job
	for _, job := range r.jobs {
		if job.UserID == userID && len(jobs) < limit {
			jobs = append(jobs, *copyJob(job))
		}
	}
	return jobs, nil
}

func (r *memoryRepo) ApplyTerminal(ctx context.Context, jobID string, update domain.StatusUpdate, completedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if job.Status != domain.JobStatusPending {
		return false, nil
	}
	r.writes++
	job.Status = update.Status
	job.ResultURLs = append([]string(nil), update.ResultURLs...)
	job.ThumbnailURL = update.ThumbnailURL
	if update.Error != nil {
		errCopy := *update.Error
		job.Error = &errCopy
	}
	at := completedAt
	job.CompletedAt = &at
	return true, nil
}

func (r *memoryRepo) TouchPolled(ctx context.Context, jobID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[jobID]; ok {
		t := at
		job.PolledAt = &t
	}
	return nil
}

func (r *memoryRepo) ListPollDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []domain.Job
	for _, job := range r.jobs {
		if job.Status != domain.JobStatusPending || job.ExternalTaskID == "" {
			continue
		}
		if job.PolledAt == nil || job.PolledAt.Before(cutoff) {
			jobs = append(jobs, *copyJob(job))
		}
		if len(jobs) == limit {
			break
		}
	}
	return jobs, nil
}

func (r *memoryRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

var _ domain.JobRepository = (*memoryRepo)(nil)

// pollOutcome is one scripted TaskStatus result for fakeClient.
type pollOutcome struct {
	status *provider.TaskStatus
	err    error
}

// fakeClient scripts upstream behavior: one submission outcome and a sequence
// of task status outcomes consumed poll by poll (the last repeats).
type fakeClient struct {
	mu         sync.Mutex
	name       string
	submission *provider.Submission
	submitErr  error
	polls      []pollOutcome

	createCalls int
	statusCalls int
}

func (f *fakeClient) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeClient) CreateJob(ctx context.Context, input domain.JobInput) (*provider.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submission, nil
}

func (f *fakeClient) TaskStatus(ctx context.Context, taskID string) (*provider.TaskStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.statusCalls
	f.statusCalls++
	if len(f.polls) == 0 {
		return &provider.TaskStatus{State: provider.TaskStateRunning}, nil
	}
	if idx >= len(f.polls) {
		idx = len(f.polls) - 1
	}
	outcome := f.polls[idx]
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.status, nil
}

func (f *fakeClient) statusCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

var _ provider.Client = (*fakeClient)(nil)

func newTestService(repo domain.JobRepository, interval time.Duration, maxPolls int) *Service {
	return NewService(Options{
		Repo:           repo,
		Logger:         zerolog.Nop(),
		PollInterval:   interval,
		MaxPollsPerJob: maxPolls,
	})
}
