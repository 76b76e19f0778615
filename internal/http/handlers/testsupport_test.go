package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/http/handlers"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/http/httpapi"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/middleware"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/storage"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/tracker"
)

const testJWTSecret = "handler-test-secret"

// memoryRepo is an in-memory domain.JobRepository for handler tests.
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

// memoryAnalytics accumulates counters in memory.
type memoryAnalytics struct {
	mu       sync.Mutex
	counters map[string]int
}

func newMemoryAnalytics() *memoryAnalytics {
	return &memoryAnalytics{counters: make(map[string]int)}
}

func (m *memoryAnalytics) IncrementCounters(ctx context.Context, day string, counters map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, delta := range counters {
		m.counters[key] += delta
	}
	return nil
}

func (m *memoryAnalytics) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.counters) == 0 {
		return nil, domain.ErrNotFound
	}
	return &domain.AnalyticsDaily{
		Day:             time.Now().UTC(),
		JobsSubmitted:   m.counters[domain.CounterJobsSubmitted],
		JobsSucceeded:   m.counters[domain.CounterJobsSucceeded],
		JobsFailed:      m.counters[domain.CounterJobsFailed],
		ImagesGenerated: m.counters[domain.CounterImagesGenerated],
		VideosGenerated: m.counters[domain.CounterVideosGenerated],
	}, nil
}

var _ domain.AnalyticsRepository = (*memoryAnalytics)(nil)

// pollOutcome is one scripted TaskStatus result for fakeClient.
type pollOutcome struct {
	status *provider.TaskStatus
	err    error
}

// fakeClient scripts one submission outcome and a sequence of poll outcomes,
// the last of which repeats.
type fakeClient struct {
	mu         sync.Mutex
	name       string
	submission *provider.Submission
	submitErr  error
	polls      []pollOutcome

	statusCalls int
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) CreateJob(ctx context.Context, input domain.JobInput) (*provider.Submission, error) {
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

// testEnv wires a full router over in-memory dependencies.
type testEnv struct {
	handler   http.Handler
	app       *handlers.App
	repo      *memoryRepo
	analytics *memoryAnalytics
	files     *storage.FileStore
	image     *fakeClient
	video     *fakeClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newMemoryRepo()
	analytics := newMemoryAnalytics()
	svc := tracker.NewService(tracker.Options{
		Repo:         repo,
		Analytics:    analytics,
		Logger:       zerolog.Nop(),
		PollInterval: 20 * time.Millisecond,
	})
	image := &fakeClient{
		name:       "qwen",
		submission: &provider.Submission{ResultURLs: []string{"https://cdn.example.com/img-1.png"}},
	}
	video := &fakeClient{
		name:       "runway",
		submission: &provider.Submission{TaskID: "task-1"},
	}
	svc.Register(domain.JobKindImageGeneration, image)
	svc.Register(domain.JobKindVideoGeneration, video)

	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	cfg := &infra.Config{
		AppEnv:          "test",
		JWTSecret:       testJWTSecret,
		DefaultLocale:   "en",
		CORSOrigins:     []string{"*"},
		RateLimitPerMin: 1000,
		StoragePath:     files.BasePath(),
	}
	app := &handlers.App{
		Tracker:   svc,
		Jobs:      repo,
		Analytics: analytics,
		Files:     files,
		Config:    cfg,
		Logger:    zerolog.Nop(),
	}
	return &testEnv{
		handler:   httpapi.NewRouter(app, nil),
		app:       app,
		repo:      repo,
		analytics: analytics,
		files:     files,
		image:     image,
		video:     video,
	}
}

func authToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.SignJWT(testJWTSecret, middleware.TokenClaims{
		Sub: userID,
		Exp: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT error: %v", err)
	}
	return token
}

// do performs a request against the router. A non-empty userID attaches a
// bearer token for that user.
func (e *testEnv) do(t *testing.T, method, target, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+authToken(t, userID))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// doWithLocale performs a GET with an explicit X-Locale header.
func (e *testEnv) doWithLocale(t *testing.T, locale, target, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, userID))
	req.Header.Set("X-Locale", locale)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// submitJob submits a job through the API and returns the decoded response.
func (e *testEnv) submitJob(t *testing.T, userID string, payload map[string]any) map[string]any {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/v1/jobs", userID, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decodeBody(t, rec)
}

func imagePayload(prompt string) map[string]any {
	return map[string]any{
		"kind":     "image_generation",
		"provider": "qwen",
		"input": map[string]any{
			"prompt": prompt,
			"size":   map[string]any{"width": 512, "height": 512},
		},
	}
}

func videoPayload(prompt string) map[string]any {
	return map[string]any{
		"kind":     "video_generation",
		"provider": "runway",
		"input": map[string]any{
			"prompt":           prompt,
			"duration_seconds": 5,
		},
	}
}
