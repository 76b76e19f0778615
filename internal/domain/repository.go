package domain

import (
	"context"
	"time"
)

// JobRepository defines persistence for job entities. Create and ApplyTerminal
// are the only write paths; pollers and listeners read only.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	GetForUser(ctx context.Context, jobID, userID string) (*Job, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Job, error)

	// ApplyTerminal commits a terminal update guarded on the job still being
	// pending. It returns false when the job was already terminal, which
	// makes repeated reconciliation a no-op.
	ApplyTerminal(ctx context.Context, jobID string, update StatusUpdate, completedAt time.Time) (bool, error)

	// TouchPolled records the time of the last upstream status check.
	TouchPolled(ctx context.Context, jobID string, at time.Time) error

	// ListPollDue returns pending jobs with an upstream task whose last poll
	// is older than the cutoff, for the background poll daemon.
	ListPollDue(ctx context.Context, cutoff time.Time, limit int) ([]Job, error)
}

// AnalyticsRepository updates daily metrics counters.
type AnalyticsRepository interface {
	IncrementCounters(ctx context.Context, day string, counters map[string]int) error
	GetSummary(ctx context.Context) (*AnalyticsDaily, error)
}
