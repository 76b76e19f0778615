package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository on PostgreSQL.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	var errCode, errMessage *string
	if job.Error != nil {
		errCode, errMessage = &job.Error.Code, &job.Error.Message
	}
	resultURLs := job.ResultURLs
	if resultURLs == nil {
		resultURLs = []string{}
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertJob,
		job.ID,
		job.UserID,
		job.Kind,
		job.Provider,
		job.ExternalTaskID,
		job.Input.Prompt,
		job.Input.Size.Width,
		job.Input.Size.Height,
		job.Input.DurationSeconds,
		job.Status,
		resultURLs,
		job.ThumbnailURL,
		errCode,
		errMessage,
		job.CreatedAt,
		job.CompletedAt,
	)
	return err
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	return scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectJobByID, jobID))
}

// GetForUser fetches a job scoped to its owner.
func (r *JobRepositoryPG) GetForUser(ctx context.Context, jobID, userID string) (*domain.Job, error) {
	return scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectJobForUser, jobID, userID))
}

// ListByUser returns the owner's most recent jobs.
func (r *JobRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Job, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListJobsForUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ApplyTerminal commits a terminal update guarded on the job still being
// pending. It reports false when nothing was written.
func (r *JobRepositoryPG) ApplyTerminal(ctx context.Context, jobID string, update domain.StatusUpdate, completedAt time.Time) (bool, error) {
	var errCode, errMessage *string
	if update.Error != nil {
		errCode, errMessage = &update.Error.Code, &update.Error.Message
	}
	resultURLs := update.ResultURLs
	if resultURLs == nil {
		resultURLs = []string{}
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QCompleteJob,
		jobID,
		update.Status,
		resultURLs,
		update.ThumbnailURL,
		errCode,
		errMessage,
		completedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// TouchPolled records the time of the last upstream status check.
func (r *JobRepositoryPG) TouchPolled(ctx context.Context, jobID string, at time.Time) error {
	_, err := r.sql.Exec(ctx, sqlinline.QTouchJobPolled, jobID, at)
	return err
}

// ListPollDue returns pending jobs whose last poll is older than the cutoff.
func (r *JobRepositoryPG) ListPollDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Job, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPollDueJobs, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job        domain.Job
		errCode    *string
		errMessage *string
	)
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.Kind,
		&job.Provider,
		&job.ExternalTaskID,
		&job.Input.Prompt,
		&job.Input.Size.Width,
		&job.Input.Size.Height,
		&job.Input.DurationSeconds,
		&job.Status,
		&job.ResultURLs,
		&job.ThumbnailURL,
		&errCode,
		&errMessage,
		&job.CreatedAt,
		&job.CompletedAt,
		&job.PolledAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if errCode != nil || errMessage != nil {
		job.Error = &domain.JobError{}
		if errCode != nil {
			job.Error.Code = *errCode
		}
		if errMessage != nil {
			job.Error.Message = *errMessage
		}
	}
	return &job, nil
}

func collectJobs(rows pgx.Rows) ([]domain.Job, error) {
	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}
