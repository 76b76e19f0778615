package repo

import (
	"context"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/sqlinline"
)

// AnalyticsRepositoryPG implements domain.AnalyticsRepository using PostgreSQL.
type AnalyticsRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(sql infra.SQLExecutor) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{sql: sql}
}

// IncrementCounters upserts metrics for the provided day (YYYY-MM-DD).
func (r *AnalyticsRepositoryPG) IncrementCounters(ctx context.Context, day string, counters map[string]int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QIncrementDailyCounters,
		day,
		counters[domain.CounterJobsSubmitted],
		counters[domain.CounterJobsSucceeded],
		counters[domain.CounterJobsFailed],
		counters[domain.CounterImagesGenerated],
		counters[domain.CounterVideosGenerated],
	)
	return err
}

// GetSummary returns the latest daily aggregate.
func (r *AnalyticsRepositoryPG) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAnalyticsSummary)
	var summary domain.AnalyticsDaily
	if err := row.Scan(
		&summary.Day,
		&summary.JobsSubmitted,
		&summary.JobsSucceeded,
		&summary.JobsFailed,
		&summary.ImagesGenerated,
		&summary.VideosGenerated,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}
