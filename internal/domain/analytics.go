package domain

import "time"

// Counter keys understood by AnalyticsRepository.IncrementCounters.
const (
	CounterJobsSubmitted   = "jobs_submitted"
	CounterJobsSucceeded   = "jobs_succeeded"
	CounterJobsFailed      = "jobs_failed"
	CounterImagesGenerated = "images_generated"
	CounterVideosGenerated = "videos_generated"
)

// AnalyticsDaily stores aggregated job metrics for a specific day.
type AnalyticsDaily struct {
	Day             time.Time
	JobsSubmitted   int
	JobsSucceeded   int
	JobsFailed      int
	ImagesGenerated int
	VideosGenerated int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
