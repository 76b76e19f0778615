package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Analytics.GetSummary(r.Context())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).Msg("load stats failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
			return
		}
		// No jobs yet, report an empty day.
		summary = &domain.AnalyticsDaily{Day: time.Now().UTC()}
	}
	a.json(w, http.StatusOK, map[string]any{
		"day":              summary.Day.Format("2006-01-02"),
		"jobs_submitted":   summary.JobsSubmitted,
		"jobs_succeeded":   summary.JobsSucceeded,
		"jobs_failed":      summary.JobsFailed,
		"images_generated": summary.ImagesGenerated,
		"videos_generated": summary.VideosGenerated,
	})
}
