package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/middleware"
	"github.com/Nidal468/AI-Logo-Maker-sub001/pkg/zip"
)

type submitJobRequest struct {
	Kind     string          `json:"kind"`
	Provider string          `json:"provider"`
	Input    domain.JobInput `json:"input"`
}

type jobDTO struct {
	ID             string           `json:"id"`
	Kind           string           `json:"kind"`
	Provider       string           `json:"provider"`
	ExternalTaskID string           `json:"external_task_id,omitempty"`
	Status         string           `json:"status"`
	Input          domain.JobInput  `json:"input"`
	ResultURLs     []string         `json:"result_urls,omitempty"`
	ThumbnailURL   string           `json:"thumbnail_url,omitempty"`
	Error          *domain.JobError `json:"error,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	PolledAt       *time.Time       `json:"polled_at,omitempty"`
}

func newJobDTO(job *domain.Job) jobDTO {
	return jobDTO{
		ID:             job.ID,
		Kind:           string(job.Kind),
		Provider:       job.Provider,
		ExternalTaskID: job.ExternalTaskID,
		Status:         string(job.Status),
		Input:          job.Input,
		ResultURLs:     job.ResultURLs,
		ThumbnailURL:   job.ThumbnailURL,
		Error:          job.Error,
		CreatedAt:      job.CreatedAt,
		CompletedAt:    job.CompletedAt,
		PolledAt:       job.PolledAt,
	}
}

func (a *App) JobsSubmit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	locale := middleware.LocaleFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", message(locale, "unauthorized"))
		return
	}
	var req submitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	job, err := a.Tracker.Submit(r.Context(), userID, domain.JobKind(req.Kind), req.Provider, req.Input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			a.error(w, http.StatusBadRequest, "invalid_input", err.Error())
		case errors.Is(err, domain.ErrUpstreamRejected):
			a.Logger.Warn().Err(err).Str("provider", req.Provider).Msg("submission rejected upstream")
			a.error(w, http.StatusBadGateway, "upstream_rejected", message(locale, "upstream_rejected"))
		default:
			a.Logger.Error().Err(err).Msg("job submission failed")
			a.error(w, http.StatusInternalServerError, "internal", message(locale, "internal"))
		}
		return
	}
	a.json(w, http.StatusCreated, newJobDTO(job))
}

func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	locale := middleware.LocaleFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", message(locale, "unauthorized"))
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 200 {
		limit = 200
	}
	jobs, err := a.Jobs.ListByUser(r.Context(), userID, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", message(locale, "internal"))
		return
	}
	items := make([]jobDTO, 0, len(jobs))
	for i := range jobs {
		items = append(items, newJobDTO(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) JobsGet(w http.ResponseWriter, r *http.Request) {
	job, ok := a.loadJob(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, newJobDTO(job))
}

// JobsPoll performs one on-demand poll round for a job. Polling a terminal
// job is a no-op that returns the stored record, so clients may retry freely.
func (a *App) JobsPoll(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	job, ok := a.loadJob(w, r)
	if !ok {
		return
	}
	fresh, err := a.Tracker.PollOnce(r.Context(), job)
	if err != nil {
		if errors.Is(err, domain.ErrPollFailed) {
			a.error(w, http.StatusBadGateway, "poll_failed", message(locale, "poll_failed"))
			return
		}
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("manual poll failed")
		a.error(w, http.StatusInternalServerError, "internal", message(locale, "internal"))
		return
	}
	a.json(w, http.StatusOK, newJobDTO(fresh))
}

func (a *App) JobsArchive(w http.ResponseWriter, r *http.Request) {
	job, ok := a.loadJob(w, r)
	if !ok {
		return
	}
	if job.Status != domain.JobStatusSucceeded {
		a.error(w, http.StatusConflict, "not_ready", "job has not succeeded")
		return
	}
	assets := a.collectAssets(job)
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "no_assets", "job has no stored assets")
		return
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("archive build failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=job-%s.zip", job.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// collectAssets prefers locally mirrored files and falls back to the raw
// upstream URLs when the poll daemon has not mirrored the job yet.
func (a *App) collectAssets(job *domain.Job) []zip.Asset {
	var assets []zip.Asset
	if a.Files != nil {
		keys, err := a.Files.List("jobs/" + job.ID)
		if err != nil {
			a.Logger.Warn().Err(err).Str("job_id", job.ID).Msg("list stored assets failed")
		}
		for _, key := range keys {
			data, err := a.Files.Read(key)
			if err != nil {
				continue
			}
			assets = append(assets, zip.Asset{Filename: path.Base(key), Data: data})
		}
	}
	if len(assets) == 0 {
		for i, rawURL := range job.ResultURLs {
			assets = append(assets, zip.Asset{
				Filename: fmt.Sprintf("result-%02d.txt", i+1),
				MIME:     "text/plain",
				Data:     []byte(rawURL),
			})
		}
	}
	return assets
}

// loadJob resolves the {job_id} route parameter against the requesting user.
// It writes the error response itself and reports success via ok.
func (a *App) loadJob(w http.ResponseWriter, r *http.Request) (*domain.Job, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	locale := middleware.LocaleFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", message(locale, "unauthorized"))
		return nil, false
	}
	jobID := chi.URLParam(r, "job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", message(locale, "not_found"))
		return nil, false
	}
	job, err := a.Jobs.GetForUser(r.Context(), jobID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", message(locale, "not_found"))
			return nil, false
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("load job failed")
		a.error(w, http.StatusInternalServerError, "internal", message(locale, "internal"))
		return nil, false
	}
	return job, true
}
