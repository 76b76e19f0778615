package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// JobEvents streams job snapshots over server-sent events until the job
// reaches a terminal state. The current state is emitted immediately, then
// one event per status change, and the stream ends after the terminal event
// or when a poll round fails.
func (a *App) JobEvents(w http.ResponseWriter, r *http.Request) {
	job, ok := a.loadJob(w, r)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}
	snapshots, err := a.Tracker.Observe(r.Context(), job.ID)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("observe failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to observe job")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snap := range snapshots {
		var event string
		var payload any
		if snap.Err != nil {
			event = "error"
			payload = map[string]string{"error": "poll_failed", "message": snap.Err.Error()}
		} else {
			event = "status"
			payload = newJobDTO(snap.Job)
		}
		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return
		}
		flusher.Flush()
	}
}
