package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/storage"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/tracker"
)

// App bundles the dependencies shared by the HTTP handlers.
type App struct {
	Tracker   *tracker.Service
	Jobs      domain.JobRepository
	Analytics domain.AnalyticsRepository
	Files     *storage.FileStore
	Config    *infra.Config
	Logger    infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

var localizedMessages = map[string]map[string]string{
	"en": {
		"unauthorized":      "missing user context",
		"not_found":         "job not found",
		"internal":          "internal error",
		"upstream_rejected": "provider rejected the request",
		"poll_failed":       "status check against the provider failed",
	},
	"id": {
		"unauthorized":      "konteks pengguna tidak ditemukan",
		"not_found":         "job tidak ditemukan",
		"internal":          "kesalahan internal",
		"upstream_rejected": "permintaan ditolak oleh provider",
		"poll_failed":       "pengecekan status ke provider gagal",
	},
}

// message resolves a user-facing error message for the request locale,
// falling back to English for unknown locales or codes.
func message(locale, code string) string {
	if msgs, ok := localizedMessages[locale]; ok {
		if msg, ok := msgs[code]; ok {
			return msg
		}
	}
	return localizedMessages["en"][code]
}
