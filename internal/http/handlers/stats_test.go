package handlers_test

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestStatsSummaryEmpty(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/stats/summary", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["jobs_submitted"].(float64) != 0 {
		t.Fatalf("jobs_submitted = %v", body["jobs_submitted"])
	}
}

func TestStatsSummaryCountsSubmissions(t *testing.T) {
	env := newTestEnv(t)
	env.submitJob(t, "user-a", imagePayload("a logo"))
	env.submitJob(t, "user-b", imagePayload("another logo"))

	rec := env.do(t, http.MethodGet, "/v1/stats/summary", "", nil)
	body := decodeBody(t, rec)
	if body["jobs_submitted"].(float64) != 2 {
		t.Fatalf("jobs_submitted = %v", body["jobs_submitted"])
	}
	if body["jobs_succeeded"].(float64) != 2 {
		t.Fatalf("jobs_succeeded = %v", body["jobs_succeeded"])
	}
	if body["images_generated"].(float64) != 2 {
		t.Fatalf("images_generated = %v", body["images_generated"])
	}
}
