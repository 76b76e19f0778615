package domain

import "time"

// JobKind enumerates supported generation job categories.
type JobKind string

const (
	JobKindImageGeneration JobKind = "image_generation"
	JobKindVideoGeneration JobKind = "video_generation"
)

// Valid reports whether the kind is a supported category.
func (k JobKind) Valid() bool {
	switch k {
	case JobKindImageGeneration, JobKindVideoGeneration:
		return true
	}
	return false
}

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// OutputSize describes the requested dimensions of a generated image.
type OutputSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// JobInput is the immutable record of the parameters a job was submitted with.
type JobInput struct {
	Prompt          string     `json:"prompt"`
	Size            OutputSize `json:"size,omitzero"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
}

// JobError carries a structured upstream failure reason.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Job encapsulates the lifecycle of one asset-generation request. It is
// created pending by the submitter and moved to a terminal state exactly
// once by the reconciler; no other component writes it.
type Job struct {
	ID             string
	UserID         string
	Kind           JobKind
	Provider       string
	ExternalTaskID string
	Input          JobInput
	Status         JobStatus
	ResultURLs     []string
	ThumbnailURL   string
	Error          *JobError
	CreatedAt      time.Time
	CompletedAt    *time.Time
	PolledAt       *time.Time
}

// Terminal reports whether the job has reached a final status.
func (j *Job) Terminal() bool {
	return j.Status.Terminal()
}

// StatusUpdate is the outcome of one poll round against the upstream API.
// A pending update means the upstream task is still running and carries no
// payload; a terminal update carries either results or a structured error.
type StatusUpdate struct {
	Status       JobStatus
	ResultURLs   []string
	ThumbnailURL string
	Error        *JobError
}

// Terminal reports whether the update resolves the job.
func (u StatusUpdate) Terminal() bool {
	return u.Status.Terminal()
}
