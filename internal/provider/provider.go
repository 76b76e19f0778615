// Package provider defines the contract between the job tracker and the
// external generation APIs. Concrete clients live in subpackages, one per
// vendor.
package provider

import (
	"context"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
)

// TaskState is the normalized upstream task vocabulary. Concrete clients map
// their vendor's strings onto it; anything the client cannot recognize maps
// to TaskStateRunning so a job is never resolved on an unknown status.
type TaskState string

const (
	TaskStateRunning   TaskState = "running"
	TaskStateSucceeded TaskState = "succeeded"
	TaskStateFailed    TaskState = "failed"
)

// Submission is the result of creating a job upstream. Synchronous APIs set
// ResultURLs directly and leave TaskID empty; task-based APIs set TaskID and
// expect the caller to poll.
type Submission struct {
	TaskID       string
	ResultURLs   []string
	ThumbnailURL string
}

// TaskStatus reports the state of a task-based job.
type TaskStatus struct {
	State         TaskState
	ResultURLs    []string
	ThumbnailURL  string
	FailureCode   string
	FailureReason string
}

// Client is implemented by every generation API adapter.
type Client interface {
	// Name identifies the provider in job records and error messages.
	Name() string

	// CreateJob submits one generation request. It is called at most once per
	// submission; retries are a caller decision. A non-success upstream
	// response surfaces as *domain.UpstreamError.
	CreateJob(ctx context.Context, input domain.JobInput) (*Submission, error)

	// TaskStatus checks a previously created task. Transport and decoding
	// failures surface as *domain.PollError; they say nothing about the fate
	// of the task itself.
	TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error)
}
