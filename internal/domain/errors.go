package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUpstreamRejected = errors.New("upstream rejected")
	ErrPollFailed       = errors.New("poll failed")
)

// UpstreamError reports a non-success response from the generation API during
// submission. No job is persisted when it occurs.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream rejected request (http %d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamRejected
}

// PollError reports a transient failure while checking upstream task status.
// The job stays pending; the outcome is ambiguous, not a failure assertion.
type PollError struct {
	Provider string
	Err      error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("%s: status check failed: %v", e.Provider, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

func (e *PollError) Is(target error) bool {
	return target == ErrPollFailed
}
