// Package runway implements an asynchronous video-generation client for the
// Runway tasks API. CreateJob returns a task id; the tracker polls TaskStatus
// until the task reaches an explicit terminal state.
package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/domain"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/provider"
)

const (
	providerName = "runway"
	apiVersion   = "2024-11-06"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.dev.runwayml.com"
	}
	model := opts.Model
	if model == "" {
		model = "gen3a_turbo"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIKey),
		model:      model,
	}
}

func (c *Client) Name() string { return providerName }

type createTaskRequest struct {
	PromptText string `json:"promptText"`
	Model      string `json:"model"`
	Duration   int    `json:"duration,omitempty"`
}

type createTaskResponse struct {
	ID string `json:"id"`
}

type taskResponse struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	Output      []string `json:"output"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Failure     string   `json:"failure,omitempty"`
	FailureCode string   `json:"failureCode,omitempty"`
}

// CreateJob submits a text-to-video task and returns its id.
func (c *Client) CreateJob(ctx context.Context, input domain.JobInput) (*provider.Submission, error) {
	if c == nil {
		return nil, errors.New("runway client not configured")
	}
	if c.token == "" {
		return nil, errors.New("runway: API key is missing")
	}
	payload := createTaskRequest{
		PromptText: strings.TrimSpace(input.Prompt),
		Model:      c.model,
		Duration:   input.DurationSeconds,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/text_to_video", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("runway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &domain.UpstreamError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	var out createTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("runway: decode response: %w", err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("runway: missing task id")
	}
	return &provider.Submission{TaskID: out.ID}, nil
}

// TaskStatus checks a task. Transport or decoding failures come back as
// *domain.PollError so the caller leaves the job pending; only the payload's
// explicit status field resolves the task.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*provider.TaskStatus, error) {
	if c == nil {
		return nil, &domain.PollError{Provider: providerName, Err: errors.New("client not configured")}
	}
	if strings.TrimSpace(taskID) == "" {
		return nil, &domain.PollError{Provider: providerName, Err: errors.New("task id is required")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/tasks/"+taskID, nil)
	if err != nil {
		return nil, &domain.PollError{Provider: providerName, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.PollError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &domain.PollError{
			Provider: providerName,
			Err:      fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var out taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.PollError{Provider: providerName, Err: fmt.Errorf("decode response: %w", err)}
	}
	return mapTask(&out), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Runway-Version", apiVersion)
}

func mapTask(task *taskResponse) *provider.TaskStatus {
	switch strings.ToUpper(strings.TrimSpace(task.Status)) {
	case "SUCCEEDED":
		return &provider.TaskStatus{
			State:        provider.TaskStateSucceeded,
			ResultURLs:   task.Output,
			ThumbnailURL: task.Thumbnail,
		}
	case "FAILED":
		return &provider.TaskStatus{
			State:         provider.TaskStateFailed,
			FailureReason: task.Failure,
			FailureCode:   task.FailureCode,
		}
	default:
		// PENDING, RUNNING, THROTTLED and anything unrecognized: keep waiting.
		return &provider.TaskStatus{State: provider.TaskStateRunning}
	}
}

var _ provider.Client = (*Client)(nil)
