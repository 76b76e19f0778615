// Package qwen implements a synchronous image-generation client for the
// DashScope multimodal API. The API returns result URLs directly, so jobs
// submitted through it never enter the polling path.
package qwen

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

const providerName = "qwen"

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
		base = "https://dashscope-intl.aliyuncs.com/api/v1"
	}
	model := opts.Model
	if model == "" {
		model = "qwen-image"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
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

type generationRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []struct {
			Role    string           `json:"role"`
			Content []map[string]any `json:"content"`
		} `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Size      string `json:"size,omitempty"`
		Watermark bool   `json:"watermark"`
	} `json:"parameters"`
}

type generationResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content []map[string]string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateJob generates one image synchronously and returns its URL.
func (c *Client) CreateJob(ctx context.Context, input domain.JobInput) (*provider.Submission, error) {
	if c == nil {
		return nil, errors.New("qwen client not configured")
	}
	if c.token == "" {
		return nil, errors.New("qwen: API key is missing")
	}
	var payload generationRequest
	payload.Model = c.model
	msg := struct {
		Role    string           `json:"role"`
		Content []map[string]any `json:"content"`
	}{
		Role: "user",
		Content: []map[string]any{
			{"text": strings.TrimSpace(input.Prompt)},
		},
	}
	payload.Input.Messages = append(payload.Input.Messages, msg)
	if input.Size.Width > 0 && input.Size.Height > 0 {
		payload.Parameters.Size = fmt.Sprintf("%d*%d", input.Size.Width, input.Size.Height)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/services/aigc/multimodal-generation/generation"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qwen: %w", err)
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

	var out generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("qwen: decode response: %w", err)
	}
	if len(out.Output.Choices) == 0 || len(out.Output.Choices[0].Message.Content) == 0 {
		if out.Message != "" {
			return nil, fmt.Errorf("qwen error: %s (%s)", out.Message, out.Code)
		}
		return nil, errors.New("qwen: empty response")
	}
	url := out.Output.Choices[0].Message.Content[0]["image"]
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("qwen: missing image url")
	}
	return &provider.Submission{ResultURLs: []string{url}}, nil
}

// TaskStatus is never reachable: CreateJob returns results synchronously.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*provider.TaskStatus, error) {
	return nil, &domain.PollError{Provider: providerName, Err: errors.New("qwen jobs complete synchronously")}
}

var _ provider.Client = (*Client)(nil)
