// Package getimg implements a synchronous image-generation client for the
// getimg.ai REST API.
package getimg

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

const providerName = "getimg"

type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.getimg.ai"
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
	}
}

func (c *Client) Name() string { return providerName }

type textToImageRequest struct {
	Prompt         string `json:"prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	ResponseFormat string `json:"response_format"`
}

type textToImageResponse struct {
	URL   string `json:"url"`
	Seed  int64  `json:"seed"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateJob generates one image synchronously and returns its URL.
func (c *Client) CreateJob(ctx context.Context, input domain.JobInput) (*provider.Submission, error) {
	if c == nil {
		return nil, errors.New("getimg client not configured")
	}
	if c.token == "" {
		return nil, errors.New("getimg: API key is missing")
	}
	payload := textToImageRequest{
		Prompt:         strings.TrimSpace(input.Prompt),
		Width:          input.Size.Width,
		Height:         input.Size.Height,
		ResponseFormat: "url",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/v1/essential-v2/text-to-image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getimg: %w", err)
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

	var out textToImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("getimg: decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("getimg error: %s (%s)", out.Error.Message, out.Error.Type)
	}
	if strings.TrimSpace(out.URL) == "" {
		return nil, errors.New("getimg: missing image url")
	}
	return &provider.Submission{ResultURLs: []string{out.URL}}, nil
}

// TaskStatus is never reachable: CreateJob returns results synchronously.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*provider.TaskStatus, error) {
	return nil, &domain.PollError{Provider: providerName, Err: errors.New("getimg jobs complete synchronously")}
}

var _ provider.Client = (*Client)(nil)
