// Package tavus is a client for the Tavus video generation API.
package tavus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dtroode/hypecard-server/internal/model"
)

const (
	DefaultBaseURL = "https://tavusapi.com/v2"
	apiKeyHeader   = "x-api-key"
	maxErrorBody   = 4 << 10
)

var (
	ErrInvalidAPIKey = errors.New("tavus: invalid API key")
	ErrRateLimited   = errors.New("tavus: rate limit exceeded")
)

// APIError is a non-2xx response from Tavus.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tavus: unexpected status %d: %s", e.StatusCode, e.Body)
}

var _ model.VideoSynthesizer = (*Client)(nil)

// Client calls the Tavus REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. A zero timeout leaves requests unbounded.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Script    string `json:"script"`
	ReplicaID string `json:"replica_id,omitempty"`
	VideoName string `json:"video_name"`
}

type videoResponse struct {
	VideoID     string `json:"video_id"`
	Status      string `json:"status"`
	HostedURL   string `json:"hosted_url"`
	StreamURL   string `json:"stream_url"`
	DownloadURL string `json:"download_url"`
}

func (r videoResponse) toModel() model.ProviderVideo {
	return model.ProviderVideo{
		JobID:       r.VideoID,
		Status:      NormalizeStatus(r.Status),
		VideoURL:    r.HostedURL,
		StreamURL:   r.StreamURL,
		DownloadURL: r.DownloadURL,
	}
}

// Generate starts a new video job.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (model.ProviderVideo, error) {
	body, err := json.Marshal(generateRequest{
		Script:    req.Script,
		ReplicaID: req.PersonaID,
		VideoName: req.JobName,
	})
	if err != nil {
		return model.ProviderVideo{}, fmt.Errorf("failed to encode generate request: %w", err)
	}

	var resp videoResponse
	if err := c.do(ctx, http.MethodPost, "/videos", bytes.NewReader(body), &resp); err != nil {
		return model.ProviderVideo{}, err
	}
	if resp.VideoID == "" {
		return model.ProviderVideo{}, fmt.Errorf("tavus: response has no video_id")
	}

	return resp.toModel(), nil
}

// Status returns the current state of a video job.
func (c *Client) Status(ctx context.Context, jobID string) (model.ProviderVideo, error) {
	var resp videoResponse
	if err := c.do(ctx, http.MethodGet, "/videos/"+url.PathEscape(jobID), nil, &resp); err != nil {
		return model.ProviderVideo{}, err
	}
	if resp.VideoID == "" {
		resp.VideoID = jobID
	}
	return resp.toModel(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build tavus request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tavus request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidAPIKey
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= http.StatusBadRequest:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode tavus response: %w", err)
	}
	return nil
}

// NormalizeStatus maps Tavus job states onto the record lifecycle.
func NormalizeStatus(status string) model.VideoStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "ready", "completed":
		return model.VideoStatusCompleted
	case "error", "failed", "deleted":
		return model.VideoStatusFailed
	default:
		return model.VideoStatusProcessing
	}
}
