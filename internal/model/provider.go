package model

import (
	"context"
	"time"
)

// VideoSynthesizer generates talking-head videos and reports job progress.
type VideoSynthesizer interface {
	Generate(ctx context.Context, req GenerateRequest) (ProviderVideo, error)
	Status(ctx context.Context, jobID string) (ProviderVideo, error)
}

// GenerateRequest is a single synthesis job.
type GenerateRequest struct {
	Script    string
	PersonaID string
	JobName   string
}

// ProviderVideo is the provider's view of a job. Empty fields are unknown.
type ProviderVideo struct {
	JobID       string      `json:"job_id"`
	Status      VideoStatus `json:"status"`
	VideoURL    string      `json:"video_url"`
	StreamURL   string      `json:"stream_url"`
	DownloadURL string      `json:"download_url"`
}

// StatusCache stores recent provider status lookups.
type StatusCache interface {
	Get(ctx context.Context, jobID string) (ProviderVideo, bool, error)
	Set(ctx context.Context, jobID string, video ProviderVideo, ttl time.Duration) error
}
