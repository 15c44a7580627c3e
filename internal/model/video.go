package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VideoStore defines persistence operations for video records.
type VideoStore interface {
	// Create inserts the record and returns it with store-assigned fields.
	// Returns ErrFreeTierSlotTaken when the user already holds a free tier record.
	Create(ctx context.Context, record VideoRecord) (VideoRecord, error)
	GetByID(ctx context.Context, id int64) (VideoRecord, error)
	// GetByUserID returns the user's records, newest first.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]VideoRecord, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	// UpdateProviderState persists status and URLs only.
	UpdateProviderState(ctx context.Context, record VideoRecord) error
	Delete(ctx context.Context, id int64) error
}

// VideoStatus is the lifecycle state of a video record.
type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s VideoStatus) Terminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// Advance returns the status after observing next. Only processing may move,
// and only to a terminal status.
func (s VideoStatus) Advance(next VideoStatus) VideoStatus {
	if s == "" {
		s = VideoStatusProcessing
	}
	if s == VideoStatusProcessing && next.Terminal() {
		return next
	}
	return s
}

// VideoRecord is one generation request and its outcome.
type VideoRecord struct {
	ID              int64
	UserID          uuid.UUID
	FormType        string
	Name            string
	Role            string
	Tagline         string
	Description     string
	Avatar          string
	ProviderVideoID string
	VideoURL        string
	StreamURL       string
	DownloadURL     string
	Status          VideoStatus
	FreeTierSlot    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NeedsReconcile reports whether the provider should be asked for fresh state.
func (r VideoRecord) NeedsReconcile() bool {
	if r.StreamURL != "" && r.DownloadURL != "" {
		return false
	}
	return r.ProviderVideoID != "" && r.Status != VideoStatusFailed
}

// VideoForm is the profile submitted to create a video.
type VideoForm struct {
	FormType    string
	Name        string
	Role        string
	Tagline     string
	Description string
	Avatar      string
}

// ShareMetadata describes a card for link previews.
type ShareMetadata struct {
	ID          int64
	Title       string
	Description string
	URL         string
	Image       string
}
