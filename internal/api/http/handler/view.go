package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/hypecard-server/internal/model"
)

type userView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type meView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	IsPro     bool       `json:"is_pro"`
	CreatedAt *time.Time `json:"created_at"`
}

type sessionView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

type authView struct {
	User    userView    `json:"user"`
	Session sessionView `json:"session"`
}

type createdVideoView struct {
	ID          int64             `json:"id"`
	VideoURL    *string           `json:"video_url"`
	DownloadURL *string           `json:"download_url"`
	StreamURL   *string           `json:"stream_url"`
	Status      model.VideoStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

type cardView struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Role        *string           `json:"role"`
	Tagline     *string           `json:"tagline"`
	Description *string           `json:"description"`
	Avatar      *string           `json:"avatar"`
	VideoURL    *string           `json:"video_url"`
	StreamURL   *string           `json:"stream_url"`
	DownloadURL *string           `json:"download_url"`
	Status      model.VideoStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

type videoView struct {
	cardView
	FormType        string  `json:"form_type"`
	ProviderVideoID *string `json:"tavus_video_id"`
}

type videoListView struct {
	Videos []videoView `json:"videos"`
	Count  int         `json:"count"`
}

type shareView struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Image       *string `json:"image"`
}

type subscriptionStatusView struct {
	IsPro     bool       `json:"is_pro"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type webhookView struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	IsPro   bool   `json:"is_pro"`
}

type messageView struct {
	Message string `json:"message"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newAuthView(res model.AuthResult) authView {
	return authView{
		User: userView{ID: res.User.ID, Email: res.User.Email},
		Session: sessionView{
			AccessToken:  res.Session.AccessToken,
			RefreshToken: res.Session.RefreshToken,
			ExpiresAt:    res.Session.ExpiresAt.Unix(),
		},
	}
}

func newMeView(u model.User) meView {
	v := meView{ID: u.ID, Email: u.Email, IsPro: u.IsPro}
	if !u.CreatedAt.IsZero() {
		createdAt := u.CreatedAt
		v.CreatedAt = &createdAt
	}
	return v
}

func newCreatedVideoView(r model.VideoRecord) createdVideoView {
	return createdVideoView{
		ID:          r.ID,
		VideoURL:    nullable(r.VideoURL),
		DownloadURL: nullable(r.DownloadURL),
		StreamURL:   nullable(r.StreamURL),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

func newCardView(r model.VideoRecord) cardView {
	return cardView{
		ID:          r.ID,
		Name:        r.Name,
		Role:        nullable(r.Role),
		Tagline:     nullable(r.Tagline),
		Description: nullable(r.Description),
		Avatar:      nullable(r.Avatar),
		VideoURL:    nullable(r.VideoURL),
		StreamURL:   nullable(r.StreamURL),
		DownloadURL: nullable(r.DownloadURL),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

func newVideoListView(records []model.VideoRecord) videoListView {
	videos := make([]videoView, 0, len(records))
	for _, r := range records {
		videos = append(videos, videoView{
			cardView:        newCardView(r),
			FormType:        r.FormType,
			ProviderVideoID: nullable(r.ProviderVideoID),
		})
	}
	return videoListView{Videos: videos, Count: len(videos)}
}

func newShareView(m model.ShareMetadata) shareView {
	return shareView{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		URL:         m.URL,
		Image:       nullable(m.Image),
	}
}
