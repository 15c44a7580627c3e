package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

const jobNameSuffix = "-HypeCard"

// Personas maps avatar selectors to provider replica ids.
type Personas struct {
	Female string
	Male   string
}

// Lookup returns the persona for avatar, or "" to let the provider choose.
func (p Personas) Lookup(avatar string) string {
	switch strings.ToLower(strings.TrimSpace(avatar)) {
	case "female":
		return p.Female
	case "male":
		return p.Male
	default:
		return ""
	}
}

// Video orchestrates video generation, ownership rules and read-path
// status reconciliation.
type Video struct {
	videoStore  model.VideoStore
	userStore   model.UserStore
	synthesizer model.VideoSynthesizer
	publisher   model.EventPublisher
	personas    Personas
	frontendURL string
	logger      *logger.Logger
}

func NewVideo(
	videoStore model.VideoStore,
	userStore model.UserStore,
	synthesizer model.VideoSynthesizer,
	publisher model.EventPublisher,
	personas Personas,
	frontendURL string,
	logger *logger.Logger,
) *Video {
	return &Video{
		videoStore:  videoStore,
		userStore:   userStore,
		synthesizer: synthesizer,
		publisher:   publisher,
		personas:    personas,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// CreateVideo generates a video for the user's profile and stores its record.
// The free tier check runs before input validation so a free user with a
// video is always told about the limit.
func (s *Video) CreateVideo(ctx context.Context, userID uuid.UUID, form model.VideoForm) (model.VideoRecord, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return model.VideoRecord{}, err
	}

	if !user.IsPro {
		count, err := s.videoStore.CountByUserID(ctx, user.ID)
		if err != nil {
			return model.VideoRecord{}, fmt.Errorf("failed to count videos: %w", err)
		}
		if err := CanCreate(user, count); err != nil {
			s.logger.Info("Video service: free tier limit reached", "user_id", user.ID, "count", count)
			return model.VideoRecord{}, err
		}
	}

	form = trimForm(form)
	if form.FormType == "" || form.Name == "" {
		return model.VideoRecord{}, model.NewErrValidation("Form type and name are required")
	}

	req := model.GenerateRequest{
		Script:    ComposeScript(form),
		PersonaID: s.personas.Lookup(form.Avatar),
		JobName:   form.Name + jobNameSuffix,
	}

	s.logger.Info("Video service: generating video", "user_id", user.ID, "persona", req.PersonaID)
	generated, err := s.synthesizer.Generate(ctx, req)
	if err != nil {
		s.logger.Error("Video service: provider generate failed", "user_id", user.ID, "error", err)
		return model.VideoRecord{}, model.NewErrUpstream()
	}

	status := generated.Status
	if status == "" {
		status = model.VideoStatusProcessing
	}

	record, err := s.videoStore.Create(ctx, model.VideoRecord{
		UserID:          user.ID,
		FormType:        form.FormType,
		Name:            form.Name,
		Role:            form.Role,
		Tagline:         form.Tagline,
		Description:     form.Description,
		Avatar:          form.Avatar,
		ProviderVideoID: generated.JobID,
		VideoURL:        generated.VideoURL,
		StreamURL:       generated.StreamURL,
		DownloadURL:     generated.DownloadURL,
		Status:          status,
		FreeTierSlot:    !user.IsPro,
	})
	if errors.Is(err, model.ErrFreeTierSlotTaken) {
		s.logger.Warn("Video service: concurrent free tier create rejected", "user_id", user.ID, "job_id", generated.JobID)
		return model.VideoRecord{}, model.NewErrForbidden(model.MsgFreeTierLimit)
	}
	if err != nil {
		return model.VideoRecord{}, fmt.Errorf("failed to save video: %w", err)
	}

	s.logger.Info("Video service: video created", "user_id", user.ID, "video_id", record.ID, "job_id", record.ProviderVideoID)
	s.publish(ctx, model.EventVideoCreated, record)

	return record, nil
}

// ListVideos returns the user's records newest first without contacting the provider.
func (s *Video) ListVideos(ctx context.Context, userID uuid.UUID) ([]model.VideoRecord, error) {
	records, err := s.videoStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos by user id: %w", err)
	}
	return records, nil
}

// DeleteVideo permanently removes a record. The provider job is left untouched.
func (s *Video) DeleteVideo(ctx context.Context, userID uuid.UUID, id int64) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	record, err := s.videoStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrNotFound("Video not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get video by id: %w", err)
	}

	if err := CanDelete(user, record); err != nil {
		return err
	}

	err = s.videoStore.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewErrNotFound("Video not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	s.logger.Info("Video service: video deleted", "user_id", user.ID, "video_id", id)
	s.publish(ctx, model.EventVideoDeleted, record)

	return nil
}

// FetchCard returns a public card, refreshing provider state when URLs are missing.
func (s *Video) FetchCard(ctx context.Context, id int64) (model.VideoRecord, error) {
	record, err := s.videoStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.VideoRecord{}, model.NewErrNotFound("Card not found")
	}
	if err != nil {
		return model.VideoRecord{}, fmt.Errorf("failed to get card by id: %w", err)
	}

	if !CanView(record) || !record.NeedsReconcile() {
		return record, nil
	}

	fresh, err := s.synthesizer.Status(ctx, record.ProviderVideoID)
	if err != nil {
		s.logger.Warn("Video service: provider status failed", "video_id", record.ID, "job_id", record.ProviderVideoID, "error", err)
		return record, nil
	}

	merged, changed := MergeProviderState(record, fresh)
	if !changed {
		return merged, nil
	}

	if err := s.videoStore.UpdateProviderState(ctx, merged); err != nil {
		s.logger.Error("Video service: failed to persist reconciled state", "video_id", record.ID, "error", err)
	}

	if merged.Status != record.Status {
		s.logger.Info("Video service: video status changed", "video_id", record.ID, "from", record.Status, "to", merged.Status)
		s.publish(ctx, model.EventVideoStatusChanged, merged)
	}

	return merged, nil
}

// ShareMetadata builds link preview data for a card.
func (s *Video) ShareMetadata(ctx context.Context, id int64) (model.ShareMetadata, error) {
	record, err := s.videoStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.ShareMetadata{}, model.NewErrNotFound("Card not found")
	}
	if err != nil {
		return model.ShareMetadata{}, fmt.Errorf("failed to get card by id: %w", err)
	}

	description := record.Tagline
	if description == "" {
		description = fmt.Sprintf("Check out %s's video card", record.Name)
	}

	return model.ShareMetadata{
		ID:          record.ID,
		Title:       fmt.Sprintf("%s's HypeCard", record.Name),
		Description: description,
		URL:         s.frontendURL + "/card/" + strconv.FormatInt(record.ID, 10),
		Image:       record.Avatar,
	}, nil
}

func (s *Video) loadUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewErrUnauthorized("User not found or unauthorized")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (s *Video) publish(ctx context.Context, eventType string, record model.VideoRecord) {
	err := s.publisher.Publish(ctx, model.Event{
		Type: eventType,
		Key:  strconv.FormatInt(record.ID, 10),
		Payload: map[string]any{
			"id":                record.ID,
			"user_id":           record.UserID,
			"status":            record.Status,
			"provider_video_id": record.ProviderVideoID,
		},
	})
	if err != nil {
		s.logger.Warn("Video service: failed to publish event", "type", eventType, "video_id", record.ID, "error", err)
	}
}

// ComposeScript joins the greeting, tagline and description, skipping empty parts.
func ComposeScript(form model.VideoForm) string {
	greeting := "Hello, I'm " + form.Name
	if form.Role != "" {
		greeting += ", " + form.Role
	}
	greeting += "."

	parts := []string{greeting}
	for _, p := range []string{form.Tagline, form.Description} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// MergeProviderState fills missing fields from the provider view. Populated
// URLs are never replaced and status only moves forward.
func MergeProviderState(record model.VideoRecord, fresh model.ProviderVideo) (model.VideoRecord, bool) {
	merged := record
	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}
	fill(&merged.VideoURL, fresh.VideoURL)
	fill(&merged.StreamURL, fresh.StreamURL)
	fill(&merged.DownloadURL, fresh.DownloadURL)
	merged.Status = record.Status.Advance(fresh.Status)

	changed := merged.VideoURL != record.VideoURL ||
		merged.StreamURL != record.StreamURL ||
		merged.DownloadURL != record.DownloadURL ||
		merged.Status != record.Status
	return merged, changed
}

func trimForm(form model.VideoForm) model.VideoForm {
	return model.VideoForm{
		FormType:    strings.TrimSpace(form.FormType),
		Name:        strings.TrimSpace(form.Name),
		Role:        strings.TrimSpace(form.Role),
		Tagline:     strings.TrimSpace(form.Tagline),
		Description: strings.TrimSpace(form.Description),
		Avatar:      strings.TrimSpace(form.Avatar),
	}
}
