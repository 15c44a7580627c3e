package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/hypecard-server/internal/api/http/response"
	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

const msgInvalidVideoID = "Invalid video ID"

// VideoService defines the authenticated video operations.
type VideoService interface {
	CreateVideo(ctx context.Context, userID uuid.UUID, form model.VideoForm) (model.VideoRecord, error)
	ListVideos(ctx context.Context, userID uuid.UUID) ([]model.VideoRecord, error)
	DeleteVideo(ctx context.Context, userID uuid.UUID, id int64) error
}

// Video handles the owner's video endpoints.
type Video struct {
	videoService   VideoService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewVideo creates a new Video handler.
func NewVideo(videoService VideoService, contextManager model.ContextManager, logger *logger.Logger) *Video {
	return &Video{videoService: videoService, contextManager: contextManager, logger: logger}
}

type formRequest struct {
	FormType    string `json:"formType"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

// CreateVideo submits a profile for generation.
func (h *Video) CreateVideo(c *gin.Context) {
	userID, ok := userIDFromRequest(c, h.contextManager)
	if !ok {
		return
	}

	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	h.logger.Debug("Video handler: processing create video request", "user_id", userID, "form_type", req.FormType)

	record, err := h.videoService.CreateVideo(c.Request.Context(), userID, model.VideoForm{
		FormType:    req.FormType,
		Name:        req.Name,
		Role:        req.Role,
		Tagline:     req.Tagline,
		Description: req.Description,
		Avatar:      req.Avatar,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, newCreatedVideoView(record))
}

func (h *Video) ListVideos(c *gin.Context) {
	userID, ok := userIDFromRequest(c, h.contextManager)
	if !ok {
		return
	}

	records, err := h.videoService.ListVideos(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, newVideoListView(records))
}

func (h *Video) DeleteVideo(c *gin.Context) {
	userID, ok := userIDFromRequest(c, h.contextManager)
	if !ok {
		return
	}

	id, ok := parseID(c, msgInvalidVideoID)
	if !ok {
		return
	}

	if err := h.videoService.DeleteVideo(c.Request.Context(), userID, id); err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, messageView{Message: "Video deleted successfully"})
}
