package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/hypecard-server/internal/api/http/response"
	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

const msgInvalidCardID = "Invalid card ID"

// CardService defines the public card operations.
type CardService interface {
	FetchCard(ctx context.Context, id int64) (model.VideoRecord, error)
	ShareMetadata(ctx context.Context, id int64) (model.ShareMetadata, error)
}

// Card handles public, unauthenticated card endpoints.
type Card struct {
	cardService CardService
	logger      *logger.Logger
}

func NewCard(cardService CardService, logger *logger.Logger) *Card {
	return &Card{cardService: cardService, logger: logger}
}

func (h *Card) GetCard(c *gin.Context) {
	id, ok := parseID(c, msgInvalidCardID)
	if !ok {
		return
	}

	record, err := h.cardService.FetchCard(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, newCardView(record))
}

func (h *Card) ShareCard(c *gin.Context) {
	id, ok := parseID(c, msgInvalidCardID)
	if !ok {
		return
	}

	meta, err := h.cardService.ShareMetadata(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, newShareView(meta))
}
