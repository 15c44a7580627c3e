package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/hypecard-server/internal/api/http/response"
	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

const (
	msgInternal         = "Internal server error"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgUserUnauthorized = "User not found or unauthorized"
)

func handleError(c *gin.Context, logger *logger.Logger, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		response.Error(c, apiErr.Status, apiErr.Message)
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Not found")
		return
	}

	logger.Error("HTTP handler: request failed", "path", c.FullPath(), "error", err)
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, msgInternal)
}

func handleBindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}
	response.Error(c, http.StatusBadRequest, msgInvalidBody)
}

// parseID rejects ids that are not integers. Unassigned ids such as 0 fall
// through to the not-found path.
func parseID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

func userIDFromRequest(c *gin.Context, contextManager model.ContextManager) (uuid.UUID, bool) {
	userID, ok := contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, msgUserUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}
