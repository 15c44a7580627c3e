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

// AuthService defines identity operations.
type AuthService interface {
	Signup(ctx context.Context, creds model.Credentials) (model.AuthResult, error)
	Login(ctx context.Context, creds model.Credentials) (model.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (model.AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// Auth handles identity endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, contextManager: contextManager, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Auth) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	res, err := h.authService.Signup(c.Request.Context(), model.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, newAuthView(res))
}

func (h *Auth) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), model.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, newAuthView(res))
}

func (h *Auth) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	res, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, newAuthView(res))
}

// Me returns the current user's projection.
func (h *Auth) Me(c *gin.Context) {
	userID, ok := userIDFromRequest(c, h.contextManager)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"user": newMeView(user)})
}
