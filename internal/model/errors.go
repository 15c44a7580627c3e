package model

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrFreeTierSlotTaken = errors.New("free tier slot already taken")
)

// APIError is an error with a client-facing message and HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

const (
	MsgFreeTierLimit     = "Free users are limited to 1 video. Upgrade to Pro for unlimited videos."
	MsgDeleteRequiresPro = "Only Pro users can delete videos"
	MsgDeleteNotOwner    = "You can only delete your own videos"
	MsgUpstream          = "Video generation service temporarily unavailable"
)

func NewErrValidation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func NewErrUnauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func NewErrForbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

func NewErrNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

func NewErrConflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message}
}

// NewErrUpstream hides provider details behind a fixed message.
func NewErrUpstream() *APIError {
	return &APIError{Status: http.StatusBadGateway, Message: MsgUpstream}
}

func NewErrInternal(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: message}
}
