package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/hypecard-server/internal/api/http/response"
	"github.com/dtroode/hypecard-server/internal/logger"
)

const serviceName = "hypecard-server"

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness and database reachability.
type Health struct {
	db     Pinger
	logger *logger.Logger
	now    func() time.Time
}

func NewHealth(db Pinger, logger *logger.Logger) *Health {
	return &Health{db: db, logger: logger, now: time.Now}
}

type healthView struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func (h *Health) Health(c *gin.Context) {
	view := healthView{Status: "ok", Service: serviceName, Timestamp: h.now().UTC().Format(time.RFC3339Nano)}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("Health handler: database ping failed", "error", err)
			view.Status = "degraded"
			response.OK(c, http.StatusServiceUnavailable, view)
			return
		}
	}

	response.OK(c, http.StatusOK, view)
}
