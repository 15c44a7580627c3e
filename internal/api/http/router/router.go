// Package router wires HTTP handlers and middleware onto a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/hypecard-server/internal/api/http/handler"
	"github.com/dtroode/hypecard-server/internal/api/http/middleware"
	"github.com/dtroode/hypecard-server/internal/api/http/response"
	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/model"
)

// Options configures cross-cutting middleware.
type Options struct {
	FrontendURL     string
	MaxBodyBytes    int64
	AuthLimiter     middleware.RateLimiter
	SignatureHeader string
}

// Router represents the HTTP router for hypecard endpoints.
type Router struct {
	authService         handler.AuthService
	videoService        VideoService
	subscriptionService handler.SubscriptionService
	tokenService        middleware.TokenService
	db                  handler.Pinger
	contextManager      model.ContextManager
	options             Options
	logger              *logger.Logger
}

// VideoService is the union of owner and public card operations.
type VideoService interface {
	handler.VideoService
	handler.CardService
}

// New creates new Router instance.
func New(
	authService handler.AuthService,
	videoService VideoService,
	subscriptionService handler.SubscriptionService,
	tokenService middleware.TokenService,
	db handler.Pinger,
	contextManager model.ContextManager,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:         authService,
		videoService:        videoService,
		subscriptionService: subscriptionService,
		tokenService:        tokenService,
		db:                  db,
		contextManager:      contextManager,
		options:             options,
		logger:              logger,
	}
}

// Register builds the engine with request logging, security middleware and all routes.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	e := gin.New()
	e.Use(
		gin.Recovery(),
		logging.Handle,
		middleware.SecurityHeaders(),
		middleware.CORS(r.options.FrontendURL),
		middleware.BodyLimit(r.options.MaxBodyBytes),
	)

	e.GET("/health", handler.NewHealth(r.db, r.logger).Health)

	api := e.Group("/api")
	r.registerAuthRoutes(api, authenticate.Handle)
	r.registerVideoRoutes(api, authenticate.Handle)
	r.registerCardRoutes(api)
	r.registerSubscriptionRoutes(api, authenticate.Handle)

	e.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found")
	})

	return e
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup, authenticate gin.HandlerFunc) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)

	limited := api.Group("")
	if r.options.AuthLimiter != nil {
		limited.Use(middleware.RateLimit(r.options.AuthLimiter))
	}
	limited.POST("/login", authHandler.Login)
	limited.POST("/signup", authHandler.Signup)
	limited.POST("/refresh", authHandler.Refresh)

	api.GET("/me", authenticate, authHandler.Me)
}

func (r *Router) registerVideoRoutes(api *gin.RouterGroup, authenticate gin.HandlerFunc) {
	videoHandler := handler.NewVideo(r.videoService, r.contextManager, r.logger)

	api.POST("/form", authenticate, videoHandler.CreateVideo)
	api.GET("/videos", authenticate, videoHandler.ListVideos)
	api.DELETE("/videos/:id", authenticate, videoHandler.DeleteVideo)
}

func (r *Router) registerCardRoutes(api *gin.RouterGroup) {
	cardHandler := handler.NewCard(r.videoService, r.logger)

	api.GET("/card/:id", cardHandler.GetCard)
	api.GET("/card/:id/share", cardHandler.ShareCard)
}

func (r *Router) registerSubscriptionRoutes(api *gin.RouterGroup, authenticate gin.HandlerFunc) {
	subscriptionHandler := handler.NewSubscription(r.subscriptionService, r.options.SignatureHeader, r.contextManager, r.logger)

	api.GET("/subscribe/status", authenticate, subscriptionHandler.Status)
	api.POST("/subscribe/webhook", subscriptionHandler.Webhook)
}
