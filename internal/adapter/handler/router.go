package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetflow-app/meetflow/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	recorderHandler *Recorder
	meetingHandler  *Meeting
	authHandler     *Auth
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, recorderHandler *Recorder, meetingHandler *Meeting, authHandler *Auth) *Router {
	return &Router{
		cfg:             cfg,
		recorderHandler: recorderHandler,
		meetingHandler:  meetingHandler,
		authHandler:     authHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")

	rt.setupRecorderRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupAuthRoutes(v1)
}

// setupRecorderRoutes configures recording session routes
func (rt *Router) setupRecorderRoutes(g *echo.Group) {
	recorderGroup := g.Group("/recorder")

	recorderGroup.GET("", rt.recorderHandler.Get)
	recorderGroup.POST("/start", rt.recorderHandler.Start)
	recorderGroup.POST("/pause", rt.recorderHandler.Pause)
	recorderGroup.POST("/resume", rt.recorderHandler.Resume)
	recorderGroup.POST("/stop", rt.recorderHandler.Stop)
	recorderGroup.POST("/transcript", rt.recorderHandler.AppendTranscript)
}

// setupMeetingRoutes configures meeting collection routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	meetingGroup.GET("", rt.meetingHandler.List)
	meetingGroup.GET("/:id", rt.meetingHandler.Get)
	meetingGroup.DELETE("/:id", rt.meetingHandler.Delete)
	meetingGroup.POST("/:id/analysis", rt.meetingHandler.RunAnalysis)
	meetingGroup.POST("/:id/export", rt.meetingHandler.Export)

	g.GET("/stats", rt.meetingHandler.Stats)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/login", rt.authHandler.Login)
	authGroup.POST("/register", rt.authHandler.Register)
	authGroup.POST("/logout", rt.authHandler.Logout)
	authGroup.POST("/forgot-password", rt.authHandler.ForgotPassword)
	authGroup.POST("/social", rt.authHandler.SocialLogin)
	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
	authGroup.GET("/me", rt.authHandler.Me)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
