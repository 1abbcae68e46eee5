package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meetpilot-team/meetpilot/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	webhookHandler  *WebhookHandler
	realtimeHandler *RealtimeHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *WebhookHandler, realtimeHandler *RealtimeHandler) *Router {
	return &Router{
		cfg:             cfg,
		webhookHandler:  webhookHandler,
		realtimeHandler: realtimeHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	webhooks := e.Group("/webhooks")
	webhooks.POST("/recall", rt.webhookHandler.HandleRecallWebhook)
	webhooks.GET("/recall/health", rt.webhookHandler.HandleHealth)

	e.GET("/ws", rt.realtimeHandler.HandleSocket)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
