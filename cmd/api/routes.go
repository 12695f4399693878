package main

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"realtor-feedback/internal/httpapi"
	"realtor-feedback/internal/pipeline"
	"realtor-feedback/pkg/utils"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, db *sql.DB, webhook *pipeline.Handler, h httpapi.Handlers) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Client Feedback System API"})
	})

	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider webhooks (public).
	// NOTE: This endpoint should be protected by Twilio signature validation in production.
	r.POST("/webhooks/twilio/recording", webhook.HandleRecording)

	v1 := r.Group("/v1")
	{
		clients := v1.Group("/clients")
		{
			clients.POST("", h.CreateClient)
			clients.GET("", h.ListClients)
			clients.GET("/:client_id", h.GetClient)
		}

		agents := v1.Group("/agents")
		{
			agents.POST("", h.CreateAgent)
			agents.GET("", h.ListAgents)
		}

		callsGroup := v1.Group("/calls")
		{
			callsGroup.GET("", h.ListCalls)
			callsGroup.POST("/initiate", h.InitiateCall)
		}

		fb := v1.Group("/feedback")
		{
			fb.POST("", h.CreateFeedback)
			fb.GET("", h.ListFeedback)
		}

		v1.POST("/analyze", h.AnalyzeTranscript)
	}
}
