package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtor-feedback/internal/analysis"
	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/directory"
	"realtor-feedback/internal/feedback"
	"realtor-feedback/internal/initiator"
	"realtor-feedback/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type DirectoryService interface {
	CreateClient(ctx context.Context, req directory.CreateClientRequest) (directory.Client, error)
	GetClient(ctx context.Context, id string) (directory.Client, error)
	ListClients(ctx context.Context, offset, limit int) ([]directory.Client, error)
	CreateAgent(ctx context.Context, req directory.CreateAgentRequest) (directory.Agent, error)
	ListAgents(ctx context.Context, offset, limit int) ([]directory.Agent, error)
}

type CallsService interface {
	List(ctx context.Context, offset, limit int) ([]calls.Call, error)
}

type FeedbackService interface {
	Create(ctx context.Context, req feedback.CreateRequest) (feedback.Feedback, error)
	List(ctx context.Context, offset, limit int) ([]feedback.Feedback, error)
}

type Initiator interface {
	InitiateCall(ctx context.Context, rawPhone string) (initiator.Result, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, transcript string) analysis.Result
}

type Handlers struct {
	Directory DirectoryService
	Calls     CallsService
	Feedback  FeedbackService
	Initiator Initiator
	Analyzer  Analyzer
}

// --- Clients ---

func (h Handlers) CreateClient(c *gin.Context) {
	var req directory.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	client, err := h.Directory.CreateClient(c.Request.Context(), req)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h Handlers) GetClient(c *gin.Context) {
	client, err := h.Directory.GetClient(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h Handlers) ListClients(c *gin.Context) {
	offset, limit := pageParams(c)
	clients, err := h.Directory.ListClients(c.Request.Context(), offset, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// --- Agents ---

func (h Handlers) CreateAgent(c *gin.Context) {
	var req directory.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	agent, err := h.Directory.CreateAgent(c.Request.Context(), req)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agent)
}

func (h Handlers) ListAgents(c *gin.Context) {
	offset, limit := pageParams(c)
	agents, err := h.Directory.ListAgents(c.Request.Context(), offset, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

// --- Calls ---

func (h Handlers) ListCalls(c *gin.Context) {
	offset, limit := pageParams(c)
	rows, err := h.Calls.List(c.Request.Context(), offset, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": rows})
}

type initiateCallRequest struct {
	PhoneNumber string `form:"phone_number" json:"phone_number"`
}

// InitiateCall places an outbound feedback call. Accepts form or JSON bodies;
// the telephony console posts forms.
func (h Handlers) InitiateCall(c *gin.Context) {
	var req initiateCallRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PhoneNumber == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "phone_number required"})
		return
	}
	res, err := h.Initiator.InitiateCall(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		if errors.Is(err, initiator.ErrInvalidPhone) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}
		logger.FromGin(c).Error("call initiation failed", "error", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "call initiation failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// --- Feedback ---

func (h Handlers) CreateFeedback(c *gin.Context) {
	var req feedback.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	fb, err := h.Feedback.Create(c.Request.Context(), req)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h Handlers) ListFeedback(c *gin.Context) {
	offset, limit := pageParams(c)
	rows, err := h.Feedback.List(c.Request.Context(), offset, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": rows})
}

// --- Analysis ---

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

// AnalyzeTranscript runs feedback extraction on a caller-supplied transcript
// without touching storage. Useful for tuning and replays.
func (h Handlers) AnalyzeTranscript(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Transcript == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "transcript required"})
		return
	}
	ctx := logger.With(c.Request.Context(), logger.FromGin(c))
	c.JSON(http.StatusOK, h.Analyzer.Analyze(ctx, req.Transcript))
}

func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound), errors.Is(err, calls.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, directory.ErrInvalidArgument), errors.Is(err, feedback.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid argument"})
	default:
		logger.FromGin(c).Error("request failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	return offset, limit
}
