package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ocean-report/internal/questionnaire"
	"ocean-report/internal/service"
)

// AssessmentHandler expone el cuestionario de 44 items.
type AssessmentHandler struct {
	logger *zap.Logger
	svc    *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, svc *service.AssessmentService) *AssessmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentHandler{logger: logger, svc: svc}
}

// Start maneja POST /assessment.
func (h *AssessmentHandler) Start(c *gin.Context) {
	state, err := h.svc.Start()
	if err != nil {
		h.logger.Error("start assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start assessment"})
		return
	}
	c.JSON(http.StatusCreated, state)
}

// Answer maneja POST /assessment/answer.
func (h *AssessmentHandler) Answer(c *gin.Context) {
	var req struct {
		Value int `json:"value" binding:"required,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be between 1 and 5"})
		return
	}
	_, token, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	state, err := h.svc.Answer(token, req.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Back maneja POST /assessment/back.
func (h *AssessmentHandler) Back(c *gin.Context) {
	_, token, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	state, err := h.svc.Back(token)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Results maneja GET /assessment/results.
func (h *AssessmentHandler) Results(c *gin.Context) {
	session, _, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	c.JSON(http.StatusOK, h.svc.Score(session.Answers))
}

func (h *AssessmentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, questionnaire.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, questionnaire.ErrCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, questionnaire.ErrInvalidToken), errors.Is(err, questionnaire.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	default:
		h.logger.Error("assessment step failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update assessment"})
	}
}
