package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ocean-report/internal/report"
	"ocean-report/internal/service"
)

// ReportHandler sirve el reporte HTML como descarga.
type ReportHandler struct {
	logger *zap.Logger
	svc    *service.ReportService
}

func NewReportHandler(logger *zap.Logger, svc *service.ReportService) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{logger: logger, svc: svc}
}

// Generate maneja POST /report.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req struct {
		CandidateName string `json:"candidate_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid report request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_name is required"})
		return
	}
	session, _, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	artifact, err := h.svc.Generate(c.Request.Context(), service.ReportRequest{
		SessionID:     session.ID,
		CandidateName: req.CandidateName,
		Responses:     session.Answers,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			var rl *service.RateLimitError
			if errors.As(err, &rl) && rl.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
			}
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many report requests"})
		case errors.Is(err, service.ErrInvalidReportInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("report generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate report"})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.DownloadName+`"`)
	c.Header("X-Report-ID", artifact.ID)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(artifact.HTML))
}
