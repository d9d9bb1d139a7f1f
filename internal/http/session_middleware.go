package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ocean-report/internal/questionnaire"
	"ocean-report/internal/service"
)

const (
	sessionKey      = "assessment_session"
	sessionTokenKey = "assessment_token"
)

// SessionTokenMiddleware valida el token de sesion del cuestionario y guarda la sesion en el contexto.
func SessionTokenMiddleware(svc *service.AssessmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "assessment not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		session, err := svc.Session(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, questionnaire.ErrExpiredToken) {
				msg = "session expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// GetSession obtiene la sesion del cuestionario desde el contexto.
func GetSession(c *gin.Context) (questionnaire.Session, string, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return questionnaire.Session{}, "", false
	}
	session, ok := val.(questionnaire.Session)
	if !ok {
		return questionnaire.Session{}, "", false
	}
	return session, c.GetString(sessionTokenKey), true
}
