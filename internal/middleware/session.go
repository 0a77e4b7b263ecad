package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-studio-backend/internal/models"
)

// ContextSessionKey is the gin context key holding the models.UserSession of
// an authenticated request.
const ContextSessionKey = "userSession"

// ErrorResponse is the JSON error body. It mirrors api.ErrorResponse, which
// cannot be imported here without a cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SessionSource reports the current authenticated session.
type SessionSource interface {
	Current() (models.UserSession, bool)
}

// RequireSession rejects requests with 401 unless the session gate is
// authenticated.
func RequireSession(source SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := source.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "Not authenticated",
				Details: "Sign in with Google to use the studio.",
			})
			return
		}
		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(c *gin.Context) (models.UserSession, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return models.UserSession{}, false
	}
	sess, ok := v.(models.UserSession)
	return sess, ok
}
