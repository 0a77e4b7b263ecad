package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/session"
)

// AuthHandler drives the external login handshake.
type AuthHandler struct {
	gate      SessionGate
	clientURL string
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. Successful logins are redirected
// back to clientURL.
func NewAuthHandler(gate SessionGate, clientURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, clientURL: clientURL, logger: logger}
}

// Login handles GET /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	authURL, err := h.gate.BeginLogin()
	if errors.Is(err, session.ErrAlreadyAuthenticated) {
		c.Redirect(http.StatusFound, h.clientURL)
		return
	}
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback handles GET /auth/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		h.gate.AbortLogin()
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Login was not completed", Details: providerErr})
		return
	}

	err := h.gate.CompleteLogin(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		h.logger.Warn("OAuth callback rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Login failed", Details: err.Error()})
		return
	}
	c.Redirect(http.StatusFound, h.clientURL)
}
