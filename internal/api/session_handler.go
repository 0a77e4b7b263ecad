package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/session"
)

// SessionHandler exposes the session gate state.
type SessionHandler struct {
	gate   SessionGate
	logger *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(gate SessionGate, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{gate: gate, logger: logger}
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.gate.Status())
}

// Verify handles POST /api/v1/session/verify
func (h *SessionHandler) Verify(c *gin.Context) {
	status, err := h.gate.Verify(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, status)
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, session.ErrTokenRejected):
		mapStudioErrorToStatus(c, h.logger, err)
	default:
		h.logger.Warn("Session verification unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Could not verify session", Details: err.Error()})
	}
}

// Logout handles POST /api/v1/session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.gate.Logout(c.Request.Context()); err != nil {
		// The in-memory session is gone even if the record could not be removed.
		h.logger.Error("Logout could not discard the session record", zap.Error(err))
	}
	c.JSON(http.StatusOK, h.gate.Status())
}
