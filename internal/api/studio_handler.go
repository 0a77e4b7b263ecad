package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/models"
)

// StudioHandler handles view navigation and prompt generation.
type StudioHandler struct {
	studio core.StudioService
	logger *zap.Logger
}

// NewStudioHandler creates a new StudioHandler.
func NewStudioHandler(studio core.StudioService, logger *zap.Logger) *StudioHandler {
	return &StudioHandler{studio: studio, logger: logger}
}

// GetStudio handles GET /api/v1/studio
func (h *StudioHandler) GetStudio(c *gin.Context) {
	c.JSON(http.StatusOK, h.studio.Snapshot())
}

// Navigate handles POST /api/v1/studio/view
func (h *StudioHandler) Navigate(c *gin.Context) {
	var req models.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	view, err := core.ParseView(req.View)
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	if err := h.studio.Navigate(view, req.BookID); err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.studio.Snapshot())
}

// GetPrompt handles GET /api/v1/prompt?topic=
func (h *StudioHandler) GetPrompt(c *gin.Context) {
	topic := c.Query("topic")
	prompt, err := h.studio.BeginImport(topic)
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PromptResponse{Topic: topic, Prompt: prompt})
}
