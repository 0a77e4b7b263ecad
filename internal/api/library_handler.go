package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/models"
)

// LibraryHandler handles the recipe book library.
type LibraryHandler struct {
	studio core.StudioService
	covers CoverFetcher
	logger *zap.Logger
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(studio core.StudioService, covers CoverFetcher, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{studio: studio, covers: covers, logger: logger}
}

// ListBooks handles GET /api/v1/library?category=
func (h *LibraryHandler) ListBooks(c *gin.Context) {
	category := c.Query("category")
	c.JSON(http.StatusOK, BooksResponse{Category: category, Books: h.studio.Books(category)})
}

// ImportBook handles POST /api/v1/library/import
func (h *LibraryHandler) ImportBook(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	book, err := h.studio.Import(req.Topic, req.JSON)
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// GetBook handles GET /api/v1/library/books/:bookId
func (h *LibraryHandler) GetBook(c *gin.Context) {
	book, err := h.studio.Book(c.Param("bookId"))
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBook handles PATCH /api/v1/library/books/:bookId
func (h *LibraryHandler) UpdateBook(c *gin.Context) {
	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	book, err := h.studio.UpdateBook(c.Param("bookId"), req)
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/v1/library/books/:bookId
func (h *LibraryHandler) DeleteBook(c *gin.Context) {
	if err := h.studio.DeleteBook(c.Param("bookId")); err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReplicationPrompt handles GET /api/v1/library/books/:bookId/replication-prompt
func (h *LibraryHandler) ReplicationPrompt(c *gin.Context) {
	prompt, err := h.studio.ReplicationPrompt(c.Param("bookId"))
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PromptResponse{Prompt: prompt})
}

// Cover handles GET /api/v1/library/books/:bookId/cover
func (h *LibraryHandler) Cover(c *gin.Context) {
	coverURL, err := h.studio.CoverURL(c.Param("bookId"))
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}

	thumb, err := h.covers.Fetch(c.Request.Context(), coverURL)
	if err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, thumb.ContentType, thumb.Data)
}

// Sync handles POST /api/v1/library/sync
func (h *LibraryHandler) Sync(c *gin.Context) {
	if err := h.studio.SyncNow(c.Request.Context()); err != nil {
		mapStudioErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SyncResponse{Sync: h.studio.Snapshot().Sync})
}
