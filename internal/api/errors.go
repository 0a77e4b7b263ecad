package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/db"
	"recipe-studio-backend/internal/imaging"
	"recipe-studio-backend/internal/session"
)

// mapStudioErrorToStatus maps errors from the studio, the session gate and
// the stores to HTTP status codes and an ErrorResponse.
func mapStudioErrorToStatus(c *gin.Context, logger *zap.Logger, err error) {
	var statusCode int
	var errResponse ErrorResponse
	var storeErr *db.StoreError

	switch {
	case errors.Is(err, core.ErrInvalidImport):
		statusCode = http.StatusUnprocessableEntity
		errResponse = ErrorResponse{Error: "El JSON no es válido: debe ser una lista de recetas.", Details: err.Error()}
	case errors.Is(err, core.ErrTopicRequired):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Escribe un tema para el recetario.", Details: err.Error()}
	case errors.Is(err, core.ErrInvalidView), errors.Is(err, core.ErrInvalidCoverImage):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrBookNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrBookNotFound.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrEmptyBook):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrEmptyBook.Error()}
	case errors.Is(err, core.ErrLibraryLoadFailed):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrLibraryLoadFailed.Error(), Details: err.Error(), Kind: db.KindOf(err)}
	case errors.Is(err, core.ErrLibraryNotLoaded):
		statusCode = http.StatusServiceUnavailable
		errResponse = ErrorResponse{Error: core.ErrLibraryNotLoaded.Error()}
	case errors.Is(err, core.ErrNoActiveSession), errors.Is(err, session.ErrNotAuthenticated):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: "Not authenticated"}
	case errors.Is(err, session.ErrTokenRejected):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: "Session expired", Details: err.Error()}
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		statusCode = http.StatusUnsupportedMediaType
		errResponse = ErrorResponse{Error: imaging.ErrUnsupportedFormat.Error()}
	case errors.Is(err, imaging.ErrFetchFailed):
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "Could not fetch cover image", Details: err.Error()}
	case errors.As(err, &storeErr):
		statusCode = http.StatusBadGateway
		if storeErr.Kind == db.KindUnauthorized {
			statusCode = http.StatusUnauthorized
		}
		errResponse = ErrorResponse{Error: "Library storage failed", Details: err.Error(), Kind: storeErr.Kind}
	default:
		logger.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}
