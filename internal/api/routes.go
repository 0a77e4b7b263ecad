package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/config"
	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) is applied to router
// by the caller.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	gate SessionGate,
	studio core.StudioService,
	covers CoverFetcher,
) {
	authHandler := NewAuthHandler(gate, appConfig.ClientURL, logger)
	sessionHandler := NewSessionHandler(gate, logger)
	studioHandler := NewStudioHandler(studio, logger)
	libraryHandler := NewLibraryHandler(studio, covers, logger)

	requireSession := middleware.RequireSession(gate)

	authGroup := router.Group("/auth")
	{
		authGroup.GET("/login", authHandler.Login)
		authGroup.GET("/callback", authHandler.Callback)
	}

	apiV1 := router.Group("/api/v1")
	{
		sessionGroup := apiV1.Group("/session")
		{
			sessionGroup.GET("", sessionHandler.GetSession)
			sessionGroup.POST("/verify", sessionHandler.Verify)
			sessionGroup.POST("/logout", sessionHandler.Logout)
		}

		studioGroup := apiV1.Group("", requireSession)
		{
			studioGroup.GET("/studio", studioHandler.GetStudio)
			studioGroup.POST("/studio/view", studioHandler.Navigate)
			studioGroup.GET("/prompt", studioHandler.GetPrompt)
		}

		libraryGroup := apiV1.Group("/library", requireSession)
		{
			libraryGroup.GET("", libraryHandler.ListBooks)
			libraryGroup.POST("/import", libraryHandler.ImportBook)
			libraryGroup.POST("/sync", libraryHandler.Sync)
			libraryGroup.GET("/books/:bookId", libraryHandler.GetBook)
			libraryGroup.PATCH("/books/:bookId", libraryHandler.UpdateBook)
			libraryGroup.DELETE("/books/:bookId", libraryHandler.DeleteBook)
			libraryGroup.GET("/books/:bookId/replication-prompt", libraryHandler.ReplicationPrompt)
			libraryGroup.GET("/books/:bookId/cover", libraryHandler.Cover)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Recipe studio backend is healthy."})
	})

	logger.Info("API routes configured under /auth, /api/v1 and /health")
}
