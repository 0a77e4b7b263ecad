package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipe-studio-backend/internal/api"
	"recipe-studio-backend/internal/config"
	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/db"
	"recipe-studio-backend/internal/imaging"
	"recipe-studio-backend/internal/middleware"
	"recipe-studio-backend/internal/models"
	"recipe-studio-backend/internal/session"
	"recipe-studio-backend/pkg/cache"
	"recipe-studio-backend/pkg/messagequeue"
)

const (
	initTimeout     = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// --- 1. Load .env outside release mode ---
	if os.Getenv("GIN_MODE") != gin.ReleaseMode {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := newLogger(os.Getenv("GIN_MODE"))
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, zapLogger); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Server stopped with error", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

func newLogger(ginMode string) (*zap.Logger, error) {
	if ginMode == gin.ReleaseMode {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, logger *zap.Logger) error {
	// --- 3. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	logger.Info("Application configuration loaded successfully.",
		zap.String("libraryBackend", appConfig.LibraryBackend),
		zap.String("sessionBackend", appConfig.SessionBackend),
	)

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Warn("Failed to close resource", zap.Error(err))
			}
		}
	}()

	// --- 4. Initialize the remote library store ---
	initCtx, cancelInit := context.WithTimeout(ctx, initTimeout)
	defer cancelInit()

	store, client, err := newLibraryStore(initCtx, appConfig, logger)
	if err != nil {
		return err
	}
	if client != nil {
		closers = append(closers, client)
	}

	// --- 5. Initialize the session record store ---
	sealKey, err := appConfig.EncryptionKey()
	if err != nil {
		return err
	}
	records, recordCache, err := newRecordStore(initCtx, appConfig, sealKey, logger)
	if err != nil {
		return err
	}
	if recordCache != nil {
		closers = append(closers, recordCache)
	}

	// --- 6. Initialize sync event publishing ---
	events := core.NewNoopPublisher()
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		closers = append(closers, mq)
		events = core.NewQueuePublisher(mq, appConfig.RabbitMQQueue)
		logger.Info("Sync events enabled", zap.String("queue", appConfig.RabbitMQQueue))
	}

	// --- 7. Initialize Services ---
	syncer := core.NewSyncer(store, appConfig.AutosaveDelay, appConfig.SaveTimeout, events, logger)
	studio := core.NewStudio(store, syncer, appConfig.DefaultCoverURL, logger)
	thumbnailer := imaging.NewThumbnailer(nil, 0, logger)

	provider := session.NewGoogleProvider(appConfig.GoogleClientID, appConfig.GoogleClientSecret, appConfig.OAuthRedirectURL)
	verifier := session.NewGoogleTokenVerifier()
	gate := session.NewGate(initCtx, records, provider, verifier, logger)
	gate.OnChange(func(ctx context.Context, change session.Change, sess models.UserSession) {
		switch change {
		case session.ChangeLogin:
			studio.Start(ctx, sess)
		case session.ChangeVerified:
			studio.SetSession(sess)
		case session.ChangeLogout:
			studio.Stop(ctx)
		}
	})
	if sess, ok := gate.Current(); ok {
		studio.Start(initCtx, sess)
	}
	logger.Info("Core services initialized successfully.")

	// --- 8. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		logger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		logger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured.")
	}

	// --- 9. Setup API Routes ---
	api.SetupRoutes(router, appConfig, logger, gate, studio, thumbnailer)

	// --- 10. Serve until a shutdown signal arrives ---
	httpServer := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server...", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server...")

		// --- 11. Graceful Shutdown ---
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server forced to shutdown", zap.Error(err))
		}
		if err := syncer.Flush(shutdownCtx); err != nil {
			logger.Error("Final library save failed", zap.Error(err))
		}
		syncer.Close()
		return nil
	})
	return g.Wait()
}

func newLibraryStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.LibraryStore, *firestore.Client, error) {
	switch cfg.LibraryBackend {
	case config.BackendFirestore:
		client, err := db.InitFirestore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Firestore: %w", err)
		}
		store, err := db.NewFirestoreLibraryStore(client, cfg.LibraryFileName, logger)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		logger.Info("Library store: Firestore", zap.String("projectID", cfg.FirebaseProjectID))
		return store, client, nil
	default:
		logger.Info("Library store: Google Drive", zap.String("fileName", cfg.LibraryFileName))
		return db.NewDriveLibraryStore(cfg.LibraryFileName, logger), nil, nil
	}
}

func newRecordStore(ctx context.Context, cfg *config.Config, sealKey []byte, logger *zap.Logger) (session.RecordStore, cache.Cache, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		redisCache, err := cache.NewRedisCache(ctx, cache.NewRedisCacheConfig{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("Session records: Redis", zap.String("address", cfg.RedisAddress))
		return session.NewCacheRecordStore(redisCache, cfg.SessionKey, sealKey), redisCache, nil
	default:
		logger.Info("Session records: file", zap.String("path", cfg.SessionFile), zap.Bool("sealed", sealKey != nil))
		return session.NewFileRecordStore(cfg.SessionFile, cfg.SessionKey, sealKey), nil, nil
	}
}
