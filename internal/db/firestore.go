package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"recipe-studio-backend/internal/config"
)

// InitFirestore initializes the Firebase Admin SDK and returns a Firestore
// client. Credentials come from a service account file, a base64 encoded
// service account JSON, or Application Default Credentials, in that order.
func InitFirestore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*firestore.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("InitFirestore: config cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case cfg.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file", zap.String("path", cfg.GoogleApplicationCredentials))
		if _, err := os.Stat(cfg.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist", zap.String("path", cfg.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleApplicationCredentials))
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC)")
	}

	var fbConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	logger.Info("Firestore client initialized", zap.String("projectID", cfg.FirebaseProjectID))
	return client, nil
}
