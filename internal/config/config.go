package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"recipe-studio-backend/internal/crypto"
)

// Library backends.
const (
	BackendDrive     = "drive"
	BackendFirestore = "firestore"
)

// Session record backends.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// DefaultCoverURL is shown for books without a cover image.
const DefaultCoverURL = "https://images.unsplash.com/photo-1490818387583-1baba5e638af?auto=format&fit=crop&q=80&w=400"

// Config holds all configuration for the application.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectURL   string `mapstructure:"OAUTH_REDIRECT_URL"`

	LibraryBackend  string        `mapstructure:"LIBRARY_BACKEND"`
	LibraryFileName string        `mapstructure:"LIBRARY_FILE_NAME"`
	AutosaveDelay   time.Duration `mapstructure:"AUTOSAVE_DELAY"`
	SaveTimeout     time.Duration `mapstructure:"SAVE_TIMEOUT"`
	DefaultCoverURL string        `mapstructure:"DEFAULT_COVER_URL"`

	SessionBackend       string `mapstructure:"SESSION_BACKEND"`
	SessionFile          string `mapstructure:"SESSION_FILE"`
	SessionKey           string `mapstructure:"SESSION_KEY"`
	SessionEncryptionKey string `mapstructure:"SESSION_ENCRYPTION_KEY"` // Base64 encoded

	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	RabbitMQURL   string `mapstructure:"RABBITMQ_URL"`
	RabbitMQQueue string `mapstructure:"RABBITMQ_QUEUE"`
}

var defaults = map[string]any{
	"PORT":              "8080",
	"GIN_MODE":          "debug",
	"CLIENT_URL":        "http://localhost:5173",
	"LIBRARY_BACKEND":   BackendDrive,
	"LIBRARY_FILE_NAME": "kawaii_recipe_studio_data.json",
	"AUTOSAVE_DELAY":    "5s",
	"SAVE_TIMEOUT":      "30s",
	"DEFAULT_COVER_URL": DefaultCoverURL,
	"SESSION_BACKEND":   SessionBackendFile,
	"SESSION_FILE":      ".recipe-studio/session.json",
	"SESSION_KEY":       "kawaii_session_v4",
	"REDIS_DB":          0,
	"RABBITMQ_QUEUE":    "recipe_studio.sync",
}

// unbound keys have no default but must still be visible to Unmarshal.
var unbound = []string{
	"GOOGLE_CLIENT_ID",
	"GOOGLE_CLIENT_SECRET",
	"OAUTH_REDIRECT_URL",
	"SESSION_ENCRYPTION_KEY",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"RABBITMQ_URL",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range unbound {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and cross-field constraints.
func (c *Config) Validate() error {
	if c.GoogleClientID == "" {
		return errors.New("GOOGLE_CLIENT_ID is required")
	}
	if c.OAuthRedirectURL == "" {
		return errors.New("OAUTH_REDIRECT_URL is required")
	}
	if c.AutosaveDelay <= 0 {
		return errors.New("AUTOSAVE_DELAY must be positive")
	}
	if c.SaveTimeout <= 0 {
		return errors.New("SAVE_TIMEOUT must be positive")
	}

	switch c.LibraryBackend {
	case BackendDrive:
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore library backend")
		}
	default:
		return fmt.Errorf("unknown LIBRARY_BACKEND %q", c.LibraryBackend)
	}

	switch c.SessionBackend {
	case SessionBackendFile:
		if c.SessionFile == "" {
			return errors.New("SESSION_FILE is required for the file session backend")
		}
	case SessionBackendRedis:
		if c.RedisAddress == "" {
			return errors.New("REDIS_ADDRESS is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.SessionEncryptionKey != "" {
		if _, err := c.EncryptionKey(); err != nil {
			return err
		}
	}
	return nil
}

// EncryptionKey decodes SESSION_ENCRYPTION_KEY. It returns nil, nil when no
// key is configured.
func (c *Config) EncryptionKey() ([]byte, error) {
	if c.SessionEncryptionKey == "" {
		return nil, nil
	}
	key, err := crypto.DecodeKey(c.SessionEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY: %w", err)
	}
	return key, nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}
