package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_CLIENT_ID", "client-id.apps.googleusercontent.com")
	t.Setenv("OAUTH_REDIRECT_URL", "http://localhost:8080/auth/callback")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, BackendDrive, cfg.LibraryBackend)
	assert.Equal(t, "kawaii_recipe_studio_data.json", cfg.LibraryFileName)
	assert.Equal(t, 5*time.Second, cfg.AutosaveDelay)
	assert.Equal(t, 30*time.Second, cfg.SaveTimeout)
	assert.Equal(t, SessionBackendFile, cfg.SessionBackend)
	assert.Equal(t, "kawaii_session_v4", cfg.SessionKey)
	assert.Equal(t, "recipe_studio.sync", cfg.RabbitMQQueue)
	assert.Equal(t, DefaultCoverURL, cfg.DefaultCoverURL)
	assert.False(t, cfg.IsRelease())
}

func TestLoadConfigFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("AUTOSAVE_DELAY", "3s")
	t.Setenv("LIBRARY_BACKEND", BackendFirestore)
	t.Setenv("FIREBASE_PROJECT_ID", "recipe-studio")
	t.Setenv("SESSION_BACKEND", SessionBackendRedis)
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsRelease())
	assert.Equal(t, 3*time.Second, cfg.AutosaveDelay)
	assert.Equal(t, "recipe-studio", cfg.FirebaseProjectID)
	assert.Equal(t, "localhost:6379", cfg.RedisAddress)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing client id",
			env:  map[string]string{"GOOGLE_CLIENT_ID": ""},
			want: "GOOGLE_CLIENT_ID is required",
		},
		{
			name: "missing redirect",
			env:  map[string]string{"OAUTH_REDIRECT_URL": ""},
			want: "OAUTH_REDIRECT_URL is required",
		},
		{
			name: "zero autosave delay",
			env:  map[string]string{"AUTOSAVE_DELAY": "0s"},
			want: "AUTOSAVE_DELAY must be positive",
		},
		{
			name: "firestore without project",
			env:  map[string]string{"LIBRARY_BACKEND": BackendFirestore},
			want: "FIREBASE_PROJECT_ID is required",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"LIBRARY_BACKEND": "s3"},
			want: `unknown LIBRARY_BACKEND "s3"`,
		},
		{
			name: "redis without address",
			env:  map[string]string{"SESSION_BACKEND": SessionBackendRedis},
			want: "REDIS_ADDRESS is required",
		},
		{
			name: "short encryption key",
			env:  map[string]string{"SESSION_ENCRYPTION_KEY": base64.StdEncoding.EncodeToString([]byte("short"))},
			want: "encryption key must be 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncryptionKey(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	cfg := &Config{SessionEncryptionKey: base64.StdEncoding.EncodeToString(key)}

	got, err := cfg.EncryptionKey()
	require.NoError(t, err)
	assert.Equal(t, key, got)

	got, err = (&Config{}).EncryptionKey()
	require.NoError(t, err)
	assert.Nil(t, got)
}
