package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func tokeninfoServer(t *testing.T, status int, body map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/v2/tokeninfo", r.URL.Path)
		assert.Equal(t, "ya29.token", r.FormValue("access_token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleTokenVerifier(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusOK, map[string]any{
		"email":      "chef@example.com",
		"expires_in": 3599,
		"scope":      "openid https://www.googleapis.com/auth/drive.file https://www.googleapis.com/auth/userinfo.email",
	})

	email, err := NewGoogleTokenVerifier(option.WithEndpoint(srv.URL+"/")).Verify(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", email)
}

func TestGoogleTokenVerifierRejects(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
	}{
		{"invalid token", http.StatusBadRequest, map[string]any{"error": "invalid_token", "error_description": "Invalid Value"}},
		{"expired", http.StatusOK, map[string]any{"expires_in": 0, "scope": "https://www.googleapis.com/auth/drive.file"}},
		{"missing drive scope", http.StatusOK, map[string]any{"expires_in": 100, "scope": "openid email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tokeninfoServer(t, tt.status, tt.body)
			_, err := NewGoogleTokenVerifier(option.WithEndpoint(srv.URL+"/")).Verify(context.Background(), "ya29.token")
			assert.ErrorIs(t, err, ErrTokenRejected)
		})
	}
}

func TestGoogleTokenVerifierTransientError(t *testing.T) {
	srv := tokeninfoServer(t, http.StatusServiceUnavailable, map[string]any{})
	_, err := NewGoogleTokenVerifier(option.WithEndpoint(srv.URL+"/")).Verify(context.Background(), "ya29.token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenRejected)
}

func TestHasScope(t *testing.T) {
	assert.True(t, hasScope("a b c", "b"))
	assert.False(t, hasScope("ab c", "b"))
	assert.False(t, hasScope("", "b"))
}
