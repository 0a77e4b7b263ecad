package api

import (
	"context"

	"recipe-studio-backend/internal/imaging"
	"recipe-studio-backend/internal/models"
	"recipe-studio-backend/internal/session"
)

// SessionGate is the part of the session gate the HTTP layer drives.
type SessionGate interface {
	Current() (models.UserSession, bool)
	Status() session.Status
	BeginLogin() (string, error)
	CompleteLogin(ctx context.Context, state, code string) error
	AbortLogin()
	Logout(ctx context.Context) error
	Verify(ctx context.Context) (session.Status, error)
}

// CoverFetcher produces cover thumbnails.
type CoverFetcher interface {
	Fetch(ctx context.Context, imageURL string) (*imaging.Thumbnail, error)
}
