package db

import (
	"context"

	"recipe-studio-backend/internal/models"
)

// LibraryStore persists a user's whole library as a single document. Both
// operations are full-document: Save replaces everything, there is no merge
// and no conflict detection between concurrent writers.
type LibraryStore interface {
	// Load returns the stored library, or an empty one when no document exists.
	Load(ctx context.Context, sess models.UserSession) (models.Library, error)
	// Save creates the document if missing, otherwise overwrites its content.
	Save(ctx context.Context, sess models.UserSession, lib models.Library) error
}
