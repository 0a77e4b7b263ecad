package core

import (
	"context"

	"recipe-studio-backend/internal/models"
)

// EventPublisher delivers sync events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, event SyncEvent) error
}

// LibrarySyncer persists library snapshots in the background.
type LibrarySyncer interface {
	// Schedule replaces any pending snapshot and restarts the quiet period.
	Schedule(sess models.UserSession, lib models.Library)
	// Flush writes the pending snapshot now, if any.
	Flush(ctx context.Context) error
	Status() SyncStatus
	Close()
}

// StudioService is the in-memory library/editor state of the signed-in user.
type StudioService interface {
	Start(ctx context.Context, sess models.UserSession)
	Stop(ctx context.Context)
	SetSession(sess models.UserSession)
	Snapshot() StudioSnapshot

	Navigate(view View, bookID string) error
	BeginImport(topic string) (string, error)
	Import(topic, raw string) (BookView, error)

	Books(category string) []BookView
	Book(bookID string) (BookView, error)
	UpdateBook(bookID string, req models.UpdateBookRequest) (BookView, error)
	DeleteBook(bookID string) error
	ReplicationPrompt(bookID string) (string, error)
	CoverURL(bookID string) (string, error)

	SyncNow(ctx context.Context) error
}
