package api

import (
	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/internal/db"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message
	Details string `json:"details,omitempty"` // More specific details, if available
	// Kind is the store error kind when a library operation failed.
	Kind db.ErrorKind `json:"kind,omitempty"`
}

// PromptResponse carries generated prompt text for the clipboard.
type PromptResponse struct {
	Topic  string `json:"topic,omitempty"`
	Prompt string `json:"prompt"`
}

// BooksResponse is the library listing.
type BooksResponse struct {
	Category string          `json:"category,omitempty"`
	Books    []core.BookView `json:"books"`
}

// SyncResponse reports the outcome of an explicit sync.
type SyncResponse struct {
	Sync core.SyncStatus `json:"sync"`
}
