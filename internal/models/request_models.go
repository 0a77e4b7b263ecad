package models

// ImportRequest is the body of POST /api/v1/library/import.
type ImportRequest struct {
	Topic string `json:"topic,omitempty"`
	// JSON is the raw text pasted back from the external AI tool.
	JSON string `json:"json" binding:"required"`
}

// UpdateBookRequest represents a partial book edit. Pointers distinguish
// "not provided" from "set to empty".
type UpdateBookRequest struct {
	Title      *string `json:"title,omitempty"`
	Subtitle   *string `json:"subtitle,omitempty"`
	CoverImage *string `json:"coverImage,omitempty"`
}

// NavigateRequest is the body of POST /api/v1/studio/view.
type NavigateRequest struct {
	View   string `json:"view" binding:"required"`
	BookID string `json:"bookId,omitempty"`
}
