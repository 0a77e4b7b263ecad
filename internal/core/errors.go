package core

import "errors"

// Errors returned by the studio and the import pipeline.
var (
	ErrInvalidImport     = errors.New("invalid recipe import")
	ErrTopicRequired     = errors.New("a topic is required to build the prompt")
	ErrBookNotFound      = errors.New("recipe book not found")
	ErrEmptyBook         = errors.New("recipe book has no recipes")
	ErrInvalidView       = errors.New("unknown studio view")
	ErrNoActiveSession   = errors.New("no active session")
	ErrLibraryNotLoaded  = errors.New("library is still loading")
	ErrLibraryLoadFailed = errors.New("library could not be loaded, refusing to overwrite it")
	ErrInvalidCoverImage = errors.New("cover image must be an http(s) URL")
)
