package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"recipe-studio-backend/internal/models"
)

// DefaultLibraryFileName is the well-known name of the library document in the
// user's drive.
const DefaultLibraryFileName = "kawaii_recipe_studio_data.json"

var errMissingToken = errors.New("no access token in session")

// driveFiles is the subset of the Drive file API the library store needs. Each
// call carries the user's bearer token verbatim.
type driveFiles interface {
	// FindByName returns the id of the first non-trashed file called name, or
	// "" when there is none.
	FindByName(ctx context.Context, token, name string) (string, error)
	Download(ctx context.Context, token, fileID string) ([]byte, error)
	Create(ctx context.Context, token, name string, content []byte) error
	Update(ctx context.Context, token, fileID string, content []byte) error
}

// driveLibraryStore implements LibraryStore against a file in the user's drive.
type driveLibraryStore struct {
	files    driveFiles
	fileName string
	logger   *zap.Logger
}

// NewDriveLibraryStore creates a LibraryStore backed by Google Drive. opts are
// appended to every Drive client, e.g. to override the endpoint.
func NewDriveLibraryStore(fileName string, logger *zap.Logger, opts ...option.ClientOption) LibraryStore {
	return newDriveLibraryStore(newGoogleDriveFiles(opts...), fileName, logger)
}

func newDriveLibraryStore(files driveFiles, fileName string, logger *zap.Logger) *driveLibraryStore {
	if fileName == "" {
		fileName = DefaultLibraryFileName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &driveLibraryStore{files: files, fileName: fileName, logger: logger}
}

// Load looks the document up by name and decodes it. A missing document is
// an empty library, not an error.
func (s *driveLibraryStore) Load(ctx context.Context, sess models.UserSession) (models.Library, error) {
	if !sess.Active() {
		return nil, storeErr("load", KindUnauthorized, errMissingToken)
	}

	fileID, err := s.files.FindByName(ctx, sess.AccessToken, s.fileName)
	if err != nil {
		return nil, storeErr("load", classifyDriveError(err), fmt.Errorf("lookup %q: %w", s.fileName, err))
	}
	if fileID == "" {
		s.logger.Info("No library document in drive yet", zap.String("file", s.fileName))
		return models.Library{}, nil
	}

	data, err := s.files.Download(ctx, sess.AccessToken, fileID)
	if err != nil {
		return nil, storeErr("load", classifyDriveError(err), fmt.Errorf("download %s: %w", fileID, err))
	}

	lib, err := decodeLibrary(data)
	if err != nil {
		return nil, storeErr("load", KindCorrupt, err)
	}
	s.logger.Debug("Library loaded from drive", zap.String("fileID", fileID), zap.Int("books", len(lib)))
	return lib, nil
}

// Save replaces the whole document. The lookup and the write are separate
// calls, so two overlapping saves may both create a file.
func (s *driveLibraryStore) Save(ctx context.Context, sess models.UserSession, lib models.Library) error {
	if !sess.Active() {
		return storeErr("save", KindUnauthorized, errMissingToken)
	}

	content, err := encodeLibrary(lib)
	if err != nil {
		return storeErr("save", KindCorrupt, err)
	}

	fileID, err := s.files.FindByName(ctx, sess.AccessToken, s.fileName)
	if err != nil {
		return storeErr("save", classifyDriveError(err), fmt.Errorf("lookup %q: %w", s.fileName, err))
	}

	if fileID == "" {
		if err := s.files.Create(ctx, sess.AccessToken, s.fileName, content); err != nil {
			return storeErr("save", classifyDriveError(err), fmt.Errorf("create %q: %w", s.fileName, err))
		}
		s.logger.Info("Library document created in drive", zap.String("file", s.fileName), zap.Int("books", len(lib)))
		return nil
	}

	if err := s.files.Update(ctx, sess.AccessToken, fileID, content); err != nil {
		return storeErr("save", classifyDriveError(err), fmt.Errorf("update %s: %w", fileID, err))
	}
	s.logger.Debug("Library document overwritten in drive", zap.String("fileID", fileID), zap.Int("books", len(lib)))
	return nil
}

// decodeLibrary parses a stored library document. null decodes to empty, and
// so do missing or null array fields inside it.
func decodeLibrary(data []byte) (models.Library, error) {
	var lib models.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("decode library document: %w", err)
	}
	return normalizeLibrary(lib), nil
}

// encodeLibrary serializes lib as a JSON array. Every array field is written
// as [] when empty, never as null.
func encodeLibrary(lib models.Library) ([]byte, error) {
	data, err := json.Marshal(normalizeLibrary(lib.Clone()))
	if err != nil {
		return nil, fmt.Errorf("encode library document: %w", err)
	}
	return data, nil
}

// normalizeLibrary replaces nil slices in lib with empty ones, in place.
func normalizeLibrary(lib models.Library) models.Library {
	if lib == nil {
		return models.Library{}
	}
	for i := range lib {
		b := &lib[i]
		if b.Recipes == nil {
			b.Recipes = []models.Recipe{}
		}
		for j := range b.Recipes {
			r := &b.Recipes[j]
			if r.Tags == nil {
				r.Tags = []string{}
			}
			if r.Steps == nil {
				r.Steps = []string{}
			}
			if r.IngredientGroups == nil {
				r.IngredientGroups = []models.IngredientGroup{}
			}
			for k := range r.IngredientGroups {
				if r.IngredientGroups[k].Items == nil {
					r.IngredientGroups[k].Items = []string{}
				}
			}
		}
	}
	return lib
}
