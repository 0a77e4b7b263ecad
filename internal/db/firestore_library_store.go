package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"recipe-studio-backend/internal/models"
)

const librariesCollection = "libraries"

// libraryDocument is the Firestore shape of one user's library. The books are
// kept as the same JSON text the drive backend writes, so both backends share
// one format.
type libraryDocument struct {
	Books     string    `firestore:"books"`
	FileName  string    `firestore:"fileName"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

// firestoreLibraryStore implements LibraryStore using Firestore.
type firestoreLibraryStore struct {
	client   *firestore.Client
	fileName string
	logger   *zap.Logger
}

// NewFirestoreLibraryStore creates a LibraryStore that keeps one document per
// user in the libraries collection.
func NewFirestoreLibraryStore(client *firestore.Client, fileName string, logger *zap.Logger) (LibraryStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client is not initialized for LibraryStore")
	}
	if fileName == "" {
		fileName = DefaultLibraryFileName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &firestoreLibraryStore{client: client, fileName: fileName, logger: logger}, nil
}

func (s *firestoreLibraryStore) Load(ctx context.Context, sess models.UserSession) (models.Library, error) {
	if !sess.Active() {
		return nil, storeErr("load", KindUnauthorized, errMissingToken)
	}
	docID := libraryDocID(sess, s.fileName)

	snap, err := s.client.Collection(librariesCollection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			s.logger.Info("No library document in firestore yet", zap.String("docID", docID))
			return models.Library{}, nil
		}
		return nil, storeErr("load", classifyFirestoreError(err), fmt.Errorf("get library %q: %w", docID, err))
	}

	var doc libraryDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, storeErr("load", KindCorrupt, fmt.Errorf("decode library %q: %w", docID, err))
	}
	lib, err := decodeLibraryDocument(doc)
	if err != nil {
		return nil, storeErr("load", KindCorrupt, err)
	}
	return lib, nil
}

// Save overwrites the whole document with Set, without a precondition.
func (s *firestoreLibraryStore) Save(ctx context.Context, sess models.UserSession, lib models.Library) error {
	if !sess.Active() {
		return storeErr("save", KindUnauthorized, errMissingToken)
	}
	docID := libraryDocID(sess, s.fileName)

	doc, err := encodeLibraryDocument(lib, s.fileName)
	if err != nil {
		return storeErr("save", KindCorrupt, err)
	}
	if _, err := s.client.Collection(librariesCollection).Doc(docID).Set(ctx, doc); err != nil {
		return storeErr("save", classifyFirestoreError(err), fmt.Errorf("set library %q: %w", docID, err))
	}
	s.logger.Debug("Library document written to firestore", zap.String("docID", docID), zap.Int("books", len(lib)))
	return nil
}

// libraryDocID keys the document by the user's e-mail, falling back to the
// library file name while the e-mail is unknown.
func libraryDocID(sess models.UserSession, fileName string) string {
	email := strings.ToLower(strings.TrimSpace(sess.Email))
	if email == "" {
		return fileName
	}
	// Firestore ids cannot contain '/'.
	return strings.ReplaceAll(email, "/", "_")
}

func encodeLibraryDocument(lib models.Library, fileName string) (libraryDocument, error) {
	data, err := encodeLibrary(lib)
	if err != nil {
		return libraryDocument{}, err
	}
	return libraryDocument{Books: string(data), FileName: fileName}, nil
}

func decodeLibraryDocument(doc libraryDocument) (models.Library, error) {
	if doc.Books == "" {
		return models.Library{}, nil
	}
	return decodeLibrary([]byte(doc.Books))
}

func classifyFirestoreError(err error) ErrorKind {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return KindUnauthorized
	default:
		return KindUnavailable
	}
}
