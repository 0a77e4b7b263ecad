package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"recipe-studio-backend/internal/models"
)

func TestLibraryDocID(t *testing.T) {
	assert.Equal(t, "chef@example.com", libraryDocID(models.UserSession{AccessToken: "t", Email: " Chef@Example.com "}, "lib.json"))
	assert.Equal(t, "lib.json", libraryDocID(models.UserSession{AccessToken: "t"}, "lib.json"))
	assert.Equal(t, "a_b@example.com", libraryDocID(models.UserSession{AccessToken: "t", Email: "a/b@example.com"}, "lib.json"))
}

func TestLibraryDocumentRoundTrip(t *testing.T) {
	lib := sampleLibrary()

	doc, err := encodeLibraryDocument(lib, "lib.json")
	require.NoError(t, err)
	assert.Equal(t, "lib.json", doc.FileName)

	got, err := decodeLibraryDocument(doc)
	require.NoError(t, err)
	if diff := cmp.Diff(lib, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyLibraryDocument(t *testing.T) {
	got, err := decodeLibraryDocument(libraryDocument{})
	require.NoError(t, err)
	assert.Equal(t, models.Library{}, got)
}

func TestClassifyFirestoreError(t *testing.T) {
	assert.Equal(t, KindUnauthorized, classifyFirestoreError(status.Error(codes.PermissionDenied, "denied")))
	assert.Equal(t, KindUnauthorized, classifyFirestoreError(status.Error(codes.Unauthenticated, "who")))
	assert.Equal(t, KindUnavailable, classifyFirestoreError(status.Error(codes.Unavailable, "down")))
}

func TestNewFirestoreLibraryStoreRequiresClient(t *testing.T) {
	_, err := NewFirestoreLibraryStore(nil, "", nil)
	assert.Error(t, err)
}
