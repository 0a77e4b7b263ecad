package session

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-studio-backend/internal/models"
)

var storedSession = models.UserSession{AccessToken: "ya29.token", Email: "chef@example.com"}

func TestFileRecordStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileRecordStore(path, "kawaii_session_v4", nil)
	ctx := context.Background()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "missing file means logged out")

	require.NoError(t, store.Save(ctx, storedSession))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, storedSession, *got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	var raw map[string]string
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw["kawaii_session_v4"], `"accessToken":"ya29.token"`)

	require.NoError(t, store.Delete(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileRecordStoreKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()
	older := NewFileRecordStore(path, "kawaii_session_v3", nil)
	current := NewFileRecordStore(path, "kawaii_session_v4", nil)

	require.NoError(t, older.Save(ctx, models.UserSession{AccessToken: "old"}))
	require.NoError(t, current.Save(ctx, storedSession))
	require.NoError(t, current.Delete(ctx))

	got, err := older.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "old", got.AccessToken)
}

func TestFileRecordStoreSealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	key := bytes.Repeat([]byte{42}, 32)
	store := NewFileRecordStore(path, "k", key)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, storedSession))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ya29.token")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, storedSession, *got)

	wrongKey := NewFileRecordStore(path, "k", bytes.Repeat([]byte{7}, 32))
	_, err = wrongKey.Load(ctx)
	assert.Error(t, err)
}

func TestFileRecordStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

	_, err := NewFileRecordStore(path, "k", nil).Load(context.Background())
	assert.Error(t, err)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

func TestCacheRecordStore(t *testing.T) {
	c := &memoryCache{data: map[string]string{}}
	store := NewCacheRecordStore(c, "kawaii_session_v4", bytes.Repeat([]byte{1}, 32))
	ctx := context.Background()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, storedSession))
	assert.NotContains(t, c.data["kawaii_session_v4"], "ya29")

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, storedSession, *got)

	require.NoError(t, store.Delete(ctx))
	assert.Empty(t, c.data)
}

func TestRecordWithoutTokenIsAbsent(t *testing.T) {
	got, err := recordCodec{}.decode(`{"accessToken":"","email":"x@example.com"}`)
	require.NoError(t, err)
	assert.Nil(t, got)
}
