package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"recipe-studio-backend/internal/models"
)

// FileRecordStore keeps records in a small JSON object on disk, one string
// value per key, so several versioned keys can live side by side.
type FileRecordStore struct {
	path  string
	key   string
	codec recordCodec

	mu sync.Mutex
}

// NewFileRecordStore stores the record under key in the file at path. A
// non-nil sealKey encrypts the record.
func NewFileRecordStore(path, key string, sealKey []byte) *FileRecordStore {
	return &FileRecordStore{path: path, key: key, codec: recordCodec{key: sealKey}}
}

func (s *FileRecordStore) Load(_ context.Context) (*models.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	stored, ok := entries[s.key]
	if !ok {
		return nil, nil
	}
	return s.codec.decode(stored)
}

func (s *FileRecordStore) Save(_ context.Context, sess models.UserSession) error {
	stored, err := s.codec.encode(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[s.key] = stored
	return s.write(entries)
}

func (s *FileRecordStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := entries[s.key]; !ok {
		return nil
	}
	delete(entries, s.key)
	return s.write(entries)
}

func (s *FileRecordStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", s.path, err)
	}
	return entries, nil
}

// write replaces the file atomically through a temp file in the same dir.
func (s *FileRecordStore) write(entries map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
