package session

import (
	"context"
	"fmt"

	"recipe-studio-backend/internal/models"
	"recipe-studio-backend/pkg/cache"
)

// CacheRecordStore keeps the session record in a cache such as Redis. The
// record never expires on its own; the token inside it does.
type CacheRecordStore struct {
	cache cache.Cache
	key   string
	codec recordCodec
}

// NewCacheRecordStore stores the record under key. A non-nil sealKey
// encrypts the record.
func NewCacheRecordStore(c cache.Cache, key string, sealKey []byte) *CacheRecordStore {
	return &CacheRecordStore{cache: c, key: key, codec: recordCodec{key: sealKey}}
}

func (s *CacheRecordStore) Load(ctx context.Context) (*models.UserSession, error) {
	stored, err := s.cache.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}
	if stored == "" {
		return nil, nil
	}
	return s.codec.decode(stored)
}

func (s *CacheRecordStore) Save(ctx context.Context, sess models.UserSession) error {
	stored, err := s.codec.encode(sess)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, s.key, stored, 0); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

func (s *CacheRecordStore) Delete(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}
