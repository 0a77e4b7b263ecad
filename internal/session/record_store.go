package session

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-studio-backend/internal/crypto"
	"recipe-studio-backend/internal/models"
)

// RecordStore keeps the single local session record. Load returns nil, nil
// when no record exists.
type RecordStore interface {
	Load(ctx context.Context) (*models.UserSession, error)
	Save(ctx context.Context, sess models.UserSession) error
	Delete(ctx context.Context) error
}

// recordCodec turns a session into the stored string, sealing it when a key
// is configured.
type recordCodec struct {
	key []byte
}

func (c recordCodec) encode(sess models.UserSession) (string, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session record: %w", err)
	}
	if c.key == nil {
		return string(data), nil
	}
	return crypto.Encrypt(data, c.key)
}

// decode returns nil for records without a token.
func (c recordCodec) decode(stored string) (*models.UserSession, error) {
	data := []byte(stored)
	if c.key != nil {
		plain, err := crypto.Decrypt(stored, c.key)
		if err != nil {
			return nil, fmt.Errorf("open session record: %w", err)
		}
		data = plain
	}

	var sess models.UserSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	if !sess.Active() {
		return nil, nil
	}
	return &sess, nil
}
