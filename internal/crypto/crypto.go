package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

var (
	ErrInvalidKey        = errors.New("encryption key must be 32 bytes for AES-256")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthentication    = errors.New("ciphertext authentication failed")
)

// DecodeKey decodes a base64 AES-256 key.
func DecodeKey(keyBase64 string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key from base64: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// macKey derives the HMAC key so the cipher key is never used twice.
func macKey(key []byte) []byte {
	sum := sha256.Sum256(append([]byte("recipe-studio/mac/"), key...))
	return sum[:]
}

// Encrypt seals plainText with AES-256-CBC and an HMAC-SHA256 over IV and
// ciphertext. The result is base64(IV || CIPHERTEXT || MAC).
func Encrypt(plainText []byte, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	// PKCS#7
	padding := aes.BlockSize - len(plainText)%aes.BlockSize
	padded := append(append([]byte(nil), plainText...), bytes.Repeat([]byte{byte(padding)}, padding)...)

	out := make([]byte, aes.BlockSize+len(padded), aes.BlockSize+len(padded)+sha256.Size)
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	mac := hmac.New(sha256.New, macKey(key))
	mac.Write(out)
	out = mac.Sum(out)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt verifies and opens a value produced by Encrypt.
func Decrypt(sealed string, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 input: %w", err)
	}
	if len(raw) < 2*aes.BlockSize+sha256.Size || (len(raw)-sha256.Size)%aes.BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	body, tag := raw[:len(raw)-sha256.Size], raw[len(raw)-sha256.Size:]
	mac := hmac.New(sha256.New, macKey(key))
	mac.Write(body)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return nil, ErrAuthentication
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	iv, cipherText := body[:aes.BlockSize], body[aes.BlockSize:]
	plain := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, cipherText)

	padding := int(plain[len(plain)-1])
	if padding == 0 || padding > aes.BlockSize {
		return nil, fmt.Errorf("%w: bad padding", ErrInvalidCiphertext)
	}
	for _, b := range plain[len(plain)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: bad padding", ErrInvalidCiphertext)
		}
	}
	return plain[:len(plain)-padding], nil
}
