// Package cryptox seals small secrets at rest (the remembered operator
// password) with a key derived from a per-device secret.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/calldash/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize      = 16
	deviceKeySize = 32
)

// ErrMalformedSealed is returned when a sealed value cannot be decoded or is
// too short to contain salt and nonce.
var ErrMalformedSealed = errors.New("malformed sealed value")

// DeriveKey stretches secret with salt into a 32-byte AES-256 key (argon2id).
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// SealString encrypts plaintext with AES-GCM under a key derived from secret
// and a fresh random salt. The result is base64(salt | nonce | ciphertext).
func SealString(secret []byte, plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(secret, salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// OpenString reverses SealString.
func OpenString(secret []byte, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSealed, err)
	}
	if len(raw) < saltSize {
		return "", ErrMalformedSealed
	}

	salt := raw[:saltSize]
	key := DeriveKey(secret, salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	rest := raw[saltSize:]
	if len(rest) < aead.NonceSize() {
		return "", ErrMalformedSealed
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plaintext), nil
}

// LoadOrCreateDeviceSecret reads the device secret at path, creating the file
// (mode 0600) with fresh random bytes when it does not exist.
func LoadOrCreateDeviceSecret(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		if len(b) != deviceKeySize {
			return nil, fmt.Errorf("device secret %s: unexpected size %d", path, len(b))
		}
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read device secret: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	b = common.GenerateRandByteArray(deviceKeySize)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return nil, fmt.Errorf("write device secret: %w", err)
	}
	return b, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
