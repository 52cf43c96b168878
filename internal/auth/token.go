package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// secretSize is the server's HMAC key length in bytes (512 bits, per
// spec.md §4.10's "512-bit server secret").
const secretSize = 64

// tokenPayloadSize is len(playerID) + len(expiresAt): 4 + 8 bytes.
const tokenPayloadSize = 4 + 8

var (
	// ErrTokenMalformed means the token could not even be decoded.
	ErrTokenMalformed = errors.New("auth: malformed session token")
	// ErrTokenInvalid means the token decoded but the signature didn't match.
	ErrTokenInvalid = errors.New("auth: invalid session token signature")
	// ErrTokenExpired means the signature matched but expiresAt has passed.
	ErrTokenExpired = errors.New("auth: session token expired")
)

// Signer issues and verifies HMAC-SHA256 session tokens binding a player ID
// to an expiry, as described in spec.md §4.10.
type Signer struct {
	secret []byte
}

// NewSigner loads the server secret from path, generating and persisting a
// fresh random one on first run.
func NewSigner(path string) (*Signer, error) {
	secret, err := loadOrCreateSecret(path)
	if err != nil {
		return nil, err
	}
	return &Signer{secret: secret}, nil
}

func loadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != secretSize {
			return nil, fmt.Errorf("auth: secret file %s has unexpected length %d", path, len(data))
		}
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("auth: read secret file %s: %w", path, err)
	}

	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("auth: generate secret: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("auth: create secret dir: %w", err)
		}
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("auth: write secret file %s: %w", path, err)
	}
	return secret, nil
}

// Issue produces a base64url session token for playerID valid for ttl.
func (s *Signer) Issue(playerID uint32, ttl time.Duration) string {
	expiresAt := uint64(time.Now().Add(ttl).Unix())
	payload := make([]byte, tokenPayloadSize)
	binary.BigEndian.PutUint32(payload[0:4], playerID)
	binary.BigEndian.PutUint64(payload[4:12], expiresAt)

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	tag := mac.Sum(nil)

	full := append(payload, tag...)
	return base64.RawURLEncoding.EncodeToString(full)
}

// Verify decodes and checks a token, returning the bound player ID.
func (s *Signer) Verify(token string) (uint32, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrTokenMalformed
	}
	if len(raw) != tokenPayloadSize+sha256.Size {
		return 0, ErrTokenMalformed
	}
	payload, tag := raw[:tokenPayloadSize], raw[tokenPayloadSize:]

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	expected := mac.Sum(nil)
	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		return 0, ErrTokenInvalid
	}

	playerID := binary.BigEndian.Uint32(payload[0:4])
	expiresAt := binary.BigEndian.Uint64(payload[4:12])
	if time.Now().Unix() > int64(expiresAt) {
		return 0, ErrTokenExpired
	}
	return playerID, nil
}
