package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const tokenBytes = 32

type MagicLinkService struct {
	ttl time.Duration
}

func NewMagicLinkService(ttl time.Duration) *MagicLinkService {
	return &MagicLinkService{ttl: ttl}
}

// GenerateToken creates an unguessable link token using crypto/rand.
func (s *MagicLinkService) GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating link token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSessionID creates the opaque id a client polls while waiting for
// the link to be opened elsewhere.
func (s *MagicLinkService) GenerateSessionID() string {
	return uuid.NewString()
}

// ExpiresAt returns when a newly created link should expire.
func (s *MagicLinkService) ExpiresAt() time.Time {
	return time.Now().Add(s.ttl)
}

func (s *MagicLinkService) TTL() time.Duration {
	return s.ttl
}
