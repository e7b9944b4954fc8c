package models

import "time"

const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

// MagicLink is a single-use emailed login token. SessionID is a separate
// opaque identifier the requesting client polls; it never grants access by
// itself. IssuedAuthToken is populated once the link has been verified so
// polls can pick up the session token.
type MagicLink struct {
	ID              string    `bson:"_id"`
	Token           string    `bson:"token"`
	SessionID       string    `bson:"sessionId"`
	Email           string    `bson:"email"`
	Mode            string    `bson:"mode"`
	Name            string    `bson:"name,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	ExpiresAt       time.Time `bson:"expiresAt"`
	Consumed        bool      `bson:"consumed"`
	IssuedAuthToken string    `bson:"issuedAuthToken,omitempty"`
}

// Expired reports whether the link is past its TTL.
func (m *MagicLink) Expired() bool {
	return time.Now().After(m.ExpiresAt)
}
