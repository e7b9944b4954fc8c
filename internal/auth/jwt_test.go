package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	token, expiry, err := svc.GenerateSessionToken("usr_abc123", "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateSessionToken() returned empty token")
	}
	if remaining := time.Until(expiry); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("expiry %v not within expected window", remaining)
	}

	claims, err := svc.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken() error = %v", err)
	}
	if claims.UserID != "usr_abc123" {
		t.Fatalf("userId = %q, want %q", claims.UserID, "usr_abc123")
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("email = %q, want %q", claims.Email, "ada@example.com")
	}
	if claims.Subject != "usr_abc123" {
		t.Fatalf("subject = %q, want %q", claims.Subject, "usr_abc123")
	}
}

func TestValidateSessionTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)

	token, _, err := svc.GenerateSessionToken("usr_abc123", "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if _, err := svc.ValidateSessionToken(token); err == nil {
		t.Fatal("ValidateSessionToken() accepted an expired token")
	}
}

func TestValidateSessionTokenRejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	other := NewJWTService(strings.Repeat("x", 32), time.Hour)

	token, _, err := svc.GenerateSessionToken("usr_abc123", "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if _, err := other.ValidateSessionToken(token); err == nil {
		t.Fatal("ValidateSessionToken() accepted a token signed with another secret")
	}
}

func TestValidateSessionTokenRejectsTampering(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	token, _, err := svc.GenerateSessionToken("usr_abc123", "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	tests := []struct {
		name    string
		mutated string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		{"truncated", token[:len(token)-5]},
		{"flipped payload", flipLastPayloadChar(token)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateSessionToken(tt.mutated); err == nil {
				t.Fatal("ValidateSessionToken() accepted an invalid token")
			}
		})
	}
}

func flipLastPayloadChar(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return token + "x"
	}
	payload := parts[1]
	last := payload[len(payload)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	parts[1] = payload[:len(payload)-1] + string(replacement)
	return strings.Join(parts, ".")
}
