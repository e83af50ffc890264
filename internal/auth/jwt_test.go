package auth

import (
	"errors"
	"testing"
	"time"

	"nearby/config"
)

func testConfig() *config.SessionConfig {
	return &config.SessionConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "nearby"}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateSessionToken(cfg, "sess-1", "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SessionID != "sess-1" || claims.UserID != "123456" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseSessionTokenRejects(t *testing.T) {
	cfg := testConfig()
	token, _ := GenerateSessionToken(cfg, "sess-1", "1")

	other := testConfig()
	other.Secret = "other"
	if _, err := ParseSessionToken(other, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v, want ErrInvalidToken", err)
	}

	expired := testConfig()
	expired.Expiry = -time.Minute
	old, _ := GenerateSessionToken(expired, "sess-1", "1")
	if _, err := ParseSessionToken(cfg, old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: err = %v, want ErrInvalidToken", err)
	}

	if _, err := ParseSessionToken(cfg, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: err = %v, want ErrInvalidToken", err)
	}

	noSession, _ := GenerateSessionToken(cfg, "", "1")
	if _, err := ParseSessionToken(cfg, noSession); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty session id: err = %v, want ErrInvalidToken", err)
	}
}
