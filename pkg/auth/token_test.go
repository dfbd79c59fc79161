package auth

import (
	"testing"
	"time"

	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/google/uuid"
)

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "buildforge",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	userID := uuid.New()
	signed, err := MintAccessToken(jwtConfig(), time.Now(), AccessTokenPayload{
		UserID: userID,
		Email:  "builder@example.com",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(jwtConfig(), signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "builder@example.com" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(jwtConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := jwtConfig()
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signed, err := MintAccessToken(jwtConfig(), time.Now().Add(-2*time.Hour), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(jwtConfig(), signed); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestMintRequiresUserID(t *testing.T) {
	if _, err := MintAccessToken(jwtConfig(), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected error for nil user id")
	}
}
