package auth

import (
	"testing"
	"time"

	"github.com/snackstand/snackstand-backend/pkg/config"
	"github.com/snackstand/snackstand-backend/pkg/enums"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "snackstand",
	ExpirationMinutes: 30,
}

func TestMintAndParseAccessToken(t *testing.T) {
	now := time.Now()
	signed, err := MintAccessToken(testJWTCfg, now, AccessTokenPayload{
		CustomerID: 42,
		Role:       enums.ActorRoleCustomer,
		JTI:        "session-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(testJWTCfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.CustomerID != 42 {
		t.Fatalf("unexpected customer id: %d", claims.CustomerID)
	}
	if claims.Role != enums.ActorRoleCustomer {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("unexpected jti: %s", claims.ID)
	}

	principal := claims.Principal()
	if principal.CustomerID != 42 || principal.IsOwner() {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	signed, err := MintAccessToken(testJWTCfg, time.Now(), AccessTokenPayload{
		CustomerID: 1,
		Role:       enums.ActorRoleOwner,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(testJWTCfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTCfg, time.Now(), AccessTokenPayload{
		CustomerID: 1,
		Role:       enums.ActorRole("admin"),
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(testJWTCfg, time.Now(), AccessTokenPayload{
		CustomerID: 1,
		Role:       enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := testJWTCfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature validation failure")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	signed, err := MintAccessToken(testJWTCfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		CustomerID: 7,
		Role:       enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(testJWTCfg, signed); err == nil {
		t.Fatal("expected expiry validation failure")
	}

	claims, err := ParseAccessTokenAllowExpired(testJWTCfg, signed)
	if err != nil {
		t.Fatalf("allow-expired parse: %v", err)
	}
	if claims.CustomerID != 7 {
		t.Fatalf("unexpected customer id: %d", claims.CustomerID)
	}
}
