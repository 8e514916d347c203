package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/snackstand/snackstand-backend/pkg/auth"
	"github.com/snackstand/snackstand-backend/pkg/config"
	"github.com/snackstand/snackstand-backend/pkg/enums"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "snackstand",
	ExpirationMinutes: 30,
}

type stubSessionChecker struct {
	active bool
	err    error
}

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.active, s.err
}

func mintToken(t *testing.T, customerID uint, role enums.ActorRole, jti string) string {
	t.Helper()
	signed, err := pkgAuth.MintAccessToken(testJWTCfg, time.Now(), pkgAuth.AccessTokenPayload{
		CustomerID: customerID,
		Role:       role,
		JTI:        jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return signed
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(testJWTCfg, stubSessionChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	handler := Auth(testJWTCfg, stubSessionChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRevokedSession(t *testing.T) {
	handler := Auth(testJWTCfg, stubSessionChecker{active: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 4, enums.ActorRoleCustomer, "session-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsPrincipal(t *testing.T) {
	var captured pkgAuth.Principal
	handler := Auth(testJWTCfg, stubSessionChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 4, enums.ActorRoleCustomer, "session-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if captured.CustomerID != 4 {
		t.Fatalf("unexpected customer id: %d", captured.CustomerID)
	}
	if captured.IsOwner() {
		t.Fatal("customer principal must not be owner")
	}
}

func TestRequireRoleBlocksCustomers(t *testing.T) {
	handler := RequireRole(string(enums.ActorRoleOwner), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	ctx := WithPrincipal(context.Background(), pkgAuth.Principal{CustomerID: 4, Role: enums.ActorRoleCustomer})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owner/orders", nil).WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRoleAllowsOwner(t *testing.T) {
	handler := RequireRole(string(enums.ActorRoleOwner), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := WithPrincipal(context.Background(), pkgAuth.Principal{CustomerID: 1, Role: enums.ActorRoleOwner})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owner/orders", nil).WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
}
