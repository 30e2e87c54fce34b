package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndVerifyToken(t *testing.T) {
	token, err := SignToken("secret", "user-123", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	userID, err := VerifyToken("secret", token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("userID = %q, want %q", userID, "user-123")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignToken("secret", "user-123", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	if _, err := VerifyToken("other-secret", token); err == nil {
		t.Fatal("expected verification to fail with wrong secret")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	token, err := SignToken("secret", "user-123", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	if _, err := VerifyToken("secret", token); err == nil {
		t.Fatal("expected verification to fail for expired token")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	var seenUserID string
	handler := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/creations", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status = %d, want 401", rr.Code)
	}

	token, err := SignToken("secret", "user-123", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	req = httptest.NewRequest("GET", "/v1/creations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", rr.Code)
	}
	if seenUserID != "user-123" {
		t.Fatalf("context user id = %q, want %q", seenUserID, "user-123")
	}
}
