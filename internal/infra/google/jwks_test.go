package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newJWKSServer(t *testing.T, pub *rsa.PublicKey, kid string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"jwks_uri": srv.URL + "/jwks"})
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		eBytes := big.NewInt(int64(pub.E)).Bytes()
		_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{{
			Kid: kid,
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(eBytes),
		}}})
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, kid, issuer, audience string) string {
	t.Helper()
	claims := idTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "google-sub-1",
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "learner@example.com",
		Name:  "Learner",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign id token: %v", err)
	}
	return signed
}

func TestVerifyIDToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newJWKSServer(t, &key.PublicKey, "kid-1")

	verifier := NewVerifier(srv.URL, "client-1")
	raw := signIDToken(t, key, "kid-1", srv.URL, "client-1")

	identity, err := verifier.VerifyIDToken(context.Background(), raw)
	if err != nil {
		t.Fatalf("VerifyIDToken returned error: %v", err)
	}
	if identity.Subject != "google-sub-1" {
		t.Fatalf("Subject = %q, want %q", identity.Subject, "google-sub-1")
	}
	if identity.Email != "learner@example.com" {
		t.Fatalf("Email = %q, want %q", identity.Email, "learner@example.com")
	}
}

func TestVerifyIDTokenRejectsWrongAudience(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newJWKSServer(t, &key.PublicKey, "kid-1")

	verifier := NewVerifier(srv.URL, "client-1")
	raw := signIDToken(t, key, "kid-1", srv.URL, "someone-else")

	if _, err := verifier.VerifyIDToken(context.Background(), raw); err == nil {
		t.Fatal("expected verification to fail for wrong audience")
	}
}

func TestVerifyIDTokenRejectsUnknownKid(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newJWKSServer(t, &key.PublicKey, "kid-1")

	verifier := NewVerifier(srv.URL, "client-1")
	raw := signIDToken(t, key, "kid-other", srv.URL, "client-1")

	if _, err := verifier.VerifyIDToken(context.Background(), raw); err == nil {
		t.Fatal("expected verification to fail for unknown kid")
	}
}

func TestRSAKeyFromJWKRejectsZeroExponent(t *testing.T) {
	_, err := rsaKeyFromJWK(jwk{N: base64.RawURLEncoding.EncodeToString([]byte{1, 2, 3}), E: base64.RawURLEncoding.EncodeToString([]byte{0})})
	if err == nil {
		t.Fatal("expected error for zero exponent")
	}
}
