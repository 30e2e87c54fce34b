package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func checkoutBody(amount int, status string) string {
	return `{"type":"checkout.session.completed","data":{"object":{"client_reference_id":"user-1","amount_subtotal":` +
		strconv.Itoa(amount) + `,"payment_status":"` + status + `"}}}`
}

func postWebhook(app *App, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	app.PaymentWebhook(rec, req)
	return rec
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	users := &fakeUsers{users: map[string]*domain.User{}}
	app := newTestApp(users, &fakeCreations{}, &fakeStore{})

	body := checkoutBody(1000, "paid")
	rec := postWebhook(app, body, "deadbeef")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(users.creditCalls) != 0 {
		t.Fatal("no tokens must be credited on bad signature")
	}

	rec = postWebhook(app, body, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing signature", rec.Code)
	}
}

func TestPaymentWebhookBundleCreditsFifteen(t *testing.T) {
	users := &fakeUsers{users: map[string]*domain.User{"user-1": {ID: "user-1", Tokens: 3}}}
	app := newTestApp(users, &fakeCreations{}, &fakeStore{})

	body := checkoutBody(1000, "paid")
	rec := postWebhook(app, body, signBody("webhook-secret", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(users.creditCalls) != 1 || users.creditCalls[0] != 15 {
		t.Fatalf("credit calls = %v, want [15]", users.creditCalls)
	}
}

func TestPaymentWebhookOtherAmountCreditsOne(t *testing.T) {
	users := &fakeUsers{users: map[string]*domain.User{"user-1": {ID: "user-1", Tokens: 0}}}
	app := newTestApp(users, &fakeCreations{}, &fakeStore{})

	body := checkoutBody(500, "paid")
	rec := postWebhook(app, body, signBody("webhook-secret", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(users.creditCalls) != 1 || users.creditCalls[0] != 1 {
		t.Fatalf("credit calls = %v, want [1]", users.creditCalls)
	}
}

func TestPaymentWebhookIgnoresUnpaidSession(t *testing.T) {
	users := &fakeUsers{users: map[string]*domain.User{"user-1": {ID: "user-1"}}}
	app := newTestApp(users, &fakeCreations{}, &fakeStore{})

	body := checkoutBody(1000, "unpaid")
	rec := postWebhook(app, body, signBody("webhook-secret", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(users.creditCalls) != 0 {
		t.Fatalf("credit calls = %v, want none", users.creditCalls)
	}
}
