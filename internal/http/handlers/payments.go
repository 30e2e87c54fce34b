package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
)

const (
	signatureHeader = "X-Webhook-Signature"
	maxWebhookBody  = 1 << 20

	// Checkout amounts are in cents. The 1000-cent bundle carries the
	// fifteen-token reward; anything else credits a single token.
	bundleAmountCents = 1000
	bundleTokens      = 15
	singleTokenCredit = 1
	checkoutEventType = "checkout.session.completed"
	paymentStatusPaid = "paid"
)

type checkoutEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ClientReferenceID string `json:"client_reference_id"`
			AmountSubtotal    int    `json:"amount_subtotal"`
			PaymentStatus     string `json:"payment_status"`
		} `json:"object"`
	} `json:"data"`
}

// PaymentWebhook credits tokens after a completed checkout. The signature is
// an HMAC-SHA256 of the raw body, so the body must be read before decoding.
func (a *App) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}
	if !a.verifyWebhookSignature(body, r.Header.Get(signatureHeader)) {
		a.error(w, http.StatusBadRequest, "bad_signature", "signature verification failed")
		return
	}

	var event checkoutEvent
	if err := json.Unmarshal(body, &event); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if event.Type != checkoutEventType || event.Data.Object.PaymentStatus != paymentStatusPaid {
		a.json(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	userID := event.Data.Object.ClientReferenceID
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "client_reference_id required")
		return
	}

	credit := singleTokenCredit
	if event.Data.Object.AmountSubtotal == bundleAmountCents {
		credit = bundleTokens
	}
	balance, err := a.Users.CreditTokens(r.Context(), userID, credit)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("token credit failed")
		a.domainError(w, err)
		return
	}
	if a.Cache != nil {
		a.Cache.Invalidate(userID)
	}
	a.Logger.Info().Str("user_id", userID).Int("credited", credit).Int("balance", balance).Msg("payment processed")
	a.json(w, http.StatusOK, map[string]any{"status": "credited", "tokens": balance})
}

func (a *App) verifyWebhookSignature(body []byte, signature string) bool {
	if a.Config.PaymentWebhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(a.Config.PaymentWebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
