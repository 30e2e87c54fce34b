package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/middleware"
)

const sessionTTL = 24 * time.Hour

type googleVerifyRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type googleVerifyResponse struct {
	Token string         `json:"token"`
	User  userProfileDTO `json:"user"`
}

type userProfileDTO struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Tokens           int       `json:"tokens"`
	HasTokens        bool      `json:"has_tokens"`
	SubscriptionPlan int       `json:"subscription_plan"`
	CreatedAt        time.Time `json:"created_at"`
}

func profileDTO(u *domain.User) userProfileDTO {
	return userProfileDTO{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Tokens:           u.Tokens,
		HasTokens:        u.HasTokens(),
		SubscriptionPlan: u.SubscriptionPlan,
		CreatedAt:        u.CreatedAt,
	}
}

// AuthGoogleVerify exchanges a Google ID token for a service session. First
// sign-in creates the account with the starting token balance.
func (a *App) AuthGoogleVerify(w http.ResponseWriter, r *http.Request) {
	var req googleVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "id_token required")
		return
	}

	identity, err := a.Google.VerifyIDToken(r.Context(), req.IDToken)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("google id token rejected")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid google token")
		return
	}

	user, err := a.Users.Upsert(r.Context(), &domain.User{
		ID:     uuid.NewString(),
		Email:  identity.Email,
		Name:   identity.Name,
		Tokens: domain.DefaultTokenBalance,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("user upsert failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to persist user")
		return
	}

	token, err := middleware.SignToken(a.Config.JWTSecret, user.ID, sessionTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("session token signing failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, googleVerifyResponse{Token: token, User: profileDTO(user)})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, profileDTO(user))
}

// DeleteMe removes the account, every owned creation via the cascade, and
// the stored images those creations referenced.
func (a *App) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	lists, err := a.Creations.ListSlidesByOwner(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("listing slides before account deletion failed")
		a.domainError(w, err)
		return
	}
	if err := a.Users.Delete(r.Context(), userID); err != nil {
		a.domainError(w, err)
		return
	}
	for _, slides := range lists {
		a.removeSlideImages(r, slides)
	}
	if a.Cache != nil {
		a.Cache.Invalidate(userID)
	}
	a.json(w, http.StatusOK, map[string]string{"deleted": userID})
}
