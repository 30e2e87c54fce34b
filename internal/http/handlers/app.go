package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/LaykenV/teach-magic-server/internal/cache"
	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/infra"
	"github.com/LaykenV/teach-magic-server/internal/infra/google"
	"github.com/LaykenV/teach-magic-server/internal/middleware"
	"github.com/LaykenV/teach-magic-server/internal/pipeline"
	"github.com/LaykenV/teach-magic-server/internal/providers/image"
)

// GoogleVerifier validates a Google ID token and returns the asserted
// identity.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, raw string) (*google.Identity, error)
}

// CreationPipeline is the generation entry point the create handler calls.
type CreationPipeline interface {
	Create(ctx context.Context, req pipeline.CreateRequest) (*domain.Creation, error)
}

// ImageStore is the slice of the storage layer handlers need: write and
// delete image blobs and translate between keys and public URLs.
type ImageStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	Read(ctx context.Context, key string) ([]byte, error)
	KeyFromURL(url string) (string, bool)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Config    *infra.Config
	Logger    zerolog.Logger
	DB        Pinger
	Users     domain.UserRepository
	Creations domain.CreationRepository
	Pipeline  CreationPipeline
	Images    image.Generator
	Store     ImageStore
	Cache     *cache.Cache
	Google    GoogleVerifier
	Validate  *validator.Validate
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// domainError translates sentinel domain errors into an HTTP response.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "not allowed")
	case errors.Is(err, domain.ErrValidationFailed):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrSchemaMismatch), errors.Is(err, domain.ErrGenerationFailed):
		a.error(w, http.StatusBadGateway, "generation_failed", "content generation failed")
	default:
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return "", false
	}
	return userID, true
}
