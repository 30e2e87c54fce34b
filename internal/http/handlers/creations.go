package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/pipeline"
)

type createCreationRequest struct {
	Topic    string `json:"topic" validate:"required,max=200"`
	AgeGroup string `json:"age_group" validate:"required,oneof=elementary middle-school high-school college"`
}

func (a *App) CreateCreation(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	var req createCreationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "topic and a known age_group are required")
		return
	}

	creation, err := a.Pipeline.Create(r.Context(), pipeline.CreateRequest{
		OwnerID:  userID,
		Topic:    req.Topic,
		AgeGroup: domain.AgeGroup(req.AgeGroup),
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("creation pipeline failed")
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success":  true,
		"creation": creation,
	})
}

func (a *App) ListCreations(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	if a.Cache != nil {
		if cached, ok := a.Cache.Get(userID); ok {
			if list, ok := cached.([]domain.Creation); ok {
				a.json(w, http.StatusOK, list)
				return
			}
		}
	}
	list, err := a.Creations.ListByOwner(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("list creations failed")
		a.domainError(w, err)
		return
	}
	if a.Cache != nil {
		a.Cache.Put(userID, list)
	}
	a.json(w, http.StatusOK, list)
}

func (a *App) GetCreation(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid creation id")
		return
	}
	creation, err := a.Creations.GetByID(r.Context(), id, userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, creation)
}

// DeleteCreation removes a creation addressed by the id query parameter and
// cleans up its stored images. Image cleanup is best-effort: a leftover blob
// is logged, never surfaced.
func (a *App) DeleteCreation(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	if _, err := uuid.Parse(id); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "id query parameter must be a uuid")
		return
	}
	slides, err := a.Creations.Delete(r.Context(), id, userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.removeSlideImages(r, slides)
	if a.Cache != nil {
		a.Cache.Invalidate(userID)
	}
	a.json(w, http.StatusOK, map[string]string{"deleted": id})
}

func (a *App) removeSlideImages(r *http.Request, slides domain.SlideList) {
	for _, slide := range slides {
		url := domain.ImageURLOf(slide)
		if url == nil {
			continue
		}
		key, ok := a.Store.KeyFromURL(*url)
		if !ok {
			continue
		}
		if err := a.Store.Delete(r.Context(), key); err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("image cleanup failed")
		}
	}
}
