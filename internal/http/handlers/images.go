package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

type regenerateImageRequest struct {
	ImagePrompt string `json:"image_prompt"`
}

// RegenerateSlideImage renders a fresh image for one slide of an owned
// creation and overwrites the stored blob in place. The caller may supply a
// new image_prompt, which replaces the one stored on the slide; an empty
// body reuses the stored prompt. The storage key is derived from the
// creation id and slide index, so the slide URL stays stable across
// regenerations.
func (a *App) RegenerateSlideImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid creation id")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid slide index")
		return
	}
	var req regenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.ImagePrompt = strings.TrimSpace(req.ImagePrompt)

	creation, err := a.Creations.GetByID(r.Context(), id, userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if index >= len(creation.Slides) {
		a.error(w, http.StatusBadRequest, "bad_request", "slide index out of range")
		return
	}
	stored, ok := domain.ImagePromptOf(creation.Slides[index])
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "slide cannot carry an image")
		return
	}
	prompt := req.ImagePrompt
	if prompt == "" {
		prompt = stored
	}
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image_prompt required")
		return
	}

	data, err := a.Images.Generate(r.Context(), prompt)
	if err != nil {
		a.Logger.Error().Err(err).Str("creation_id", id).Int("slide_index", index).Msg("slide image regeneration failed")
		a.domainError(w, err)
		return
	}
	key := fmt.Sprintf("%s-%d.png", id, index)
	url, err := a.Store.Write(r.Context(), key, data)
	if err != nil {
		a.Logger.Error().Err(err).Str("key", key).Msg("image write failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store image")
		return
	}

	creation.Slides[index] = domain.WithImageURL(domain.WithImagePrompt(creation.Slides[index], prompt), url)
	if err := a.Creations.UpdateSlides(r.Context(), id, userID, creation.Slides); err != nil {
		a.domainError(w, err)
		return
	}
	if a.Cache != nil {
		a.Cache.Invalidate(userID)
	}

	slide, err := domain.MarshalSlide(creation.Slides[index])
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode slide")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"creation_id": id,
		"slide_index": index,
		"slide":       slide,
	})
}
