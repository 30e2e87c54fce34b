package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/pkg/zip"
)

// ExportCreation streams an owned creation as a zip bundle: the creation
// document plus every stored slide image. Images that cannot be read are
// skipped so a missing blob never blocks the export.
func (a *App) ExportCreation(w http.ResponseWriter, r *http.Request) {
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

	doc, err := json.MarshalIndent(creation, "", "  ")
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode creation")
		return
	}
	entries := []zip.Entry{{Filename: "creation.json", Data: doc}}
	for i, slide := range creation.Slides {
		url := domain.ImageURLOf(slide)
		if url == nil {
			continue
		}
		key, ok := a.Store.KeyFromURL(*url)
		if !ok {
			continue
		}
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("export skips unreadable image")
			continue
		}
		entries = append(entries, zip.Entry{Filename: fmt.Sprintf("slide-%d.png", i), Data: data})
	}

	bundle, err := zip.Archive(entries)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "creation-"+id+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bundle)
}
