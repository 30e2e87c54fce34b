package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

func exportRequest(id, userID string) *http.Request {
	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/creations/"+id+"/export", nil), userID)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestExportCreationBundle(t *testing.T) {
	id := uuid.NewString()
	creations := &fakeCreations{byID: map[string]*domain.Creation{id: testCreation(id, "user-1")}}
	store := &fakeStore{reads: map[string][]byte{id + "-0.png": []byte("png-bytes")}}
	app := newTestApp(&fakeUsers{}, creations, store)

	rec := httptest.NewRecorder()
	app.ExportCreation(rec, exportRequest(id, "user-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["creation.json"] || !names["slide-0.png"] {
		t.Fatalf("archive entries = %v", names)
	}
}

func TestExportCreationSkipsMissingImages(t *testing.T) {
	id := uuid.NewString()
	creations := &fakeCreations{byID: map[string]*domain.Creation{id: testCreation(id, "user-1")}}
	app := newTestApp(&fakeUsers{}, creations, &fakeStore{})

	rec := httptest.NewRecorder()
	app.ExportCreation(rec, exportRequest(id, "user-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "creation.json" {
		t.Fatalf("archive must contain only creation.json, got %d entries", len(zr.File))
	}
}

func TestExportCreationNotFound(t *testing.T) {
	app := newTestApp(&fakeUsers{}, &fakeCreations{byID: map[string]*domain.Creation{}}, &fakeStore{})

	rec := httptest.NewRecorder()
	app.ExportCreation(rec, exportRequest(uuid.NewString(), "user-1"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
