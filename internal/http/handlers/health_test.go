package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func TestHealthOK(t *testing.T) {
	app := newTestApp(&fakeUsers{}, &fakeCreations{}, &fakeStore{})
	app.DB = &fakePinger{}

	rr := httptest.NewRecorder()
	app.Health(rr, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" || body["database"] != "ok" {
		t.Fatalf("unexpected body: %#v", body)
	}
}

func TestHealthDegradedWhenDatabaseDown(t *testing.T) {
	app := newTestApp(&fakeUsers{}, &fakeCreations{}, &fakeStore{})
	app.DB = &fakePinger{err: errors.New("connection refused")}

	rr := httptest.NewRecorder()
	app.Health(rr, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["database"] != "unreachable" {
		t.Fatalf("unexpected body: %#v", body)
	}
}
