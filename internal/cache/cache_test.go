package cache

import (
	"testing"
	"time"
)

func TestGetReturnsStoredValue(t *testing.T) {
	c := New(time.Minute)
	c.Put("owner-1", []string{"a", "b"})

	got, ok := c.Get("owner-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	items, ok := got.([]string)
	if !ok || len(items) != 2 {
		t.Fatalf("unexpected cached value: %#v", got)
	}
}

func TestGetExpiresEntries(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("owner-1", "value")
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("owner-1"); ok {
		t.Fatal("expected entry to expire")
	}
	// expired entries are dropped, not just hidden
	if len(c.entries) != 0 {
		t.Fatalf("expected empty cache, have %d entries", len(c.entries))
	}
}

func TestInvalidateRemovesEntry(t *testing.T) {
	c := New(time.Minute)
	c.Put("owner-1", "value")
	c.Invalidate("owner-1")
	if _, ok := c.Get("owner-1"); ok {
		t.Fatal("expected entry to be removed")
	}
}

func TestGetMissOnUnknownKey(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}
