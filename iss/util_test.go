package iss

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// TestCacheRoundTrip checks that repeated lookups within the day are served
// from disk, and that clearing the cache forces a fresh fetch.
func TestCacheRoundTrip(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"securities": {"columns": ["secid", "isin"], "data": [["SU26238RMFS4", "RU000A1038V6"]]}}`)
	}))
	t.Cleanup(srv.Close)
	old := BaseURL
	BaseURL = srv.URL
	t.Cleanup(func() { BaseURL = old })
	scratchCache(t)

	for i := 0; i < 3; i++ {
		if _, err := Resolve("RU000A1038V6", ISINToSecID); err != nil {
			t.Fatalf("Resolve() unexpected error = %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1 thanks to the cache", n)
	}

	entries, err := CacheEntries()
	if err != nil {
		t.Fatalf("CacheEntries() unexpected error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("CacheEntries() = %d entries, want 1", len(entries))
	}

	removed, err := ClearCache()
	if err != nil {
		t.Fatalf("ClearCache() unexpected error = %v", err)
	}
	if removed != 1 {
		t.Errorf("ClearCache() removed %d entries, want 1", removed)
	}

	if _, err := Resolve("RU000A1038V6", ISINToSecID); err != nil {
		t.Fatalf("Resolve() after ClearCache() unexpected error = %v", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2 after the cache was cleared", n)
	}
}

func TestClearCacheKeepsStrangers(t *testing.T) {
	scratchCache(t)

	if err := os.WriteFile(filepath.Join(cacheDir, "iss-deadbeef"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := ClearCache()
	if err != nil {
		t.Fatalf("ClearCache() unexpected error = %v", err)
	}
	if removed != 1 {
		t.Errorf("ClearCache() removed %d entries, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "notes.txt")); err != nil {
		t.Errorf("ClearCache() touched an unrelated file: %v", err)
	}
}
