package lookupcache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"filmintel/internal/market/lookupcache"
)

func openCache(t *testing.T, ttl time.Duration) *lookupcache.Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lookup.db")
	cache, err := lookupcache.Open(path, ttl, nil)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestPutThenGet(t *testing.T) {
	cache := openCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "tmdb", "search:nova", []byte(`{"results":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	payload, ok, err := cache.Get(ctx, "tmdb", "search:nova")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || string(payload) != `{"results":[]}` {
		t.Fatalf("unexpected payload: ok=%v %q", ok, payload)
	}
}

func TestGetMissesForUnknownKey(t *testing.T) {
	cache := openCache(t, time.Hour)

	_, ok, err := cache.Get(context.Background(), "tmdb", "search:missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("unexpected cache hit")
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	cache := openCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "omdb", "id:tt0001", []byte("old")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.Put(ctx, "omdb", "id:tt0001", []byte("new")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	payload, ok, err := cache.Get(ctx, "omdb", "id:tt0001")
	if err != nil || !ok {
		t.Fatalf("get after replace: ok=%v err=%v", ok, err)
	}
	if string(payload) != "new" {
		t.Fatalf("expected replacement payload, got %q", payload)
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	cache := openCache(t, time.Nanosecond)
	ctx := context.Background()

	if err := cache.Put(ctx, "tmdb", "search:old", []byte("stale")); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "tmdb", "search:old")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expired entry must miss")
	}
}

func TestSourcesDoNotCollide(t *testing.T) {
	cache := openCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "tmdb", "search:nova", []byte("primary")); err != nil {
		t.Fatalf("put tmdb: %v", err)
	}
	if err := cache.Put(ctx, "omdb", "search:nova", []byte("secondary")); err != nil {
		t.Fatalf("put omdb: %v", err)
	}

	payload, ok, _ := cache.Get(ctx, "omdb", "search:nova")
	if !ok || string(payload) != "secondary" {
		t.Fatalf("sources must be keyed separately: ok=%v %q", ok, payload)
	}
}

func TestEmptyPathCacheIsInert(t *testing.T) {
	cache, err := lookupcache.Open("", time.Hour, nil)
	if err != nil {
		t.Fatalf("open inert cache: %v", err)
	}
	ctx := context.Background()

	if err := cache.Put(ctx, "tmdb", "search:nova", []byte("x")); err != nil {
		t.Fatalf("inert put must be a no-op: %v", err)
	}
	_, ok, err := cache.Get(ctx, "tmdb", "search:nova")
	if err != nil || ok {
		t.Fatalf("inert get must miss cleanly: ok=%v err=%v", ok, err)
	}
}

func TestPrune(t *testing.T) {
	cache := openCache(t, time.Nanosecond)
	ctx := context.Background()

	if err := cache.Put(ctx, "tmdb", "search:a", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	removed, err := cache.Prune(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned row, got %d", removed)
	}
}
