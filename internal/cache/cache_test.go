// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"), 15)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPageCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()
	key := SlugKey("test-page")

	// Miss.
	data, ok := pc.Get(ctx, key)
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	html := []byte("<html><body>Test Page</body></html>")
	pc.Set(ctx, key, html)

	data, ok = pc.Get(ctx, key)
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}

	ttl, err := client.TTL(ctx, pageKeyPrefix+key).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl: got %v, want within (0, 1m]", ttl)
	}
}

func TestPageCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, SlugKey("invalidate-me"), []byte("cached"))
	pc.Set(ctx, FrontPageKey(), []byte("front"))

	if _, ok := pc.Get(ctx, SlugKey("invalidate-me")); !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	pc.Invalidate(ctx, SlugKey("invalidate-me"))

	if _, ok := pc.Get(ctx, SlugKey("invalidate-me")); ok {
		t.Error("expected cache miss after invalidation")
	}
	if _, ok := pc.Get(ctx, FrontPageKey()); !ok {
		t.Error("front page should survive invalidating another page")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	keys := []string{SlugKey("page-a"), SlugKey("page-b"), FrontPageKey()}
	for _, key := range keys {
		pc.Set(ctx, key, []byte(key))
	}

	pc.InvalidateAll(ctx)

	for _, key := range keys {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestKeys(t *testing.T) {
	if FrontPageKey() != "_front" {
		t.Errorf("FrontPageKey: got %q, want %q", FrontPageKey(), "_front")
	}
	if got := SlugKey("about-us"); got != "slug:about-us" {
		t.Errorf("SlugKey: got %q, want %q", got, "slug:about-us")
	}
	if SlugKey(FrontPageKey()) == FrontPageKey() {
		t.Error("a page slugged like the front page key must not collide with it")
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		pc := NewPageCache(nil, ttl)
		if pc.ttl != DefaultPageTTL {
			t.Errorf("NewPageCache(%v): expected DefaultPageTTL (%v), got %v", ttl, DefaultPageTTL, pc.ttl)
		}
	}
}
