package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/inkpost/blog-api/internal/core/domain"
)

func newTestCache(t *testing.T) (*TokenCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenCache(client), srv
}

func TestTokenCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	user, ok, err := cache.Get(context.Background(), "absent")
	if err != nil || ok || user != nil {
		t.Fatalf("expected a clean miss, got %+v %v %v", user, ok, err)
	}
}

func TestTokenCache_SetThenGet(t *testing.T) {
	ctx := context.Background()
	cache, srv := newTestCache(t)
	alice := &domain.User{ID: 12, Username: "alice", Email: "a@example.com"}

	if err := cache.Set(ctx, "abc", alice, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := srv.TTL("token:abc"); ttl != time.Minute {
		t.Fatalf("expected a one minute ttl, got %v", ttl)
	}

	got, ok, err := cache.Get(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if got.ID != 12 || got.Username != "alice" || got.Email != "a@example.com" {
		t.Fatalf("unexpected user %+v", got)
	}
	if got.PasswordHash != "" {
		t.Fatal("password hash must never be cached")
	}
}

func TestTokenCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache, srv := newTestCache(t)

	if err := cache.Set(ctx, "abc", &domain.User{ID: 1, Username: "bob"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	srv.FastForward(2 * time.Minute)

	if _, ok, err := cache.Get(ctx, "abc"); err != nil || ok {
		t.Fatalf("expected expiry, got ok=%v err=%v", ok, err)
	}
}

func TestTokenCache_CorruptEntry(t *testing.T) {
	cache, srv := newTestCache(t)
	srv.HSet("token:bad", "id", "not-a-number", "username", "x")

	if _, _, err := cache.Get(context.Background(), "bad"); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatal("expected ping to fail")
	}
}
