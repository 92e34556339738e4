package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), "", "", 0)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	id := Identity{UserID: "u-1", Email: "shop@example.com"}

	if _, err := store.GetIdentity(ctx, "s-1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("GetIdentity() on empty store error = %v, want ErrNoSession", err)
	}

	if err := store.SetIdentity(ctx, "s-1", id, time.Hour); err != nil {
		t.Fatalf("SetIdentity() error = %v", err)
	}
	if !mr.Exists("session:s-1") {
		t.Fatal("session key was not written with its prefix")
	}
	if ttl := mr.TTL("session:s-1"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	got, err := store.GetIdentity(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetIdentity() error = %v", err)
	}
	if got != id {
		t.Errorf("GetIdentity() = %+v, want %+v", got, id)
	}

	if err := store.Clear(ctx, "s-1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.GetIdentity(ctx, "s-1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("GetIdentity() after Clear error = %v, want ErrNoSession", err)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	if err := store.SetIdentity(ctx, "s-1", Identity{UserID: "u-1"}, time.Minute); err != nil {
		t.Fatalf("SetIdentity() error = %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.GetIdentity(ctx, "s-1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("GetIdentity() after expiry error = %v, want ErrNoSession", err)
	}
}

func TestRedisStore_Errors(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	if err := store.SetIdentity(ctx, "", Identity{UserID: "u-1"}, time.Minute); err == nil {
		t.Error("SetIdentity() with empty id should fail")
	}

	if err := mr.Set("session:bad", "not json"); err != nil {
		t.Fatalf("seed error = %v", err)
	}
	if _, err := store.GetIdentity(ctx, "bad"); err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("GetIdentity() on corrupt value error = %v, want decode error", err)
	}

	mr.Close()
	if _, err := store.GetIdentity(ctx, "s-1"); err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("GetIdentity() with redis down error = %v, want connection error", err)
	}
}
