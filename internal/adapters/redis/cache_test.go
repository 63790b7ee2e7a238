package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "guest_portal/internal/adapters/redis"
	"guest_portal/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var miss domain.BonusSummary
	ok, err := c.Get(ctx, "bonus:g1", &miss)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := domain.BonusSummary{TotalEarned: 1000, TotalSpent: -200, CurrentBalance: 800}
	if err := c.Set(ctx, "bonus:g1", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("portal:bonus:g1") {
		t.Fatalf("expected namespaced key in redis, keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("portal:bonus:g1"); ttl != 60*time.Second {
		t.Fatalf("ttl = %v, want 60s", ttl)
	}

	var got domain.BonusSummary
	ok, err = c.Get(ctx, "bonus:g1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := c.Del(ctx, "bonus:g1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("portal:bonus:g1") {
		t.Fatalf("key should be gone")
	}
}

func TestCache_ExpiredEntryIsMiss(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]int{"a": 1}, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var dst map[string]int
	if ok, _ := c.Get(ctx, "k", &dst); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	c, mr := newCache(t)
	if err := mr.Set("portal:broken", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var dst domain.BonusSummary
	ok, err := c.Get(context.Background(), "broken", &dst)
	if ok || err == nil {
		t.Fatalf("expected decode error miss, got ok=%v err=%v", ok, err)
	}
}
