package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "staybook/internal/adapters/redis"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestCache_SetGetDel(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	type payload struct {
		City  string  `json:"city"`
		Price float64 `json:"price"`
	}

	// miss before set
	var got payload
	ok, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss before set")
	}

	want := payload{City: "Miami", Price: 150.0}
	if err := c.Set(ctx, "k", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	ok, err = c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != want {
		t.Fatalf("expected hit with %+v, got ok=%v %+v", want, ok, got)
	}

	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "k", &got)
	if ok {
		t.Fatal("expected miss after del")
	}
}
