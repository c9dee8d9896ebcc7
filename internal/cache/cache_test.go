package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Set(ctx, "k", "v")

	got, ok := c.Get(ctx, "k")

	if !ok || got != "v" {
		t.Fatalf("got (%q,%v), want (v,true)", got, ok)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10 * time.Millisecond)

	c.Set(ctx, "k", "v")

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expired entry still served")
	}
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	c.Set(ctx, "a", "1")
	c.Set(ctx, "b", "2")

	c.Delete("a")

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("deleted entry still served")
	}

	c.Clear()

	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatal("cleared entry still served")
	}
}
