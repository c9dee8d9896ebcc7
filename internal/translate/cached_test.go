package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arogyamitra/healthchat/internal/cache"
)

type countingTranslator struct {
	calls int
	out   string
	err   error
}

func (f *countingTranslator) TranslateToMarathi(ctx context.Context, text string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestCached_HitsSkipUpstream(t *testing.T) {
	ctx := context.Background()
	fake := &countingTranslator{out: "अनुवाद"}
	c := NewCached(fake, cache.NewMemory(time.Minute))

	for i := 0; i < 3; i++ {
		got, err := c.TranslateToMarathi(ctx, "same text")

		if err != nil {
			t.Fatalf("translate: %v", err)
		}

		if got != "अनुवाद" {
			t.Errorf("got %q", got)
		}
	}

	if fake.calls != 1 {
		t.Errorf("upstream called %d times, want 1", fake.calls)
	}
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	fake := &countingTranslator{err: errors.New("quota")}
	c := NewCached(fake, cache.NewMemory(time.Minute))

	_, err1 := c.TranslateToMarathi(ctx, "text")
	_, err2 := c.TranslateToMarathi(ctx, "text")

	if err1 == nil || err2 == nil {
		t.Fatal("expected errors to propagate")
	}

	if fake.calls != 2 {
		t.Errorf("upstream called %d times, want 2 (failures must not be cached)", fake.calls)
	}
}
