package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/arogyamitra/healthchat/internal/cache"
)

type Translator interface {
	TranslateToMarathi(ctx context.Context, text string) (string, error)
}

// Cached memoizes successful translations. The Translate API is
// quota-limited and health questions repeat a lot.
type Cached struct {
	next  Translator
	store cache.Cache
}

func NewCached(next Translator, store cache.Cache) *Cached {
	return &Cached{next: next, store: store}
}

func (c *Cached) TranslateToMarathi(ctx context.Context, text string) (string, error) {
	key := cacheKey(text)

	if val, ok := c.store.Get(ctx, key); ok {
		return val, nil
	}

	out, err := c.next.TranslateToMarathi(ctx, text)

	if err != nil {
		return "", err
	}

	c.store.Set(ctx, key, out)
	return out, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "translate:mr:" + hex.EncodeToString(sum[:])
}
