package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arogyamitra/healthchat/internal/domain/chat"
)

type ChatsRepo struct {
	mu    sync.RWMutex
	items map[string]chat.Chat
}

func NewChatsRepo() *ChatsRepo {
	return &ChatsRepo{
		items: make(map[string]chat.Chat),
	}
}

func (r *ChatsRepo) Create(ctx context.Context, c chat.Chat) (chat.Chat, error) {
	r.mu.Lock()
	r.items[c.ID] = c
	r.mu.Unlock()

	return c, nil
}

func (r *ChatsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]chat.Chat, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()

	out := make([]chat.Chat, 0)

	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	// newest first
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
