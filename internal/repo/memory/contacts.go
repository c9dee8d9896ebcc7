package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/arogyamitra/healthchat/internal/domain/contact"
)

type ContactsRepo struct {
	mu    sync.RWMutex
	items map[string]contact.Contact
}

func NewContactsRepo() *ContactsRepo {
	return &ContactsRepo{
		items: make(map[string]contact.Contact),
	}
}

func (r *ContactsRepo) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	r.items[c.ID] = c
	r.mu.Unlock()

	return c, nil
}

func (r *ContactsRepo) List(ctx context.Context) ([]contact.Contact, error) {
	r.mu.RLock()

	out := make([]contact.Contact, 0, len(r.items))

	for _, c := range r.items {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
