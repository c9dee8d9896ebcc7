package memory

import (
	"context"
	"sync"

	"github.com/arogyamitra/healthchat/internal/domain/user"
)

// UsersRepo is the map-backed credential store used in tests and DB-less
// dev runs. Uniqueness is enforced under the same lock as the write, so it
// closes the concurrent-registration race the way the postgres unique
// index does.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
		if u.Username != "" && existing.Username == u.Username {
			return user.User{}, user.ErrUsernameTaken
		}
	}

	r.items[u.ID] = u
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	email = user.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[u.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}

	for id, existing := range r.items {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
		if u.Username != "" && existing.Username == u.Username {
			return user.User{}, user.ErrUsernameTaken
		}
	}

	r.items[u.ID] = u
	return u, nil
}

func (r *UsersRepo) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	email = user.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, u := range r.items {
		if id != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UsersRepo) UsernameInUse(ctx context.Context, username, excludeID string) (bool, error) {
	if username == "" {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, u := range r.items {
		if id != excludeID && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Delete exists for tests that exercise the deleted-account path of the
// auth gate; the HTTP surface never removes users.
func (r *UsersRepo) Delete(id string) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}
