package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arogyamitra/healthchat/internal/domain/user"
	"github.com/google/uuid"
)

func newUser(email, username string) user.User {
	now := time.Now().UTC()
	return user.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRepo_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	u, err := repo.Create(ctx, newUser("a@x.com", "asha"))

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "A@X.COM")

	if err != nil {
		t.Fatalf("get by email: %v", err)
	}

	if byEmail.ID != u.ID {
		t.Errorf("lookup returned wrong user: %s", byEmail.ID)
	}

	byID, err := repo.GetByID(ctx, u.ID)

	if err != nil {
		t.Fatalf("get by id: %v", err)
	}

	if byID.Email != "a@x.com" {
		t.Errorf("got email %q", byID.Email)
	}
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	first, err := repo.Create(ctx, newUser("a@x.com", ""))

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = repo.Create(ctx, newUser("a@x.com", ""))

	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}

	// the existing record must be untouched
	got, err := repo.GetByID(ctx, first.ID)

	if err != nil {
		t.Fatalf("get after conflict: %v", err)
	}

	if got.Email != "a@x.com" {
		t.Errorf("existing record altered: %q", got.Email)
	}
}

func TestUsersRepo_UpdateConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	u1, _ := repo.Create(ctx, newUser("a@x.com", "asha"))
	u2, _ := repo.Create(ctx, newUser("b@x.com", "bina"))

	u2.Email = "a@x.com"

	_, err := repo.Update(ctx, u2)

	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}

	u2.Email = "b@x.com"
	u2.Username = "asha"

	_, err = repo.Update(ctx, u2)

	if !errors.Is(err, user.ErrUsernameTaken) {
		t.Fatalf("got %v, want ErrUsernameTaken", err)
	}

	// updating own record with its own values is fine
	if _, err := repo.Update(ctx, u1); err != nil {
		t.Fatalf("self update: %v", err)
	}
}

func TestUsersRepo_InUseChecks(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	u, _ := repo.Create(ctx, newUser("a@x.com", "asha"))

	inUse, err := repo.EmailInUse(ctx, "a@x.com", "someone-else")

	if err != nil || !inUse {
		t.Fatalf("email should be in use: %v %v", inUse, err)
	}

	inUse, err = repo.EmailInUse(ctx, "a@x.com", u.ID)

	if err != nil || inUse {
		t.Fatalf("own email must not count as in use: %v %v", inUse, err)
	}

	inUse, err = repo.UsernameInUse(ctx, "asha", "someone-else")

	if err != nil || !inUse {
		t.Fatalf("username should be in use: %v %v", inUse, err)
	}

	inUse, err = repo.UsernameInUse(ctx, "", "someone-else")

	if err != nil || inUse {
		t.Fatalf("empty username never counts as taken: %v %v", inUse, err)
	}
}
