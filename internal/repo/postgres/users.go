package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/arogyamitra/healthchat/internal/domain/user"
	"github.com/arogyamitra/healthchat/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

// mapUniqueViolation turns the store-level constraint error into the domain
// error naming the conflicting field. The unique index is the actual race
// closer for concurrent registrations; pre-checks are best-effort only.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return user.ErrUsernameTaken
		}
		return user.ErrEmailTaken
	}
	return err
}

const userColumns = `id, username, email, password_hash, age, gender, medical_history, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Age,
		&u.Gender,
		&u.MedicalHistory,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	op := "users.create"

	err := r.observe(op, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (`+userColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.Age, u.Gender, u.MedicalHistory, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return user.User{}, mapUniqueViolation(err)
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	op := "users.get_by_email"

	var u user.User
	var err error

	err = r.observe(op, func() error {
		u, err = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`,
			user.NormalizeEmail(email),
		))
		return err
	})

	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	op := "users.get_by_id"

	var u user.User
	var err error

	err = r.observe(op, func() error {
		u, err = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`,
			id,
		))
		return err
	})

	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	op := "users.update"

	var tag pgconn.CommandTag

	err := r.observe(op, func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`UPDATE users
			 SET username = $2,
			     email = $3,
			     age = $4,
			     gender = $5,
			     medical_history = $6,
			     updated_at = $7
			 WHERE id = $1`,
			u.ID, u.Username, u.Email, u.Age, u.Gender, u.MedicalHistory, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return user.User{}, mapUniqueViolation(err)
	}

	if tag.RowsAffected() == 0 {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	op := "users.email_in_use"

	var exists bool

	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
			user.NormalizeEmail(email), excludeID,
		).Scan(&exists)
	})

	return exists, err
}

func (r *UsersRepo) UsernameInUse(ctx context.Context, username, excludeID string) (bool, error) {
	op := "users.username_in_use"

	var exists bool

	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND username <> '' AND id <> $2)`,
			username, excludeID,
		).Scan(&exists)
	})

	return exists, err
}
