package postgres

import (
	"context"

	"github.com/arogyamitra/healthchat/internal/domain/contact"
	"github.com/arogyamitra/healthchat/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewContactsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ContactsRepo {
	return &ContactsRepo{pool: pool, prom: prom}
}

func (r *ContactsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ContactsRepo) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	op := "contacts.create"

	err := r.observe(op, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO contacts (id, name, email, subject, message, status, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			c.ID, c.Name, c.Email, c.Subject, c.Message, c.Status, c.CreatedAt,
		)
		return err
	})

	if err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *ContactsRepo) List(ctx context.Context) ([]contact.Contact, error) {
	op := "contacts.list"

	var out []contact.Contact

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, email, subject, message, status, created_at
			 FROM contacts
			 ORDER BY created_at DESC`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var c contact.Contact

			err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.CreatedAt)

			if err != nil {
				return err
			}

			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
