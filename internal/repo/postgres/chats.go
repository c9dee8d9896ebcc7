package postgres

import (
	"context"

	"github.com/arogyamitra/healthchat/internal/domain/chat"
	"github.com/arogyamitra/healthchat/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewChatsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ChatsRepo {
	return &ChatsRepo{pool: pool, prom: prom}
}

func (r *ChatsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ChatsRepo) Create(ctx context.Context, c chat.Chat) (chat.Chat, error) {
	op := "chats.create"

	err := r.observe(op, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO chats (id, user_id, message, response, translated_response, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			c.ID, c.UserID, c.Message, c.Response, c.TranslatedResponse, c.CreatedAt,
		)
		return err
	})

	if err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

// ListByUser returns the caller's most recent exchanges, newest first.
func (r *ChatsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]chat.Chat, error) {
	if limit <= 0 {
		limit = 50
	}

	op := "chats.list_by_user"

	var out []chat.Chat

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, message, response, translated_response, created_at
			 FROM chats
			 WHERE user_id = $1
			 ORDER BY created_at DESC
			 LIMIT $2`,
			userID, limit,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var c chat.Chat

			err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.Response, &c.TranslatedResponse, &c.CreatedAt)

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
