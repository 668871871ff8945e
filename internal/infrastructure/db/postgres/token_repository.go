package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type TokenRepository struct {
	db *pgxpool.Pool
}

func (r *TokenRepository) FindByUser(ctx context.Context, userID int64) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `SELECT key, user_id, created_at FROM tokens WHERE user_id = $1`

	var t domain.Token
	if err := r.db.QueryRow(ctx, q, userID).Scan(&t.Key, &t.UserID, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

// Create inserts token unless the user already owns one, then reads back
// whichever row won.
func (r *TokenRepository) Create(ctx context.Context, token *domain.Token) (*domain.Token, error) {
	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
	INSERT INTO tokens (key, user_id, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.Exec(insertCtx, q, token.Key, token.UserID, token.CreatedAt.UTC()); err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}
	return r.FindByUser(ctx, token.UserID)
}

func (r *TokenRepository) FindUserByKey(ctx context.Context, key string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
	SELECT u.id, u.username, u.email, u.password_hash, u.date_joined
	FROM tokens t
	JOIN users u ON u.id = t.user_id
	WHERE t.key = $1`

	u, err := scanUser(r.db.QueryRow(ctx, q, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token owner: %w", err)
	}
	return u, nil
}
