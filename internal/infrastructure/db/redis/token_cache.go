package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// TokenCache remembers which user a token key resolves to.
// Key format: token:<key> holding a hash of id, username and email.
type TokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a TokenCache wrapping the given Redis client.
func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

// Get returns the cached user for key. A miss yields (nil, false, nil).
func (c *TokenCache) Get(ctx context.Context, key string) (*domain.User, bool, error) {
	fields, err := c.client.HGetAll(ctx, c.key(key)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("token cache get: %w", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("token cache decode id: %w", err)
	}
	return &domain.User{
		ID:       id,
		Username: fields["username"],
		Email:    fields["email"],
	}, true, nil
}

// Set stores user under key for ttl.
func (c *TokenCache) Set(ctx context.Context, key string, user *domain.User, ttl time.Duration) error {
	k := c.key(key)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"id", strconv.FormatInt(user.ID, 10),
			"username", user.Username,
			"email", user.Email,
		)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("token cache set: %w", err)
	}
	return nil
}

func (c *TokenCache) key(tokenKey string) string {
	return "token:" + tokenKey
}
