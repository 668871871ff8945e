package memory

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byUsername[user.Username]; exists {
		return nil, domain.ErrDuplicateUsername
	}
	r.s.lastUserID++
	u := *user
	u.ID = r.s.lastUserID
	r.s.users[u.ID] = u
	r.s.byUsername[u.Username] = u.ID
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type TokenRepository struct {
	s *Store
}

func (r *TokenRepository) FindByUser(_ context.Context, userID int64) (*domain.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key, ok := r.s.tokenByUser[userID]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	t := r.s.tokens[key]
	return &t, nil
}

func (r *TokenRepository) Create(_ context.Context, token *domain.Token) (*domain.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if key, ok := r.s.tokenByUser[token.UserID]; ok {
		existing := r.s.tokens[key]
		return &existing, nil
	}
	t := *token
	r.s.tokens[t.Key] = t
	r.s.tokenByUser[t.UserID] = t.Key
	return &t, nil
}

func (r *TokenRepository) FindUserByKey(_ context.Context, key string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[key]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	u, ok := r.s.users[t.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
