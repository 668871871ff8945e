package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

const (
	tokenKeyBytes   = 20
	defaultCacheTTL = 15 * time.Minute
)

// AuthService implements signup, login and token resolution.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenRepository
	cache     ports.TokenCache
	cacheTTL  time.Duration
	hashCost  int
	dummyHash []byte
	log       zerolog.Logger
}

// AuthOption configures optional AuthService behaviour.
type AuthOption func(*AuthService)

// WithTokenCache places cache in front of token lookups.
func WithTokenCache(cache ports.TokenCache, ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithHashCost overrides the bcrypt cost used for new password hashes.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.hashCost = cost
		}
	}
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenRepository, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:    users,
		tokens:   tokens,
		cacheTTL: defaultCacheTTL,
		hashCost: bcrypt.DefaultCost,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Compared against on unknown usernames so both failure paths pay for a bcrypt round.
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
	return s
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrMissingField
	}

	_, err := s.users.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateUsername
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		DateJoined:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrMissingField
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token.Key, UserID: user.ID, Username: user.Username}, nil
}

// issueToken returns the user's token, minting one on first login.
func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (*domain.Token, error) {
	existing, err := s.tokens.FindByUser(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrTokenNotFound) {
		return nil, fmt.Errorf("login: find token: %w", err)
	}

	key, err := generateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.tokens.Create(ctx, &domain.Token{Key: key, UserID: user.ID, CreatedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("login: create token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("token issued")
	return token, nil
}

func (s *AuthService) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrInvalidToken
	}

	if s.cache != nil {
		user, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("token cache read failed, falling back to store")
		} else if ok {
			return user, nil
		}
	}

	user, err := s.tokens.FindUserByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, user, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("token cache write failed")
		}
	}
	return user, nil
}

// generateTokenKey returns a 40-character hex key.
func generateTokenKey() (string, error) {
	b := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
