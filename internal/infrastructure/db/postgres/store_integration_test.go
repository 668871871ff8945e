//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// newTestStore connects to POSTGRES_TEST_DSN and starts from empty tables.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, Config{DSN: dsn, MaxConns: 8})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	store := NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE users, tokens, posts, comments RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return store
}

func mustUser(t *testing.T, s *Store, name string) *domain.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &domain.User{
		Username: name, PasswordHash: "hash", DateJoined: time.Now(),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "alice")

	_, err := s.Users().Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "x", DateJoined: time.Now()})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestTokenRepository_FirstTokenWins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")

	first, err := s.Tokens().Create(ctx, &domain.Token{Key: "aaa", UserID: alice.ID, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.Tokens().Create(ctx, &domain.Token{Key: "bbb", UserID: alice.ID, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if first.Key != "aaa" || second.Key != "aaa" {
		t.Fatalf("expected the first key to win, got %q and %q", first.Key, second.Key)
	}
	if _, err := s.Tokens().FindUserByKey(ctx, "bbb"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("losing key must not resolve, got %v", err)
	}
	user, err := s.Tokens().FindUserByKey(ctx, "aaa")
	if err != nil || user.ID != alice.ID {
		t.Fatalf("expected alice, got %+v %v", user, err)
	}
}

func TestTokenRepository_ConcurrentCreatesAgree(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")

	const n = 16
	keys := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := s.Tokens().Create(ctx, &domain.Token{Key: fmt.Sprintf("key-%02d", i), UserID: alice.ID, CreatedAt: time.Now()})
			errs[i] = err
			if err == nil {
				keys[i] = tok.Key
			}
		}(i)
	}
	wg.Wait()

	for i := range keys {
		if errs[i] != nil {
			t.Fatalf("create %d: %v", i, errs[i])
		}
		if keys[i] != keys[0] {
			t.Fatalf("logins disagree: %q vs %q", keys[i], keys[0])
		}
	}
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	now := time.Now()

	post, err := s.Posts().Create(ctx, &domain.Post{Title: "t", Content: "c", AuthorID: alice.ID, Timestamp: now})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	other, _ := s.Posts().Create(ctx, &domain.Post{Title: "t2", Content: "c2", AuthorID: alice.ID, Timestamp: now})
	if _, err := s.Comments().Create(ctx, &domain.Comment{PostID: post.ID, Content: "x", AuthorID: alice.ID, Timestamp: now}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	kept, _ := s.Comments().Create(ctx, &domain.Comment{PostID: other.ID, Content: "y", AuthorID: alice.ID, Timestamp: now})

	if err := s.Posts().Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Posts().Delete(ctx, post.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}

	left, err := s.Comments().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 1 || left[0].ID != kept.ID {
		t.Fatalf("expected only the other post's comment, got %+v", left)
	}
}

func TestCommentRepository_MissingPost(t *testing.T) {
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")

	_, err := s.Comments().Create(context.Background(), &domain.Comment{PostID: 999, Content: "x", AuthorID: alice.ID, Timestamp: time.Now()})
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older, _ := s.Posts().Create(ctx, &domain.Post{Title: "old", Content: "c", AuthorID: alice.ID, Timestamp: base})
	newer, _ := s.Posts().Create(ctx, &domain.Post{Title: "new", Content: "c", AuthorID: alice.ID, Timestamp: base.Add(time.Hour)})

	posts, err := s.Posts().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != newer.ID || posts[1].ID != older.ID {
		t.Fatalf("unexpected order %+v", posts)
	}
	if posts[0].AuthorUsername != "alice" {
		t.Fatalf("expected the author's username, got %q", posts[0].AuthorUsername)
	}
}
