package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/infrastructure/db/memory"
)

var (
	alice = &domain.User{ID: 1, Username: "alice"}
	bob   = &domain.User{ID: 2, Username: "bob"}
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func postInput(title, content string) ports.PostInput {
	return ports.PostInput{Title: strPtr(title), Content: strPtr(content)}
}

// newPostSvc returns a service whose clock advances one second per call.
func newPostSvc() (*PostService, *memory.Store) {
	store := memory.New()
	svc := NewPostService(store.Posts(), zerolog.Nop())
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, store
}

func TestPostService_Create_ForcesAuthor(t *testing.T) {
	svc, _ := newPostSvc()

	post, err := svc.Create(context.Background(), alice, postInput("A", "B"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.AuthorID != alice.ID || post.AuthorUsername != "alice" {
		t.Fatalf("author not taken from caller: %+v", post)
	}
	if post.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestPostService_Create_Anonymous(t *testing.T) {
	svc, _ := newPostSvc()

	// Anonymous callers are rejected before the payload is inspected.
	_, err := svc.Create(context.Background(), nil, ports.PostInput{})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	svc, _ := newPostSvc()

	_, err := svc.Create(context.Background(), alice, ports.PostInput{Content: strPtr("  ")})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("expected title and content errors, got %+v", ve.Fields)
	}

	_, err = svc.Create(context.Background(), alice, postInput(strings.Repeat("x", domain.MaxTitleLength+1), "c"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected title length error, got %v", err)
	}
}

func TestPostService_List_NewestFirst(t *testing.T) {
	svc, _ := newPostSvc()
	first, _ := svc.Create(context.Background(), alice, postInput("first", "c"))
	second, _ := svc.Create(context.Background(), bob, postInput("second", "c"))

	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", posts)
	}
}

func TestPostService_Update(t *testing.T) {
	svc, _ := newPostSvc()
	post, _ := svc.Create(context.Background(), alice, postInput("A", "B"))

	tests := []struct {
		name    string
		caller  *domain.User
		id      int64
		input   ports.PostInput
		partial bool
		wantErr error
	}{
		{"anonymous", nil, post.ID, postInput("x", "y"), false, domain.ErrUnauthenticated},
		{"anonymous on missing post", nil, 999, postInput("x", "y"), false, domain.ErrUnauthenticated},
		{"non-author", bob, post.ID, postInput("x", "y"), false, domain.ErrForbidden},
		{"non-author with invalid body", bob, post.ID, ports.PostInput{}, false, domain.ErrForbidden},
		{"missing post", alice, 999, postInput("x", "y"), false, domain.ErrPostNotFound},
		{"full update missing content", alice, post.ID, ports.PostInput{Title: strPtr("x")}, false, domain.ErrValidation},
		{"author full update", alice, post.ID, postInput("new title", "new content"), false, nil},
		{"author partial update", alice, post.ID, ports.PostInput{Content: strPtr("patched")}, true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tc.caller, tc.id, tc.input, tc.partial)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	got, _ := svc.Get(context.Background(), post.ID)
	if got.Title != "new title" || got.Content != "patched" {
		t.Fatalf("unexpected final state: %+v", got)
	}
	if got.AuthorID != alice.ID || !got.Timestamp.Equal(post.Timestamp) {
		t.Fatalf("author and timestamp must be immutable: %+v", got)
	}
}

func TestPostService_Delete(t *testing.T) {
	svc, _ := newPostSvc()
	post, _ := svc.Create(context.Background(), alice, postInput("A", "B"))

	if err := svc.Delete(context.Background(), nil, post.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := svc.Delete(context.Background(), bob, post.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), alice, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), post.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), alice, post.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on second delete, got %v", err)
	}
}

func TestPostService_FieldRules(t *testing.T) {
	svc, _ := newPostSvc()
	post, _ := svc.Create(context.Background(), alice, postInput("A", "B"))

	tests := []struct {
		name    string
		input   ports.PostInput
		partial bool
		field   string
		message string
	}{
		{"put blank title", postInput("", "c"), false, "title", "may not be blank"},
		{"put missing content", ports.PostInput{Title: strPtr("t")}, false, "content", "is required"},
		{"put long title", postInput(strings.Repeat("x", domain.MaxTitleLength+1), "c"), false, "title", "must be at most 200 characters"},
		{"patch blank content", ports.PostInput{Content: strPtr("   ")}, true, "content", "may not be blank"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), alice, post.ID, tc.input, tc.partial)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) != 1 || ve.Fields[0].Field != tc.field || ve.Fields[0].Message != tc.message {
				t.Fatalf("unexpected fields %+v", ve.Fields)
			}
		})
	}

	if _, err := svc.Update(context.Background(), alice, post.ID, ports.PostInput{}, true); err != nil {
		t.Fatalf("empty patch should be accepted: %v", err)
	}
}
