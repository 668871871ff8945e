package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type fakeCommentService struct {
	ports.CommentService
	forPost  map[int64][]*domain.Comment
	createFn func(caller *domain.User, in ports.CommentInput) (*domain.Comment, error)
}

func (s *fakeCommentService) ListForPost(_ context.Context, postID int64) ([]*domain.Comment, error) {
	cs, ok := s.forPost[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return cs, nil
}

func (s *fakeCommentService) Create(_ context.Context, caller *domain.User, in ports.CommentInput) (*domain.Comment, error) {
	return s.createFn(caller, in)
}

func TestCommentHandler_ForPost(t *testing.T) {
	svc := &fakeCommentService{forPost: map[int64][]*domain.Comment{
		1: {},
		2: sampleComments()[1],
	}}
	h := NewCommentHandler(svc, V1)

	tests := []struct {
		name     string
		id       string
		wantErr  error
		wantBody string
	}{
		{name: "empty list renders []", id: "1", wantBody: "[]"},
		{name: "unknown post", id: "99", wantErr: domain.ErrPostNotFound},
		{name: "non-numeric id", id: "x", wantErr: domain.ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodGet, "/comments/"+tt.id+"/post_comments/", "")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			err := h.ForPost(c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Fatalf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}

func TestCommentHandler_Create(t *testing.T) {
	bob := &domain.User{ID: 2, Username: "bob"}
	svc := &fakeCommentService{
		createFn: func(caller *domain.User, in ports.CommentInput) (*domain.Comment, error) {
			if caller != bob || in.PostID == nil || *in.PostID != 1 {
				t.Fatalf("unexpected call caller=%+v input=%+v", caller, in)
			}
			return &domain.Comment{ID: 4, PostID: 1, Content: *in.Content, AuthorID: 2, AuthorUsername: "bob", Timestamp: testTime}, nil
		},
	}
	h := NewCommentHandler(svc, V2)

	c, _ := newJSONContext(http.MethodPost, "/v2/comments/", `{"post":1,"content":"hi"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous create: expected ErrUnauthenticated, got %v", err)
	}

	c, rec := newJSONContext(http.MethodPost, "/v2/comments/", `{"post":1,"content":"hi"}`)
	c.Set(middleware.CallerKey, bob)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"author":"bob"`) || !strings.Contains(rec.Body.String(), `"post":1`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestVersion_RenderPost(t *testing.T) {
	post := samplePosts()[1]

	if _, ok := V1.renderPost(post, sampleComments()[1]).(postResponse); !ok {
		t.Fatal("v1 should render a flat post")
	}

	v2, ok := V2.renderPost(post, sampleComments()[1]).(postWithCommentsResponse)
	if !ok {
		t.Fatal("v2 should render a post with comments")
	}
	if len(v2.Comments) != 1 || v2.Comments[0].ID != 10 || v2.Comments[0].Post != 1 {
		t.Fatalf("unexpected comments %+v", v2.Comments)
	}
	if !v2.Timestamp.Equal(post.Timestamp) {
		t.Fatalf("timestamp = %s, want %s", v2.Timestamp, post.Timestamp)
	}
}
