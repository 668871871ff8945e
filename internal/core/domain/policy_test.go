package domain

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	alice := &User{ID: 1, Username: "alice"}
	bob := &User{ID: 2, Username: "bob"}
	post := &Post{ID: 10, AuthorID: alice.ID}
	comment := &Comment{ID: 20, PostID: post.ID, AuthorID: bob.ID}

	tests := []struct {
		name   string
		caller *User
		res    Owned
		want   error
	}{
		{"anonymous on post", nil, post, ErrUnauthenticated},
		{"non-author on post", bob, post, ErrForbidden},
		{"author on post", alice, post, nil},
		{"anonymous on comment", nil, comment, ErrUnauthenticated},
		{"non-author on comment", alice, comment, ErrForbidden},
		{"author on comment", bob, comment, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.caller, tc.res)
			if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got := CanWrite(tc.caller, tc.res); got != (tc.want == nil) {
				t.Fatalf("CanWrite = %v, want %v", got, tc.want == nil)
			}
		})
	}
}

func TestRequireCaller(t *testing.T) {
	if err := RequireCaller(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := RequireCaller(&User{ID: 1}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidationError(t *testing.T) {
	ve := &ValidationError{}
	if ve.OrNil() != nil {
		t.Fatalf("empty ValidationError must collapse to nil")
	}

	ve.Add("title", "is required")
	ve.Add("content", "is required")
	err := ve.OrNil()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(err, ErrValidation)")
	}
	if err.Error() != "title is required; content is required" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
