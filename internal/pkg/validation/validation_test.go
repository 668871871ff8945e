package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type fullBody struct {
	Title   *string `json:"title"   validate:"required,notblank,max=200"`
	Content *string `json:"content" validate:"required,notblank"`
	Post    *int64  `json:"post"    validate:"required,gt=0"`
}

type patchBody struct {
	Title   *string `json:"title"   validate:"omitnil,notblank,max=200"`
	Content *string `json:"content" validate:"omitnil,notblank"`
	Post    *int64  `json:"post"    validate:"omitnil,gt=0"`
}

func str(s string) *string { return &s }
func id(n int64) *int64    { return &n }

func TestValidator_Struct(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		in   any
		want map[string]string // field -> message; nil means valid
	}{
		{
			name: "full body valid",
			in:   fullBody{Title: str("t"), Content: str("c"), Post: id(1)},
		},
		{
			name: "full body missing fields",
			in:   fullBody{},
			want: map[string]string{"title": "is required", "content": "is required", "post": "is required"},
		},
		{
			name: "blank strings and zero id",
			in:   fullBody{Title: str(""), Content: str("  \t"), Post: id(0)},
			want: map[string]string{"title": "may not be blank", "content": "may not be blank", "post": "must be greater than 0"},
		},
		{
			name: "title counts runes",
			in:   fullBody{Title: str(strings.Repeat("é", 200)), Content: str("c"), Post: id(1)},
		},
		{
			name: "title too long",
			in:   fullBody{Title: str(strings.Repeat("x", 201)), Content: str("c"), Post: id(1)},
			want: map[string]string{"title": "must be at most 200 characters"},
		},
		{
			name: "empty patch",
			in:   patchBody{},
		},
		{
			name: "blank patch content",
			in:   patchBody{Content: str(" ")},
			want: map[string]string{"content": "may not be blank"},
		},
		{
			name: "negative patch post",
			in:   patchBody{Post: id(-3)},
			want: map[string]string{"post": "must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *domain.ValidationError, got %v", err)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatal("validation errors must match ErrValidation")
			}
			got := make(map[string]string, len(ve.Fields))
			for _, f := range ve.Fields {
				got[f.Field] = f.Message
			}
			if len(got) != len(tt.want) {
				t.Fatalf("fields = %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Errorf("%s: %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}
