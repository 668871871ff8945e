package service

import (
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/pkg/validation"
)

// Field rules for post and comment bodies. Create and PUT use the full
// shapes; PATCH checks only the fields present. max counts runes and matches
// domain.MaxTitleLength.

type postFields struct {
	Title   *string `json:"title"   validate:"required,notblank,max=200"`
	Content *string `json:"content" validate:"required,notblank"`
}

type postPatch struct {
	Title   *string `json:"title"   validate:"omitnil,notblank,max=200"`
	Content *string `json:"content" validate:"omitnil,notblank"`
}

type commentFields struct {
	Post    *int64  `json:"post"    validate:"required,gt=0"`
	Content *string `json:"content" validate:"required,notblank"`
}

type commentPatch struct {
	Post    *int64  `json:"post"    validate:"omitnil,gt=0"`
	Content *string `json:"content" validate:"omitnil,notblank"`
}

func validatePostInput(v *validation.Validator, in ports.PostInput, partial bool) error {
	if partial {
		return v.Struct(postPatch{Title: in.Title, Content: in.Content})
	}
	return v.Struct(postFields{Title: in.Title, Content: in.Content})
}

func validateCommentInput(v *validation.Validator, in ports.CommentInput, partial bool) error {
	if partial {
		return v.Struct(commentPatch{Post: in.PostID, Content: in.Content})
	}
	return v.Struct(commentFields{Post: in.PostID, Content: in.Content})
}
