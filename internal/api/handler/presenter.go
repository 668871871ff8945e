package handler

import (
	"github.com/inkpost/blog-api/internal/core/domain"
)

// Version selects the presentation shape of a route group. Write behaviour is
// the same for every version.
type Version string

const (
	V1 Version = "v1"
	V2 Version = "v2"
)

// embedsComments reports whether post representations carry their comments.
func (v Version) embedsComments() bool {
	return v == V2
}

// renderPost serializes p. comments is ignored by versions that do not embed
// them.
func (v Version) renderPost(p *domain.Post, comments []*domain.Comment) any {
	base := toPostResponse(p)
	if !v.embedsComments() {
		return base
	}
	return postWithCommentsResponse{postResponse: base, Comments: toCommentResponses(comments)}
}

func (v Version) renderPosts(posts []*domain.Post, comments map[int64][]*domain.Comment) []any {
	out := make([]any, len(posts))
	for i, p := range posts {
		out[i] = v.renderPost(p, comments[p.ID])
	}
	return out
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.AuthorUsername,
		Timestamp: p.Timestamp.UTC(),
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Post:      c.PostID,
		Content:   c.Content,
		Author:    c.AuthorUsername,
		Timestamp: c.Timestamp.UTC(),
	}
}

// toCommentResponses never returns nil so an empty list renders as [].
func toCommentResponses(cs []*domain.Comment) []commentResponse {
	out := make([]commentResponse, len(cs))
	for i, c := range cs {
		out[i] = toCommentResponse(c)
	}
	return out
}
