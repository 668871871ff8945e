package memory

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type PostRepository struct {
	s *Store
}

func (r *PostRepository) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastPostID++
	post := *p
	post.ID = r.s.lastPostID
	r.s.posts[post.ID] = post
	return &post, nil
}

func (r *PostRepository) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r *PostRepository) List(_ context.Context) ([]*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		p := p
		out = append(out, &p)
	}
	sortPosts(out)
	return out, nil
}

func (r *PostRepository) Update(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[p.ID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	r.s.posts[p.ID] = stored
	return &stored, nil
}

func (r *PostRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[c.PostID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	r.s.lastCommentID++
	comment := *c
	comment.ID = r.s.lastCommentID
	r.s.comments[comment.ID] = comment
	return &comment, nil
}

func (r *CommentRepository) FindByID(_ context.Context, id int64) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r *CommentRepository) List(_ context.Context) ([]*domain.Comment, error) {
	return r.filter(func(domain.Comment) bool { return true }), nil
}

func (r *CommentRepository) ListByPost(_ context.Context, postID int64) ([]*domain.Comment, error) {
	return r.filter(func(c domain.Comment) bool { return c.PostID == postID }), nil
}

func (r *CommentRepository) ListByPosts(_ context.Context, postIDs []int64) (map[int64][]*domain.Comment, error) {
	wanted := make(map[int64]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}
	matched := r.filter(func(c domain.Comment) bool {
		_, ok := wanted[c.PostID]
		return ok
	})

	out := make(map[int64][]*domain.Comment, len(postIDs))
	for _, c := range matched {
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, nil
}

func (r *CommentRepository) Update(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.comments[c.ID]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	if _, ok := r.s.posts[c.PostID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	stored.PostID = c.PostID
	stored.Content = c.Content
	r.s.comments[c.ID] = stored
	return &stored, nil
}

func (r *CommentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *CommentRepository) filter(keep func(domain.Comment) bool) []*domain.Comment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Comment, 0)
	for _, c := range r.s.comments {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sortComments(out)
	return out
}
