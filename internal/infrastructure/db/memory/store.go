// Package memory is a process-local implementation of the repository ports.
// It backs STORE_DRIVER=memory and the router-level tests.
package memory

import (
	"sort"
	"sync"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// Store holds every collection behind a single lock so cascades and
// uniqueness checks are atomic.
type Store struct {
	mu sync.RWMutex

	lastUserID    int64
	lastPostID    int64
	lastCommentID int64

	users       map[int64]domain.User
	byUsername  map[string]int64
	tokens      map[string]domain.Token
	tokenByUser map[int64]string
	posts       map[int64]domain.Post
	comments    map[int64]domain.Comment
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:       make(map[int64]domain.User),
		byUsername:  make(map[string]int64),
		tokens:      make(map[string]domain.Token),
		tokenByUser: make(map[int64]string),
		posts:       make(map[int64]domain.Post),
		comments:    make(map[int64]domain.Comment),
	}
}

// Users returns the user repository view of s.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Tokens returns the token repository view of s.
func (s *Store) Tokens() *TokenRepository { return &TokenRepository{s: s} }

// Posts returns the post repository view of s.
func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }

// Comments returns the comment repository view of s.
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }

func sortPosts(ps []*domain.Post) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].Timestamp.Equal(ps[j].Timestamp) {
			return ps[i].Timestamp.After(ps[j].Timestamp)
		}
		return ps[i].ID > ps[j].ID
	})
}

func sortComments(cs []*domain.Comment) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].Timestamp.Equal(cs[j].Timestamp) {
			return cs[i].Timestamp.After(cs[j].Timestamp)
		}
		return cs[i].ID > cs[j].ID
	})
}
