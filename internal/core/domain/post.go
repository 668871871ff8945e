package domain

import "time"

// MaxTitleLength bounds Post.Title, counted in runes.
const MaxTitleLength = 200

// Post is a blog entry owned by its author.
type Post struct {
	ID             int64
	Title          string
	Content        string
	AuthorID       int64
	AuthorUsername string
	Timestamp      time.Time
}

// Comment is a reply attached to exactly one Post.
type Comment struct {
	ID             int64
	PostID         int64
	Content        string
	AuthorID       int64
	AuthorUsername string
	Timestamp      time.Time
}

// Owner returns the ID of the post's author.
func (p *Post) Owner() int64 { return p.AuthorID }

// Owner returns the ID of the comment's author.
func (c *Comment) Owner() int64 { return c.AuthorID }
