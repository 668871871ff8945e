package domain

import "time"

// User models an account that can author posts and comments.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	DateJoined   time.Time `json:"date_joined"`
}

// Token is the opaque bearer credential issued at login. A user owns at most
// one token at any time.
type Token struct {
	Key       string    `json:"key"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
