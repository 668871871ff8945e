package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type signupRequest struct {
	Username string `json:"username" validate:"max=150"`
	Password string `json:"password"`
	Email    string `json:"email"    validate:"omitempty,email"`
}

type signupResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// --- Resources ---
// Pointer fields distinguish "absent" from "empty" so PATCH can leave
// fields untouched. Any author field in a request body is ignored. Field
// rules run in the services, after the authorship check.

type postRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type commentRequest struct {
	Post    *int64  `json:"post"`
	Content *string `json:"content"`
}

type commentResponse struct {
	ID        int64     `json:"id"`
	Post      int64     `json:"post"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// postWithCommentsResponse is the v2 post shape.
type postWithCommentsResponse struct {
	postResponse
	Comments []commentResponse `json:"comments"`
}
