package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"validation", domain.NewValidationError("title", "is required"), http.StatusBadRequest, "title is required"},
		{"duplicate username", domain.ErrDuplicateUsername, http.StatusBadRequest, "username already exists"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, "unable to log in with provided credentials"},
		{"anonymous write", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication credentials were not provided"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
		{"not the author", domain.ErrForbidden, http.StatusForbidden, "you do not have permission to perform this action"},
		{"wrapped post not found", fmt.Errorf("load: %w", domain.ErrPostNotFound), http.StatusNotFound, "post not found"},
		{"comment not found", domain.ErrCommentNotFound, http.StatusNotFound, "comment not found"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	handle := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/posts/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handle(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] != tt.wantMsg {
				t.Fatalf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/posts/1/", nil)
	rec := httptest.NewRecorder()

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrPostNotFound, e.NewContext(req, rec))

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("got %d with %d body bytes", rec.Code, rec.Body.Len())
	}
}
