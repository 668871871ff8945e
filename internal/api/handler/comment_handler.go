package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// CommentHandler serves /comments/. Comment representations are identical
// across versions; version only labels metrics.
type CommentHandler struct {
	comments ports.CommentService
	version  Version
}

func NewCommentHandler(comments ports.CommentService, version Version) *CommentHandler {
	return &CommentHandler{comments: comments, version: version}
}

// List handles GET /comments/.
//
// @Summary      List comments, newest first
// @Tags         comments
// @Produce      json
// @Success      200  {array}  commentResponse
// @Router       /v1/comments/ [get]
// @Router       /v2/comments/ [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.comments.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponses(comments))
}

// Get handles GET /comments/:id/.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {object}  commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id}/ [get]
// @Router       /v2/comments/{id}/ [get]
func (h *CommentHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrCommentNotFound)
	if err != nil {
		return err
	}
	comment, err := h.comments.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// ForPost handles GET /comments/:id/post_comments/ where :id names the post.
//
// @Summary      List the comments of one post
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {array}   commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id}/post_comments/ [get]
// @Router       /v2/comments/{id}/post_comments/ [get]
func (h *CommentHandler) ForPost(c echo.Context) error {
	postID, err := pathID(c, domain.ErrPostNotFound)
	if err != nil {
		return err
	}
	comments, err := h.comments.ListForPost(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponses(comments))
}

// Create handles POST /comments/.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      commentRequest  true  "Comment fields"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/comments/ [post]
// @Router       /v2/comments/ [post]
func (h *CommentHandler) Create(c echo.Context) error {
	caller := callerFrom(c)
	if err := domain.RequireCaller(caller); err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	comment, err := h.comments.Create(c.Request().Context(), caller, toCommentInput(req))
	if err != nil {
		return err
	}

	metrics.CommentsCreatedTotal.WithLabelValues(string(h.version)).Inc()
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Update handles PUT /comments/:id/.
//
// @Summary      Replace a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int             true  "Comment ID"
// @Param        body  body      commentRequest  true  "Comment fields"
// @Success      200   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/comments/{id}/ [put]
// @Router       /v2/comments/{id}/ [put]
func (h *CommentHandler) Update(c echo.Context) error {
	return h.update(c, false)
}

// Patch handles PATCH /comments/:id/.
//
// @Summary      Partially update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int             true  "Comment ID"
// @Param        body  body      commentRequest  true  "Fields to change"
// @Success      200   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/comments/{id}/ [patch]
// @Router       /v2/comments/{id}/ [patch]
func (h *CommentHandler) Patch(c echo.Context) error {
	return h.update(c, true)
}

func (h *CommentHandler) update(c echo.Context, partial bool) error {
	caller := callerFrom(c)
	if err := domain.RequireCaller(caller); err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrCommentNotFound)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	comment, err := h.comments.Update(c.Request().Context(), caller, id, toCommentInput(req), partial)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete handles DELETE /comments/:id/.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     TokenAuth
// @Param        id   path  int  true  "Comment ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id}/ [delete]
// @Router       /v2/comments/{id}/ [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	caller := callerFrom(c)
	if err := domain.RequireCaller(caller); err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrCommentNotFound)
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toCommentInput(r commentRequest) ports.CommentInput {
	return ports.CommentInput{PostID: r.Post, Content: r.Content}
}
