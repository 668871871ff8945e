package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// PostHandler serves /posts/ for one API version.
type PostHandler struct {
	posts    ports.PostService
	comments ports.CommentService
	version  Version
}

func NewPostHandler(posts ports.PostService, comments ports.CommentService, version Version) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, version: version}
}

// List handles GET /posts/.
//
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postWithCommentsResponse  "v2 shape; v1 omits comments"
// @Failure      401  {object}  errorResponse
// @Router       /v1/posts/ [get]
// @Router       /v2/posts/ [get]
func (h *PostHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := h.posts.List(ctx)
	if err != nil {
		return err
	}
	comments, err := h.commentsFor(ctx, posts...)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.version.renderPosts(posts, comments))
}

// Get handles GET /posts/:id/.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  postWithCommentsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id}/ [get]
// @Router       /v2/posts/{id}/ [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrPostNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	post, err := h.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	return h.render(ctx, c, http.StatusOK, post)
}

// Create handles POST /posts/. The caller becomes the author.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      postRequest  true  "Post fields"
// @Success      201   {object}  postWithCommentsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/posts/ [post]
// @Router       /v2/posts/ [post]
func (h *PostHandler) Create(c echo.Context) error {
	caller := callerFrom(c)
	if err := domain.RequireCaller(caller); err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.posts.Create(c.Request().Context(), caller, toPostInput(req))
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(h.version)).Inc()
	return c.JSON(http.StatusCreated, h.version.renderPost(post, nil))
}

// Update handles PUT /posts/:id/.
//
// @Summary      Replace a post's title and content
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int          true  "Post ID"
// @Param        body  body      postRequest  true  "Post fields"
// @Success      200   {object}  postWithCommentsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/posts/{id}/ [put]
// @Router       /v2/posts/{id}/ [put]
func (h *PostHandler) Update(c echo.Context) error {
	return h.update(c, false)
}

// Patch handles PATCH /posts/:id/.
//
// @Summary      Partially update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int          true  "Post ID"
// @Param        body  body      postRequest  true  "Fields to change"
// @Success      200   {object}  postWithCommentsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/posts/{id}/ [patch]
// @Router       /v2/posts/{id}/ [patch]
func (h *PostHandler) Patch(c echo.Context) error {
	return h.update(c, true)
}

func (h *PostHandler) update(c echo.Context, partial bool) error {
	caller := callerFrom(c)
	if err := domain.RequireCaller(caller); err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrPostNotFound)
	if err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	post, err := h.posts.Update(ctx, caller, id, toPostInput(req), partial)
	if err != nil {
		return err
	}
	return h.render(ctx, c, http.StatusOK, post)
}

// Delete handles DELETE /posts/:id/. Comments on the post are removed too.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     TokenAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id}/ [delete]
// @Router       /v2/posts/{id}/ [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	caller := callerFrom(c)
	if err := domain.RequireCaller(caller); err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrPostNotFound)
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) render(ctx context.Context, c echo.Context, status int, post *domain.Post) error {
	comments, err := h.commentsFor(ctx, post)
	if err != nil {
		return err
	}
	return c.JSON(status, h.version.renderPost(post, comments[post.ID]))
}

// commentsFor loads comments only for versions that embed them.
func (h *PostHandler) commentsFor(ctx context.Context, posts ...*domain.Post) (map[int64][]*domain.Comment, error) {
	if !h.version.embedsComments() || len(posts) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return h.comments.ListForPosts(ctx, ids)
}

func toPostInput(r postRequest) ports.PostInput {
	return ports.PostInput{Title: r.Title, Content: r.Content}
}
