package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/domain"
)

// callerFrom returns the user resolved by the TokenAuth middleware, or nil for
// anonymous requests. Handlers pass the result to services explicitly.
func callerFrom(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.CallerKey).(*domain.User)
	return user
}

// pathID parses the :id route parameter. Anything that is not a plain
// positive decimal (signs included) cannot name a stored row, so notFound is
// returned instead.
func pathID(c echo.Context, notFound error) (int64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return int64(id), nil
}
