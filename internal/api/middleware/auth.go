package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
)

// CallerKey is the echo.Context key holding the authenticated *domain.User.
const CallerKey = "caller"

// tokenScheme is the Authorization scheme accepted by TokenAuth.
const tokenScheme = "token"

// Authenticator resolves a token key to its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*domain.User, error)
}

// TokenAuth resolves an "Authorization: Token <key>" header into the request
// caller. Requests without the header, or using another scheme, continue
// anonymously; handlers decide whether anonymity is acceptable. A Token
// header that does not resolve is rejected with 401 on every route.
func TokenAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parts := strings.Fields(c.Request().Header.Get(echo.HeaderAuthorization))
			if len(parts) == 0 || !strings.EqualFold(parts[0], tokenScheme) {
				return next(c)
			}
			if len(parts) != 2 {
				metrics.AccessDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token header")
			}

			user, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					metrics.AccessDeniedTotal.WithLabelValues("invalid_token").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(CallerKey, user)
			return next(c)
		}
	}
}
