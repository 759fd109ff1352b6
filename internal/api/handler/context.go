package handler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/middleware"
	"github.com/99minutos/identity-service/internal/core/domain"
)

var errInvalidPayload = domain.NewError(domain.KindInvalidInput, "invalid payload")

// actor returns the principal injected by the Auth middleware. Its absence
// means the route was mounted without Auth, which is reported as 401.
func actor(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(req); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return de
		}
		return domain.Internal(err)
	}
	return nil
}

// lookupKey builds the key addressed by the :id or :email path parameter.
func lookupKey(c echo.Context) (domain.LookupKey, error) {
	if email := c.Param("email"); email != "" {
		// Echo hands out decoded values unless the request kept a RawPath.
		if c.Request().URL.RawPath != "" {
			unescaped, err := url.PathUnescape(email)
			if err != nil {
				return domain.LookupKey{}, domain.NewError(domain.KindInvalidInput, "email must be a valid email")
			}
			email = unescaped
		}
		if !strings.Contains(email, "@") {
			return domain.LookupKey{}, domain.NewError(domain.KindInvalidInput, "email must be a valid email")
		}
		return domain.LookupByEmail(email), nil
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return domain.LookupKey{}, domain.NewError(domain.KindInvalidInput, "id is required")
	}
	return domain.LookupByID(id), nil
}

// outcome labels a metric with "success" or the failure kind.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(domain.KindOf(err))
}
