package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/metrics"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// RBAC admits the principal set by Auth when its role is one of roles. An
// empty role list admits any authenticated caller.
func RBAC(guard ports.AccessGuard, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := guard.Admit(PrincipalFrom(c), roles...); err != nil {
				decision := "forbidden"
				if domain.KindOf(err) == domain.KindUnauthenticated {
					decision = "unauthenticated"
				}
				metrics.AccessDecisionsTotal.WithLabelValues(decision).Inc()
				return err
			}
			metrics.AccessDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
