package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	admin := &domain.Principal{ID: "a1", Role: domain.RoleAdmin}
	SetPrincipal(c, admin)

	guard := &stubGuard{admitFn: func(p *domain.Principal, roles ...domain.Role) error {
		if p != admin || len(roles) != 2 {
			t.Fatalf("unexpected admit args: %+v %v", p, roles)
		}
		return nil
	}}

	called := false
	handler := RBAC(guard, domain.RoleAdmin, domain.RoleUser)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetPrincipal(c, &domain.Principal{ID: "u1", Email: "u@x.com", Role: domain.RoleUser})

	guard := &stubGuard{admitFn: func(*domain.Principal, ...domain.Role) error {
		return domain.NewError(domain.KindForbidden, "u@x.com is not authorized for this resource")
	}}

	err := RBAC(guard, domain.RoleAdmin)(func(echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_WithoutPrincipal(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	guard := &stubGuard{admitFn: func(p *domain.Principal, _ ...domain.Role) error {
		if p != nil {
			t.Fatalf("expected nil principal")
		}
		return domain.ErrUnauthenticated
	}}

	err := RBAC(guard)(func(echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
