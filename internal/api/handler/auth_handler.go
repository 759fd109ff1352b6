package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/metrics"
	"github.com/99minutos/identity-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account with the default role and returns it with a
// token.
//
//	POST /api/v1/auth/register -> 201 {"user": {...}, "token": "..."}
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", outcome(err)).Inc()
		return err
	}

	start := time.Now()
	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Image:                req.Image,
	})
	metrics.AuthDuration.WithLabelValues("register").Observe(time.Since(start).Seconds())
	metrics.AuthAttemptsTotal.WithLabelValues("register", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// Login exchanges credentials for a token.
//
//	POST /api/v1/auth/login -> 200 {"user": {...}, "token": "..."}
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", outcome(err)).Inc()
		return err
	}

	start := time.Now()
	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.AuthDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())
	metrics.AuthAttemptsTotal.WithLabelValues("login", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Refresh issues a new token for the authenticated caller.
//
//	GET /api/v1/auth/refresh-token -> 200 {"user": {...}, "token": "..."}
func (h *AuthHandler) Refresh(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	result, err := h.authService.Refresh(c.Request().Context(), p)
	metrics.AuthAttemptsTotal.WithLabelValues("refresh", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
