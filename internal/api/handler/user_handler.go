package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/metrics"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// UserHandler serves the user management routes. Each of FindOne, Update
// and Remove is mounted twice, under /users/:id and /users/email/:email.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create adds an account with an explicit role. Admin only.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Image:                req.Image,
		Role:                 req.Role,
	})
	metrics.UserOperationsTotal.WithLabelValues("create", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profile)
}

// List returns every account. Admin only.
func (h *UserHandler) List(c echo.Context) error {
	profiles, err := h.users.List(c.Request().Context())
	metrics.UserOperationsTotal.WithLabelValues("list", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *UserHandler) FindOne(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}
	key, err := lookupKey(c)
	if err != nil {
		return err
	}

	profile, err := h.users.FindOne(c.Request().Context(), p, key)
	metrics.UserOperationsTotal.WithLabelValues("find", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Update(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}
	key, err := lookupKey(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.users.Update(c.Request().Context(), p, key, ports.UpdateUserInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Image:                req.Image,
		Role:                 req.Role,
	})
	metrics.UserOperationsTotal.WithLabelValues("update", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Remove(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}
	key, err := lookupKey(c)
	if err != nil {
		return err
	}

	result, err := h.users.Remove(c.Request().Context(), p, key)
	metrics.UserOperationsTotal.WithLabelValues("remove", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
