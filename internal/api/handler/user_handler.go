package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/companydev/user-identity-service/internal/api/metrics"
	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user lifecycle operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a new user across the identity provider and the store.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerUserRequest  true  "Registration details"
// @Success      201   {object}  registerUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Register(c.Request().Context(), ports.RegisterUserInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionFailed):
			metrics.RegisterCompensationsTotal.WithLabelValues("compensated").Inc()
		case errors.Is(err, domain.ErrInconsistency):
			metrics.RegisterCompensationsTotal.WithLabelValues("failed").Inc()
		}
		return err
	}

	metrics.UsersRegisteredTotal.Inc()

	return c.JSON(http.StatusCreated, registerUserResponse{
		ID:             result.ID,
		Email:          result.Email,
		FullName:       result.FullName,
		Status:         result.Status,
		ExternalAuthID: result.ExternalAuthID,
		CreatedAt:      result.CreatedAt,
	})
}

// Activate transitions a pending user to active.
//
// @Summary      Activate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (uuid)"
// @Success      200  {object}  statusChangeResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/users/{id}/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	result, err := h.service.Activate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.StatusChangesTotal.WithLabelValues(result.Status).Inc()
	return c.JSON(http.StatusOK, statusChangeResponse(*result))
}

// Deactivate transitions an active user to inactive.
//
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (uuid)"
// @Success      200  {object}  statusChangeResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	result, err := h.service.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.StatusChangesTotal.WithLabelValues(result.Status).Inc()
	return c.JSON(http.StatusOK, statusChangeResponse(*result))
}

// Update changes a user's profile.
//
// @Summary      Update a user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id (uuid)"
// @Param        body  body      updateUserRequest  true  "Profile changes"
// @Success      200   {object}  updateUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Update(c.Request().Context(), ports.UpdateUserInput{
		UserID:   c.Param("id"),
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateUserResponse(*result))
}

// Get returns a single user by id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (uuid)"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	view, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewToResponse(view))
}

// GetByEmail returns a single user by email.
//
// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email address"
// @Success      200    {object}  userResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/users/by-email/{email} [get]
func (h *UserHandler) GetByEmail(c echo.Context) error {
	view, err := h.service.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewToResponse(view))
}

// List returns a page of users, optionally filtered by status.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (pending, active, inactive)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10)"
// @Success      200     {object}  listUsersResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListUsersInput{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	data := make([]userResponse, 0, len(result.Users))
	for i := range result.Users {
		data = append(data, viewToResponse(&result.Users[i]))
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

func viewToResponse(view *ports.UserView) userResponse {
	return userResponse{
		ID:             view.ID,
		Email:          view.Email,
		FullName:       view.FullName,
		Status:         view.Status,
		ExternalAuthID: view.ExternalAuthID,
		CreatedAt:      view.CreatedAt,
		UpdatedAt:      view.UpdatedAt,
	}
}
