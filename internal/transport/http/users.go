package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	"site_cms/internal/middleware"
	usersvc "site_cms/internal/services/user_service"
	"site_cms/internal/transport/http/dto"
)

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Security ApiKeyAuth
// @Router /api/users [get]
func (r *Routers) ListUsers(c echo.Context) error {
	const op = "http.routers.ListUsers"

	users, err := r.Users.ListUsers(c.Request().Context())
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Email or username taken"
// @Security ApiKeyAuth
// @Router /api/users [post]
func (r *Routers) CreateUser(c echo.Context) error {
	const op = "http.routers.CreateUser"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	user, err := r.Users.CreateUser(c.Request().Context(), usersvc.UserInput{
		FullName:   req.FullName,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Role:       models.Role(req.Role),
		AvatarURL:  req.AvatarURL,
		IsActive:   req.IsActive,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, user.ID, user.Username)
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Description A new password is hashed before it is stored.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User id" format(uuid)
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/{id} [put]
func (r *Routers) UpdateUser(c echo.Context) error {
	const op = "http.routers.UpdateUser"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	patch := usersvc.UserPatch{
		FullName:   req.FullName,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		AvatarURL:  req.AvatarURL,
		IsActive:   req.IsActive,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		patch.Role = &role
	}

	user, err := r.Users.UpdateUser(c.Request().Context(), id, patch)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, user.ID, user.Username)
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Admins cannot delete their own account.
// @Tags users
// @Produce json
// @Param id path string true "User id" format(uuid)
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/{id} [delete]
func (r *Routers) DeleteUser(c echo.Context) error {
	const op = "http.routers.DeleteUser"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	actor, _ := middleware.ActorFrom(c)

	user, err := r.Users.DeleteUser(c.Request().Context(), actor.UserID, id)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, user.ID, user.Username)
	return c.JSON(http.StatusOK, user)
}
