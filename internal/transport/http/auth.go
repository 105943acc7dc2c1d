package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/middleware"
	"site_cms/internal/transport/http/dto"
	"site_cms/internal/transport/http/dto/response"
)

// Login godoc
// @Summary Log in
// @Description Starts a cookie session and also returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email or username and password"
// @Success 200 {object} models.LoginResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Account disabled"
// @Router /api/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	result, err := r.Auth.Login(c.Request().Context(), req.Login(), req.Password)
	if err != nil {
		return fail(c, log, err)
	}

	if err := middleware.StartSession(c, result.User, r.sessionMaxAge); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("user logged in", slog.String("user_id", result.User.ID.String()))

	return c.JSON(http.StatusOK, result)
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	if err := middleware.EndSession(c); err != nil {
		r.log.With(slog.String("op", op)).Error("failed to end session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Message("logged out"))
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/me [get]
func (r *Routers) Me(c echo.Context) error {
	const op = "http.routers.Me"

	actor, _ := middleware.ActorFrom(c)

	user, err := r.Auth.Me(c.Request().Context(), actor.UserID)
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, user)
}
