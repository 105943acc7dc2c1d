package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"site_cms/internal/content"
	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/services/auth"
	usersvc "site_cms/internal/services/user_service"
	"site_cms/internal/storage"
	"site_cms/internal/transport/http/dto/response"
)

var (
	errBadRequest = errors.New("malformed request")
	errInvalidID  = errors.New("not valid UUID")
)

// fail writes the response for a service error. Unknown errors are logged
// and hidden behind a generic 500.
func fail(c echo.Context, log *slog.Logger, err error) error {
	var (
		vErr   *models.ValidationError
		vdErrs validator.ValidationErrors
	)

	switch {
	case errors.Is(err, errBadRequest):
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	case errors.Is(err, errInvalidID):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "id must be a UUID"))
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, response.Validation(vErr.Fields))
	case errors.As(err, &vdErrs):
		return c.JSON(http.StatusBadRequest, response.Validation(fieldErrors(vdErrs)))
	case errors.Is(err, models.ErrOrderMismatch):
		return c.JSON(http.StatusBadRequest, response.Validation(map[string]string{"ids": models.ErrOrderMismatch.Error()}))
	case errors.Is(err, models.ErrMenuDepthExceeded),
		errors.Is(err, models.ErrParentOtherMenu),
		errors.Is(err, models.ErrParentIsSelf):
		return c.JSON(http.StatusBadRequest, response.Validation(map[string]string{"parentId": err.Error()}))
	case errors.Is(err, content.ErrMalformedJSON),
		errors.Is(err, models.ErrNotAnObject),
		errors.Is(err, content.ErrEmptyArrayNoHint),
		errors.Is(err, content.ErrUnknownHint),
		errors.Is(err, content.ErrNotAnArray):
		return c.JSON(http.StatusBadRequest, response.Validation(map[string]string{"content": err.Error()}))
	case errors.Is(err, storage.ErrInvalidFileName):
		return c.JSON(http.StatusBadRequest, response.Validation(map[string]string{"name": "invalid file name"}))
	case errors.Is(err, usersvc.ErrDeleteSelf):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("cannot_delete_self", usersvc.ErrDeleteSelf.Error()))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	case errors.Is(err, auth.ErrUserInactive):
		return c.JSON(http.StatusForbidden, response.ErrAccountDisabled)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrFileNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, storage.ErrConflict):
		return c.JSON(http.StatusConflict, response.ErrConflict)
	case errors.Is(err, storage.ErrInUse):
		return c.JSON(http.StatusConflict, response.ErrInUse)
	case errors.Is(err, storage.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, response.ErrRateLimited)
	}

	log.Error("request failed", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

// bind decodes and validates the request body into req. The returned error
// is meant for fail.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errBadRequest
	}
	return c.Validate(req)
}
