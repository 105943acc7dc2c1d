package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	"site_cms/internal/middleware"
	"site_cms/internal/transport/http/dto"
	"site_cms/internal/transport/http/dto/response"
)

// UploadImage godoc
// @Summary Upload an image
// @Description Wide raster images are scaled down before they are stored.
// @Tags images
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} dto.ImageResponse
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/images [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(slog.String("op", op))

	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, log, models.NewValidationError("file", "file is required"))
	}

	upload, file, err := openUpload(fh)
	if err != nil {
		return fail(c, log, errBadRequest)
	}
	defer file.Close()

	image, err := r.Media.UploadImage(c.Request().Context(), upload)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, uuid.Nil, image.Name)
	return c.JSON(http.StatusCreated, dto.ImageResponse{
		Link: image.URL,
		URL:  image.URL,
		Name: image.Name,
	})
}

// ListImages godoc
// @Summary List uploaded images
// @Tags images
// @Produce json
// @Success 200 {array} models.Image
// @Security ApiKeyAuth
// @Router /api/images [get]
func (r *Routers) ListImages(c echo.Context) error {
	const op = "http.routers.ListImages"

	images, err := r.Media.ListImages(c.Request().Context())
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, images)
}

// DeleteImage godoc
// @Summary Delete an uploaded image
// @Tags images
// @Produce json
// @Param name query string true "File name"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/images [delete]
func (r *Routers) DeleteImage(c echo.Context) error {
	const op = "http.routers.DeleteImage"

	log := r.log.With(slog.String("op", op))

	name := c.QueryParam("name")
	if name == "" {
		return fail(c, log, models.NewValidationError("name", "name is required"))
	}

	if err := r.Media.DeleteImage(c.Request().Context(), name); err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, uuid.Nil, name)
	return c.JSON(http.StatusOK, response.Message("image deleted"))
}
