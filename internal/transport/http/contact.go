package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	"site_cms/internal/transport/http/dto"
	"site_cms/internal/transport/http/dto/response"
)

// SubmitContact godoc
// @Summary Send a contact form message
// @Description The message is mailed to the address of the contact section. Submissions are rate limited per client.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/contact [post]
func (r *Routers) SubmitContact(c echo.Context) error {
	const op = "http.routers.SubmitContact"

	log := r.log.With(
		slog.String("op", op),
		slog.String("ip", c.RealIP()),
	)

	var req dto.ContactRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	err := r.Contact.Submit(c.Request().Context(), c.RealIP(), models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Message("message sent"))
}
