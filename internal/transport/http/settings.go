package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	"site_cms/internal/middleware"
	"site_cms/internal/transport/http/dto"
)

// GetSettings godoc
// @Summary Site settings
// @Description Empty settings are returned until the first update.
// @Tags settings
// @Produce json
// @Success 200 {object} models.SiteSettings
// @Router /api/settings [get]
func (r *Routers) GetSettings(c echo.Context) error {
	const op = "http.routers.GetSettings"

	settings, err := r.Settings.Settings(c.Request().Context())
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Replace site settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.SettingsRequest true "Settings"
// @Success 200 {object} models.SiteSettings
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/settings [put]
func (r *Routers) UpdateSettings(c echo.Context) error {
	const op = "http.routers.UpdateSettings"

	log := r.log.With(slog.String("op", op))

	var req dto.SettingsRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	settings, err := r.Settings.UpdateSettings(c.Request().Context(), models.SiteSettings{
		SiteName:    req.SiteName,
		SiteURL:     req.SiteURL,
		LogoURL:     req.LogoURL,
		ThemeColor:  req.ThemeColor,
		Description: req.Description,
		SEOKeywords: req.SEOKeywords,
	})
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, settings.ID, "site settings")
	return c.JSON(http.StatusOK, settings)
}
