package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
)

const defaultActivityLimit = 50

// ListActivities godoc
// @Summary Recent activity
// @Tags activities
// @Produce json
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} models.Activity
// @Security ApiKeyAuth
// @Router /api/activities [get]
func (r *Routers) ListActivities(c echo.Context) error {
	const op = "http.routers.ListActivities"

	log := r.log.With(slog.String("op", op))

	limit := defaultActivityLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fail(c, log, models.NewValidationError("limit", "limit must be a positive integer"))
		}
		limit = n
	}

	activities, err := r.Activities.Recent(c.Request().Context(), limit)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, activities)
}
