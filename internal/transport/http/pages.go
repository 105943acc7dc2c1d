package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"site_cms/internal/content"
	"site_cms/internal/middleware"
	pagesvc "site_cms/internal/services/page_service"
	"site_cms/internal/transport/http/dto"
	"site_cms/internal/transport/http/dto/response"
)

// ListPages godoc
// @Summary List pages
// @Tags pages
// @Produce json
// @Success 200 {array} models.Page
// @Router /api/pages [get]
func (r *Routers) ListPages(c echo.Context) error {
	const op = "http.routers.ListPages"

	pages, err := r.Pages.ListPages(c.Request().Context())
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, pages)
}

// CreatePage godoc
// @Summary Create a page
// @Description The slug is derived from the title when omitted.
// @Tags pages
// @Accept json
// @Produce json
// @Param request body dto.CreatePageRequest true "Page"
// @Success 201 {object} models.Page
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Slug taken"
// @Security ApiKeyAuth
// @Router /api/pages [post]
func (r *Routers) CreatePage(c echo.Context) error {
	const op = "http.routers.CreatePage"

	log := r.log.With(slog.String("op", op))

	var req dto.CreatePageRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	page, err := r.Pages.CreatePage(c.Request().Context(), req.Title, req.Slug)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, page.ID, page.Title)
	return c.JSON(http.StatusCreated, page)
}

// GetPage godoc
// @Summary Get a page with its sections
// @Description Sections come ordered by position. active=true keeps only active sections.
// @Tags pages
// @Produce json
// @Param slug path string true "Page slug"
// @Param active query bool false "Only active sections"
// @Success 200 {object} models.Page
// @Failure 404 {object} response.ErrorResponse
// @Router /api/pages/{slug} [get]
func (r *Routers) GetPage(c echo.Context) error {
	const op = "http.routers.GetPage"

	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))

	page, err := r.Pages.GetPage(c.Request().Context(), c.Param("slug"), activeOnly)
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, page)
}

// DeletePage godoc
// @Summary Delete a page and its sections
// @Tags pages
// @Produce json
// @Param slug path string true "Page slug"
// @Success 200 {object} models.Page
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/pages/{slug} [delete]
func (r *Routers) DeletePage(c echo.Context) error {
	const op = "http.routers.DeletePage"

	page, err := r.Pages.DeletePage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	middleware.AuditSubject(c, page.ID, page.Title)
	return c.JSON(http.StatusOK, page)
}

// ReorderSections godoc
// @Summary Reorder all sections of a page
// @Description ids must list every section of the page exactly once.
// @Tags sections
// @Accept json
// @Produce json
// @Param slug path string true "Page slug"
// @Param request body dto.OrderRequest true "Section ids in the new order"
// @Success 200 {object} models.Page
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/pages/{slug}/sections/order [put]
func (r *Routers) ReorderSections(c echo.Context) error {
	const op = "http.routers.ReorderSections"

	log := r.log.With(slog.String("op", op))

	var req dto.OrderRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	page, err := r.Pages.ReorderSections(c.Request().Context(), c.Param("slug"), req.IDs)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, page.ID, page.Title)
	return c.JSON(http.StatusOK, page)
}

// CreateSection godoc
// @Summary Add a section to a page
// @Description order 0 appends the section after the last one.
// @Tags sections
// @Accept json
// @Produce json
// @Param request body dto.CreateSectionRequest true "Section"
// @Success 201 {object} models.Section
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Page not found"
// @Security ApiKeyAuth
// @Router /api/sections [post]
func (r *Routers) CreateSection(c echo.Context) error {
	const op = "http.routers.CreateSection"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateSectionRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	section, err := r.Pages.CreateSection(c.Request().Context(), pagesvc.SectionInput{
		PageID:   req.PageID,
		Type:     req.Type,
		Content:  req.Content,
		Order:    req.Order,
		IsActive: req.IsActive,
	})
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, section.ID, section.Type)
	return c.JSON(http.StatusCreated, section)
}

// UpdateSection godoc
// @Summary Update a section
// @Description Only the provided fields change; content replaces the whole document.
// @Tags sections
// @Accept json
// @Produce json
// @Param id path string true "Section id" format(uuid)
// @Param request body dto.UpdateSectionRequest true "Fields to change"
// @Success 200 {object} models.Section
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/sections/{id} [put]
func (r *Routers) UpdateSection(c echo.Context) error {
	const op = "http.routers.UpdateSection"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.UpdateSectionRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	section, err := r.Pages.UpdateSection(c.Request().Context(), id, req.Patch())
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, section.ID, section.Type)
	return c.JSON(http.StatusOK, section)
}

// DeleteSection godoc
// @Summary Delete a section
// @Description Remaining sections of the page are renumbered 1..N.
// @Tags sections
// @Produce json
// @Param id path string true "Section id" format(uuid)
// @Success 200 {object} models.Section
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/sections/{id} [delete]
func (r *Routers) DeleteSection(c echo.Context) error {
	const op = "http.routers.DeleteSection"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	section, err := r.Pages.DeleteSection(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, section.ID, section.Type)
	return c.JSON(http.StatusOK, section)
}

// SectionForm godoc
// @Summary Editor form for a section
// @Description Field descriptors the backoffice renders for the section content.
// @Tags sections
// @Produce json
// @Param id path string true "Section id" format(uuid)
// @Success 200 {object} content.Form
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/sections/{id}/form [get]
func (r *Routers) SectionForm(c echo.Context) error {
	const op = "http.routers.SectionForm"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	form, err := r.Pages.SectionForm(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, form)
}

// NewArrayItem godoc
// @Summary Blank item for an array in a section
// @Description Clones the shape of the first element; an empty array needs a hint.
// @Tags sections
// @Accept json
// @Produce json
// @Param id path string true "Section id" format(uuid)
// @Param request body dto.ArrayItemRequest true "Array path and optional hint"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/sections/{id}/array-item [post]
func (r *Routers) NewArrayItem(c echo.Context) error {
	const op = "http.routers.NewArrayItem"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.ArrayItemRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	item, err := r.Pages.NewArrayItem(c.Request().Context(), id, req.Path, content.Hint(req.Hint))
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"item": item})
}

// ParseContent godoc
// @Summary Check raw JSON typed into the editor
// @Description Nothing is stored. The parsed document comes back with warnings for declared fields of another kind.
// @Tags sections
// @Accept json
// @Produce json
// @Param request body dto.ParseContentRequest true "Raw content"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/sections/parse [post]
func (r *Routers) ParseContent(c echo.Context) error {
	const op = "http.routers.ParseContent"

	log := r.log.With(slog.String("op", op))

	var req dto.ParseContentRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	parsed, err := r.Pages.ParseContent(req.Type, req.Raw)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(parsed))
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}
