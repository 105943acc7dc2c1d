package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"site_cms/internal/middleware"
	categorysvc "site_cms/internal/services/category_service"
	"site_cms/internal/transport/http/dto"
)

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param tree query bool false "Nest subcategories under their parents"
// @Success 200 {array} models.Category
// @Router /api/categories [get]
func (r *Routers) ListCategories(c echo.Context) error {
	const op = "http.routers.ListCategories"

	tree, _ := strconv.ParseBool(c.QueryParam("tree"))

	categories, err := r.Categories.ListCategories(c.Request().Context(), tree)
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Description A taken slug gets the smallest free numeric suffix. Subcategories are created beneath it.
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/categories [post]
func (r *Routers) CreateCategory(c echo.Context) error {
	const op = "http.routers.CreateCategory"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	category, err := r.Categories.CreateCategory(c.Request().Context(), categoryInput(req))
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, category.ID, category.Name)
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category id" format(uuid)
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} models.Category
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/categories/{id} [put]
func (r *Routers) UpdateCategory(c echo.Context) error {
	const op = "http.routers.UpdateCategory"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.UpdateCategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	category, err := r.Categories.UpdateCategory(c.Request().Context(), id, categorysvc.CategoryPatch{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, category.ID, category.Name)
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Categories still used by posts cannot be deleted.
// @Tags categories
// @Produce json
// @Param id path string true "Category id" format(uuid)
// @Success 200 {object} models.Category
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "In use"
// @Security ApiKeyAuth
// @Router /api/categories/{id} [delete]
func (r *Routers) DeleteCategory(c echo.Context) error {
	const op = "http.routers.DeleteCategory"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	category, err := r.Categories.DeleteCategory(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, category.ID, category.Name)
	return c.JSON(http.StatusOK, category)
}

func categoryInput(req dto.CreateCategoryRequest) categorysvc.CategoryInput {
	in := categorysvc.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	for _, sub := range req.Subcategories {
		in.Subcategories = append(in.Subcategories, categorysvc.CategoryInput{
			Name:        sub.Name,
			Slug:        sub.Slug,
			Description: sub.Description,
		})
	}
	return in
}
