package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	"site_cms/internal/middleware"
	menusvc "site_cms/internal/services/menu_service"
	"site_cms/internal/transport/http/dto"
	"site_cms/internal/transport/http/dto/response"
)

// ListMenus godoc
// @Summary List menus
// @Tags menus
// @Produce json
// @Success 200 {array} models.Menu
// @Router /api/menus [get]
func (r *Routers) ListMenus(c echo.Context) error {
	const op = "http.routers.ListMenus"

	menus, err := r.Menus.ListMenus(c.Request().Context())
	if err != nil {
		return fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, menus)
}

// CreateMenu godoc
// @Summary Create a menu
// @Tags menus
// @Accept json
// @Produce json
// @Param request body dto.CreateMenuRequest true "Menu"
// @Success 201 {object} models.Menu
// @Failure 409 {object} response.ErrorResponse "Name taken"
// @Security ApiKeyAuth
// @Router /api/menus [post]
func (r *Routers) CreateMenu(c echo.Context) error {
	const op = "http.routers.CreateMenu"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateMenuRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	menu, err := r.Menus.CreateMenu(c.Request().Context(), req.Name)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, menu.ID, menu.Name)
	return c.JSON(http.StatusCreated, menu)
}

// DeleteMenu godoc
// @Summary Delete a menu with its items
// @Tags menus
// @Produce json
// @Param id path string true "Menu id" format(uuid)
// @Success 200 {object} models.Menu
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/menus/{id} [delete]
func (r *Routers) DeleteMenu(c echo.Context) error {
	const op = "http.routers.DeleteMenu"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	menu, err := r.Menus.DeleteMenu(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, menu.ID, menu.Name)
	return c.JSON(http.StatusOK, menu)
}

// MenuTree godoc
// @Summary Items of a menu as a two level tree
// @Tags menus
// @Produce json
// @Param menuId query string false "Menu id" format(uuid)
// @Param menu query string false "Menu name"
// @Success 200 {array} models.MenuItem
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/menu-items [get]
func (r *Routers) MenuTree(c echo.Context) error {
	const op = "http.routers.MenuTree"

	log := r.log.With(slog.String("op", op))

	var (
		items []models.MenuItem
		err   error
	)

	switch {
	case c.QueryParam("menuId") != "":
		id, perr := uuid.Parse(c.QueryParam("menuId"))
		if perr != nil {
			return fail(c, log, models.NewValidationError("menuId", "menuId must be a UUID"))
		}
		items, err = r.Menus.Tree(c.Request().Context(), id)
	case c.QueryParam("menu") != "":
		items, err = r.Menus.TreeByName(c.Request().Context(), c.QueryParam("menu"))
	default:
		return fail(c, log, models.NewValidationError("menuId", "menuId or menu is required"))
	}
	if err != nil {
		return fail(c, log, err)
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	return c.JSON(http.StatusOK, items)
}

// CreateMenuItem godoc
// @Summary Add an item to a menu
// @Description Items may nest one level deep. New items go last among their siblings.
// @Tags menus
// @Accept json
// @Produce json
// @Param request body dto.CreateMenuItemRequest true "Menu item"
// @Success 201 {object} models.MenuItem
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/menu-items [post]
func (r *Routers) CreateMenuItem(c echo.Context) error {
	const op = "http.routers.CreateMenuItem"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateMenuItemRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	item, err := r.Menus.CreateItem(c.Request().Context(), menusvc.MenuItemInput{
		MenuID:   req.MenuID,
		Name:     req.Name,
		URL:      req.URL,
		ParentID: req.ParentID,
	})
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, item.ID, item.Name)
	return c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem godoc
// @Summary Update a menu item
// @Tags menus
// @Accept json
// @Produce json
// @Param id path string true "Menu item id" format(uuid)
// @Param request body dto.UpdateMenuItemRequest true "Fields to change"
// @Success 200 {object} models.MenuItem
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/menu-items/{id} [put]
func (r *Routers) UpdateMenuItem(c echo.Context) error {
	const op = "http.routers.UpdateMenuItem"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.UpdateMenuItemRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	item, err := r.Menus.UpdateItem(c.Request().Context(), id, models.MenuItemPatch{
		Name:        req.Name,
		URL:         req.URL,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, item.ID, item.Name)
	return c.JSON(http.StatusOK, item)
}

// DeleteMenuItem godoc
// @Summary Delete a menu item and its children
// @Tags menus
// @Produce json
// @Param id path string true "Menu item id" format(uuid)
// @Success 200 {object} models.MenuItem
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/menu-items/{id} [delete]
func (r *Routers) DeleteMenuItem(c echo.Context) error {
	const op = "http.routers.DeleteMenuItem"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	item, err := r.Menus.DeleteItem(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, item.ID, item.Name)
	return c.JSON(http.StatusOK, item)
}

// ReorderMenuItems godoc
// @Summary Reorder the siblings under one parent
// @Description ids must list every item under parentId (or every top level item) exactly once.
// @Tags menus
// @Accept json
// @Produce json
// @Param request body dto.MenuOrderRequest true "Item ids in the new order"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/menu-items/order [put]
func (r *Routers) ReorderMenuItems(c echo.Context) error {
	const op = "http.routers.ReorderMenuItems"

	log := r.log.With(slog.String("op", op))

	var req dto.MenuOrderRequest
	if err := bind(c, &req); err != nil {
		return fail(c, log, err)
	}

	if err := r.Menus.ReorderItems(c.Request().Context(), req.MenuID, req.ParentID, req.IDs); err != nil {
		return fail(c, log, err)
	}

	middleware.AuditSubject(c, req.MenuID, "menu order")
	return c.JSON(http.StatusOK, response.Message("menu items reordered"))
}
