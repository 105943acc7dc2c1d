package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
)

// MenuService serves menu trees from an in-process cache keyed by menu id.
// Every write to a menu drops its cached tree.
type MenuService struct {
	log   *slog.Logger
	menus repository.MenuRepository
	trees *cache.Cache
}

func NewMenuService(log *slog.Logger, menus repository.MenuRepository, ttl time.Duration) *MenuService {
	return &MenuService{
		log:   log,
		menus: menus,
		trees: cache.New(ttl, 2*ttl),
	}
}

type MenuItemInput struct {
	MenuID   uuid.UUID
	Name     string
	URL      string
	ParentID *uuid.UUID
}

func treeKey(menuID uuid.UUID) string {
	return "menu:" + menuID.String()
}

func (s *MenuService) CreateMenu(ctx context.Context, name string) (models.Menu, error) {
	const op = "service.MenuService.CreateMenu"

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Menu{}, fmt.Errorf("%s: %w", op, models.NewValidationError("name", "name is required"))
	}

	menu, err := s.menus.CreateMenu(ctx, name)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			s.log.Error("failed to create menu", slog.String("op", op), sl.Err(err))
		}
		return models.Menu{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("menu created", slog.String("op", op), slog.String("name", name))
	return menu, nil
}

func (s *MenuService) ListMenus(ctx context.Context) ([]models.Menu, error) {
	const op = "service.MenuService.ListMenus"

	menus, err := s.menus.ListMenus(ctx)
	if err != nil {
		s.log.Error("failed to list menus", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	return menus, nil
}

func (s *MenuService) DeleteMenu(ctx context.Context, id uuid.UUID) (models.Menu, error) {
	const op = "service.MenuService.DeleteMenu"

	menu, err := s.menus.DeleteMenu(ctx, id)
	if err != nil {
		return models.Menu{}, fmt.Errorf("%s: %w", op, err)
	}
	s.trees.Delete(treeKey(id))

	s.log.Info("menu deleted", slog.String("op", op), slog.String("name", menu.Name))
	return menu, nil
}

// Tree returns the items of a menu as top level items with their children.
func (s *MenuService) Tree(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error) {
	const op = "service.MenuService.Tree"

	if cached, ok := s.trees.Get(treeKey(menuID)); ok {
		return cloneTree(cached.([]models.MenuItem)), nil
	}

	if _, err := s.menus.MenuByID(ctx, menuID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.menus.MenuItems(ctx, menuID)
	if err != nil {
		s.log.Error("failed to load menu items", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tree := models.BuildMenuTree(items)
	if tree == nil {
		tree = []models.MenuItem{}
	}
	s.trees.Set(treeKey(menuID), tree, cache.DefaultExpiration)

	return cloneTree(tree), nil
}

// cloneTree deep copies items so callers never share memory with the cache.
func cloneTree(items []models.MenuItem) []models.MenuItem {
	if items == nil {
		return nil
	}

	out := make([]models.MenuItem, len(items))
	for i, item := range items {
		if item.ParentID != nil {
			parent := *item.ParentID
			item.ParentID = &parent
		}
		item.Children = cloneTree(item.Children)
		out[i] = item
	}
	return out
}

func (s *MenuService) TreeByName(ctx context.Context, name string) ([]models.MenuItem, error) {
	const op = "service.MenuService.TreeByName"

	menu, err := s.menus.MenuByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.Tree(ctx, menu.ID)
}

func (s *MenuService) CreateItem(ctx context.Context, in MenuItemInput) (models.MenuItem, error) {
	const op = "service.MenuService.CreateItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("menu_id", in.MenuID.String()),
	)

	problems := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		problems["name"] = "name is required"
	}
	if strings.TrimSpace(in.URL) == "" {
		problems["url"] = "url is required"
	}
	if in.MenuID == uuid.Nil {
		problems["menuId"] = "menuId is required"
	}
	if len(problems) > 0 {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, &models.ValidationError{Fields: problems})
	}

	if _, err := s.menus.MenuByID(ctx, in.MenuID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.MenuItem{}, fmt.Errorf("%s: %w", op, models.NewValidationError("menuId", "menu does not exist"))
		}
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	item := models.MenuItem{
		MenuID:   in.MenuID,
		Name:     strings.TrimSpace(in.Name),
		URL:      strings.TrimSpace(in.URL),
		ParentID: in.ParentID,
	}
	if err := s.checkPlacement(ctx, item, false); err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.menus.CreateMenuItem(ctx, item)
	if err != nil {
		log.Error("failed to create menu item", sl.Err(err))
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	s.trees.Delete(treeKey(in.MenuID))

	log.Info("menu item created", slog.String("id", created.ID.String()))
	return created, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, id uuid.UUID, patch models.MenuItemPatch) (models.MenuItem, error) {
	const op = "service.MenuService.UpdateItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	item, err := s.menus.MenuItemByID(ctx, id)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return models.MenuItem{}, fmt.Errorf("%s: %w", op, models.NewValidationError("name", "name must not be empty"))
		}
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.URL != nil {
		item.URL = strings.TrimSpace(*patch.URL)
	}
	if patch.SortOrder != nil {
		item.SortOrder = *patch.SortOrder
	}

	reparent := false
	switch {
	case patch.ClearParent:
		item.ParentID = nil
	case patch.ParentID != nil:
		reparent = item.ParentID == nil || *item.ParentID != *patch.ParentID
		item.ParentID = patch.ParentID
	}

	if reparent {
		hasChildren, err := s.menus.HasChildren(ctx, id)
		if err != nil {
			log.Error("failed to check children", sl.Err(err))
			return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.checkPlacement(ctx, item, hasChildren); err != nil {
			return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	updated, err := s.menus.UpdateMenuItem(ctx, item)
	if err != nil {
		log.Error("failed to update menu item", sl.Err(err))
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	s.trees.Delete(treeKey(item.MenuID))

	log.Info("menu item updated")
	return updated, nil
}

// DeleteItem removes the item and its children.
func (s *MenuService) DeleteItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error) {
	const op = "service.MenuService.DeleteItem"

	deleted, err := s.menus.DeleteMenuItem(ctx, id)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}
	s.trees.Delete(treeKey(deleted.MenuID))

	s.log.Info("menu item deleted", slog.String("op", op), slog.String("id", id.String()))
	return deleted, nil
}

// ReorderItems applies a full sibling order under parentID (nil for the top
// level) in one transaction.
func (s *MenuService) ReorderItems(ctx context.Context, menuID uuid.UUID, parentID *uuid.UUID, ids []uuid.UUID) error {
	const op = "service.MenuService.ReorderItems"

	if len(ids) == 0 {
		return fmt.Errorf("%s: %w", op, models.NewValidationError("ids", "ids must not be empty"))
	}

	if err := s.menus.ReorderMenuItems(ctx, menuID, parentID, ids); err != nil {
		if !errors.Is(err, models.ErrOrderMismatch) {
			s.log.Error("failed to reorder menu items", slog.String("op", op), sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.trees.Delete(treeKey(menuID))

	return nil
}

func (s *MenuService) checkPlacement(ctx context.Context, item models.MenuItem, hasChildren bool) error {
	if item.ParentID == nil {
		return nil
	}

	parent, err := s.menus.MenuItemByID(ctx, *item.ParentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.NewValidationError("parentId", "parent item does not exist")
		}
		return err
	}

	if err := models.CheckPlacement(item, &parent, hasChildren); err != nil {
		return models.NewValidationError("parentId", err.Error())
	}
	return nil
}
