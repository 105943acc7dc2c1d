package models

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MaxMenuDepth is the number of levels a menu tree may have: top level items
// and one level of submenu items beneath them.
const MaxMenuDepth = 2

var (
	ErrMenuDepthExceeded = errors.New("menu items may only be nested one level deep")
	ErrParentOtherMenu   = errors.New("parent item belongs to another menu")
	ErrParentIsSelf      = errors.New("menu item cannot be its own parent")
)

type Menu struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type MenuItem struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	MenuID    uuid.UUID  `db:"menu_id" json:"menuId"`
	Name      string     `db:"name" json:"name"`
	URL       string     `db:"url" json:"url"`
	ParentID  *uuid.UUID `db:"parent_id" json:"parentId"`
	SortOrder int        `db:"sort_order" json:"sortOrder"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	Children  []MenuItem `json:"children,omitempty"`
}

// MenuItemPatch holds the optional fields of a menu item update. ClearParent
// moves the item to the top level.
type MenuItemPatch struct {
	Name        *string
	URL         *string
	ParentID    *uuid.UUID
	ClearParent bool
	SortOrder   *int
}

// CheckPlacement validates that item may sit under parent within a tree of
// at most MaxMenuDepth levels. hasChildren reports whether item already has
// submenu items of its own.
func CheckPlacement(item MenuItem, parent *MenuItem, hasChildren bool) error {
	if parent == nil {
		return nil
	}
	if item.ID != uuid.Nil && parent.ID == item.ID {
		return ErrParentIsSelf
	}
	if parent.MenuID != item.MenuID {
		return ErrParentOtherMenu
	}
	if parent.ParentID != nil || hasChildren {
		return ErrMenuDepthExceeded
	}
	return nil
}

// BuildMenuTree groups flat items into top level items with children, both
// levels ordered by SortOrder.
func BuildMenuTree(items []MenuItem) []MenuItem {
	children := make(map[uuid.UUID][]MenuItem)
	var roots []MenuItem

	for _, it := range items {
		if it.ParentID == nil {
			roots = append(roots, it)
			continue
		}
		children[*it.ParentID] = append(children[*it.ParentID], it)
	}

	bySort := func(list []MenuItem) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].SortOrder < list[j].SortOrder })
	}

	bySort(roots)
	for i := range roots {
		kids := children[roots[i].ID]
		bySort(kids)
		roots[i].Children = kids
	}

	return roots
}
