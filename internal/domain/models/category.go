package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Slug        string     `db:"slug" json:"slug"`
	Description string     `db:"description" json:"description"`
	ParentID    *uuid.UUID `db:"parent_id" json:"parentId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	Children    []Category `json:"children,omitempty"`
}

// BuildCategoryTree nests children under their parents. Categories whose
// parent is missing from the input are treated as roots.
func BuildCategoryTree(categories []Category) []Category {
	byParent := make(map[uuid.UUID][]Category)
	ids := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		ids[c.ID] = true
	}

	var roots []Category
	for _, c := range categories {
		if c.ParentID != nil && ids[*c.ParentID] {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	for i := range roots {
		roots[i].Children = byParent[roots[i].ID]
	}

	return roots
}
