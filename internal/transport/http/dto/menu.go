package dto

import "github.com/google/uuid"

type CreateMenuRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateMenuItemRequest struct {
	MenuID   uuid.UUID  `json:"menuId" validate:"required"`
	Name     string     `json:"name" validate:"required,max=100"`
	URL      string     `json:"url" validate:"required,max=500"`
	ParentID *uuid.UUID `json:"parentId"`
}

type UpdateMenuItemRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	URL         *string    `json:"url" validate:"omitempty,max=500"`
	ParentID    *uuid.UUID `json:"parentId"`
	ClearParent bool       `json:"clearParent"`
	SortOrder   *int       `json:"sortOrder" validate:"omitempty,gte=1"`
}

type MenuOrderRequest struct {
	MenuID   uuid.UUID   `json:"menuId" validate:"required"`
	ParentID *uuid.UUID  `json:"parentId"`
	IDs      []uuid.UUID `json:"ids" validate:"required,min=1"`
}
