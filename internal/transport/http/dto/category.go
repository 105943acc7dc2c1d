package dto

import "github.com/google/uuid"

type CreateCategoryRequest struct {
	Name          string                     `json:"name" validate:"required,max=100"`
	Slug          string                     `json:"slug" validate:"required,max=100"`
	Description   string                     `json:"description"`
	ParentID      *uuid.UUID                 `json:"parentId"`
	Subcategories []CreateSubcategoryRequest `json:"subcategories" validate:"omitempty,dive"`
}

// CreateSubcategoryRequest is an inline child of CreateCategoryRequest. An
// empty slug is derived from the name.
type CreateSubcategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string    `json:"slug" validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	ClearParent bool       `json:"clearParent"`
}
