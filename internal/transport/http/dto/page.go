package dto

import (
	"github.com/google/uuid"

	"site_cms/internal/domain/models"
)

type CreatePageRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Slug  string `json:"slug" validate:"omitempty,max=200"`
}

type OrderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type CreateSectionRequest struct {
	PageID   uuid.UUID       `json:"pageId" validate:"required"`
	Type     string          `json:"type" validate:"required,max=100"`
	Content  models.Document `json:"content"`
	Order    int             `json:"order" validate:"gte=0"`
	IsActive *bool           `json:"isActive"`
}

type UpdateSectionRequest struct {
	Type     *string         `json:"type" validate:"omitempty,min=1,max=100"`
	Content  models.Document `json:"content"`
	Order    *int            `json:"order" validate:"omitempty,gte=1"`
	IsActive *bool           `json:"isActive"`
}

func (r UpdateSectionRequest) Patch() models.SectionPatch {
	return models.SectionPatch{
		Type:     r.Type,
		Content:  r.Content,
		Order:    r.Order,
		IsActive: r.IsActive,
	}
}

type ArrayItemRequest struct {
	// Path is the dotted location of the array inside the section content.
	Path string `json:"path" validate:"required"`
	Hint string `json:"hint" validate:"omitempty,oneof=string number boolean object"`
}

type ParseContentRequest struct {
	Type string `json:"type"`
	Raw  string `json:"raw" validate:"required"`
}
