package models

import (
	"time"

	"github.com/google/uuid"
)

// Page is a slug addressed container of ordered sections.
type Page struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	Sections  []Section `json:"sections"`
}

// Section is a typed content block placed at a position within a page.
type Section struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PageID    uuid.UUID `db:"page_id" json:"pageId"`
	Type      string    `db:"type" json:"type"`
	Content   Document  `db:"content" json:"content"`
	Order     int       `db:"sort_order" json:"order"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SectionPatch carries the fields of a merge-patch update; nil means keep.
type SectionPatch struct {
	Type     *string
	Content  Document
	Order    *int
	IsActive *bool
}

func (p SectionPatch) Empty() bool {
	return p.Type == nil && p.Content == nil && p.Order == nil && p.IsActive == nil
}

// ActiveSections returns the sections that are switched on, keeping order.
func (p *Page) ActiveSections() []Section {
	out := make([]Section, 0, len(p.Sections))
	for _, s := range p.Sections {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out
}

func SectionPositions(sections []Section) []Ordered {
	out := make([]Ordered, 0, len(sections))
	for _, s := range sections {
		out = append(out, Ordered{ID: s.ID, Order: s.Order})
	}
	return out
}
