package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"site_cms/internal/content"
	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/storage"
)

type SectionInput struct {
	PageID   uuid.UUID
	Type     string
	Content  models.Document
	Order    int
	IsActive *bool
}

// CreateSection appends a section to a page. Order 0 places it last.
func (s *PageService) CreateSection(ctx context.Context, in SectionInput) (models.Section, error) {
	const op = "service.PageService.CreateSection"

	log := s.log.With(
		slog.String("op", op),
		slog.String("page_id", in.PageID.String()),
		slog.String("type", in.Type),
	)

	in.Type = strings.TrimSpace(in.Type)
	if in.Type == "" {
		return models.Section{}, fmt.Errorf("%s: %w", op, models.NewValidationError("type", "type is required"))
	}
	if in.Order < 0 {
		return models.Section{}, fmt.Errorf("%s: %w", op, models.NewValidationError("order", "order must be positive"))
	}
	if in.Content == nil {
		in.Content = models.Document{}
	}

	if problems := content.Mismatches(in.Type, in.Content); len(problems) > 0 {
		log.Warn("content does not match variant, stored as submitted", slog.Any("fields", problems))
	}

	if _, err := s.pages.PageByID(ctx, in.PageID); err != nil {
		return models.Section{}, fmt.Errorf("%s: page: %w", op, err)
	}

	if in.Order == 0 {
		count, err := s.sections.CountSections(ctx, in.PageID)
		if err != nil {
			log.Error("failed to count sections", sl.Err(err))
			return models.Section{}, fmt.Errorf("%s: %w", op, err)
		}
		in.Order = count + 1
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	section, err := s.sections.CreateSection(ctx, models.Section{
		PageID:   in.PageID,
		Type:     in.Type,
		Content:  in.Content,
		Order:    in.Order,
		IsActive: active,
	})
	if err != nil {
		log.Error("failed to create section", sl.Err(err))
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("section created", slog.String("id", section.ID.String()), slog.Int("order", section.Order))
	return section, nil
}

// UpdateSection merges the provided fields into the section. Content that
// disagrees with the variant of the resulting type is logged and kept.
func (s *PageService) UpdateSection(ctx context.Context, id uuid.UUID, patch models.SectionPatch) (models.Section, error) {
	const op = "service.PageService.UpdateSection"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	current, err := s.sections.SectionByID(ctx, id)
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Type != nil {
		t := strings.TrimSpace(*patch.Type)
		if t == "" {
			return models.Section{}, fmt.Errorf("%s: %w", op, models.NewValidationError("type", "type must not be empty"))
		}
		patch.Type = &t
	}
	if patch.Order != nil && *patch.Order < 1 {
		return models.Section{}, fmt.Errorf("%s: %w", op, models.NewValidationError("order", "order must be positive"))
	}

	if patch.Type != nil || patch.Content != nil {
		typ, doc := current.Type, current.Content
		if patch.Type != nil {
			typ = *patch.Type
		}
		if patch.Content != nil {
			doc = patch.Content
		}
		if problems := content.Mismatches(typ, doc); len(problems) > 0 {
			log.Warn("content does not match variant, stored as submitted", slog.Any("fields", problems))
		}
	}

	updated, err := s.sections.UpdateSection(ctx, id, patch)
	if err != nil {
		log.Error("failed to update section", sl.Err(err))
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("section updated")
	return updated, nil
}

// DeleteSection removes a section and closes the gap in its page's order.
func (s *PageService) DeleteSection(ctx context.Context, id uuid.UUID) (models.Section, error) {
	const op = "service.PageService.DeleteSection"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	deleted, err := s.sections.DeleteSection(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("failed to delete section", sl.Err(err))
		}
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("section deleted", slog.String("page_id", deleted.PageID.String()))
	return deleted, nil
}

// SectionForm describes the editor fields of a stored section.
func (s *PageService) SectionForm(ctx context.Context, id uuid.UUID) (content.Form, error) {
	const op = "service.PageService.SectionForm"

	section, err := s.sections.SectionByID(ctx, id)
	if err != nil {
		return content.Form{}, fmt.Errorf("%s: %w", op, err)
	}

	return content.BuildForm(section.Type, section.Content), nil
}

// NewArrayItem returns the blank item an editor appends to the array at
// path inside the section's content.
func (s *PageService) NewArrayItem(ctx context.Context, id uuid.UUID, path string, hint content.Hint) (any, error) {
	const op = "service.PageService.NewArrayItem"

	section, err := s.sections.SectionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc := content.WithDeclaredFields(section.Type, section.Content)

	arr, err := content.ArrayAt(doc, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError("path", err.Error()))
	}

	item, err := content.NewArrayItem(arr, hint)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError("hint", err.Error()))
	}

	return item, nil
}

// ParsedContent is hand edited JSON checked against a variant. Warnings name
// declared fields whose value has another kind; they never block a save.
type ParsedContent struct {
	Content  models.Document   `json:"content"`
	Warnings map[string]string `json:"warnings,omitempty"`
}

// ParseContent parses hand edited JSON and compares it with the variant of
// sectionType. Nothing is stored.
func (s *PageService) ParseContent(sectionType, raw string) (ParsedContent, error) {
	const op = "service.PageService.ParseContent"

	doc, err := content.ParseRaw(raw)
	if err != nil {
		return ParsedContent{}, fmt.Errorf("%s: %w", op, models.NewValidationError("content", err.Error()))
	}

	return ParsedContent{Content: doc, Warnings: content.Mismatches(sectionType, doc)}, nil
}
