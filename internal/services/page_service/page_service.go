package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/lib/slug"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
)

type PageService struct {
	log      *slog.Logger
	pages    repository.PageRepository
	sections repository.SectionRepository
}

func NewPageService(log *slog.Logger, pages repository.PageRepository, sections repository.SectionRepository) *PageService {
	return &PageService{
		log:      log,
		pages:    pages,
		sections: sections,
	}
}

// CreatePage stores a page. An empty slug is derived from the title.
func (s *PageService) CreatePage(ctx context.Context, title, pageSlug string) (models.Page, error) {
	const op = "service.PageService.CreatePage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", pageSlug),
	)

	title = strings.TrimSpace(title)
	if title == "" {
		return models.Page{}, fmt.Errorf("%s: %w", op, models.NewValidationError("title", "title is required"))
	}

	if pageSlug == "" {
		pageSlug = slug.Generate(title)
	}
	if pageSlug == "" || slug.Generate(pageSlug) != pageSlug {
		return models.Page{}, fmt.Errorf("%s: %w", op, models.NewValidationError("slug", "slug may only contain lower case letters, digits and dashes"))
	}

	page, err := s.pages.CreatePage(ctx, models.Page{Title: title, Slug: pageSlug})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Warn("page slug taken")
		} else {
			log.Error("failed to create page", sl.Err(err))
		}
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("page created", slog.String("id", page.ID.String()))
	return page, nil
}

func (s *PageService) ListPages(ctx context.Context) ([]models.Page, error) {
	const op = "service.PageService.ListPages"

	pages, err := s.pages.ListPages(ctx)
	if err != nil {
		s.log.Error("failed to list pages", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pages, nil
}

// GetPage returns the page with its sections in display order. With
// activeOnly only switched on sections are included.
func (s *PageService) GetPage(ctx context.Context, pageSlug string, activeOnly bool) (models.Page, error) {
	const op = "service.PageService.GetPage"

	page, err := s.pages.PageBySlug(ctx, pageSlug)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	sections, err := s.sections.SectionsByPage(ctx, page.ID)
	if err != nil {
		s.log.Error("failed to load sections", slog.String("op", op), sl.Err(err))
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	page.Sections = sections

	if activeOnly {
		page.Sections = page.ActiveSections()
	}

	return page, nil
}

func (s *PageService) DeletePage(ctx context.Context, pageSlug string) (models.Page, error) {
	const op = "service.PageService.DeletePage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", pageSlug),
	)

	page, err := s.pages.DeletePage(ctx, pageSlug)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("failed to delete page", sl.Err(err))
		}
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("page deleted")
	return page, nil
}

// ReorderSections applies a complete new order of a page's sections.
func (s *PageService) ReorderSections(ctx context.Context, pageSlug string, ids []uuid.UUID) (models.Page, error) {
	const op = "service.PageService.ReorderSections"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", pageSlug),
	)

	page, err := s.pages.PageBySlug(ctx, pageSlug)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sections.ReorderSections(ctx, page.ID, ids); err != nil {
		if errors.Is(err, models.ErrOrderMismatch) {
			log.Warn("reorder rejected", sl.Err(err))
		} else {
			log.Error("failed to reorder sections", sl.Err(err))
		}
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("sections reordered", slog.Int("count", len(ids)))

	return s.GetPage(ctx, pageSlug, false)
}
