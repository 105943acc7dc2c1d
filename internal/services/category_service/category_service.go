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

type CategoryService struct {
	log        *slog.Logger
	categories repository.CategoryRepository
}

func NewCategoryService(log *slog.Logger, categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		log:        log,
		categories: categories,
	}
}

type CategoryInput struct {
	Name          string
	Slug          string
	Description   string
	ParentID      *uuid.UUID
	Subcategories []CategoryInput
}

type CategoryPatch struct {
	Name        *string
	Slug        *string
	Description *string
	ParentID    *uuid.UUID
	ClearParent bool
}

// CreateCategory stores a category under the smallest free slug and then its
// inline subcategories beneath it. The slug is required; a subcategory without
// one gets a slug derived from its name. The returned category carries the created
// children.
func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	const op = "service.CategoryService.CreateCategory"

	log := s.log.With(
		slog.String("op", op),
		slog.String("name", in.Name),
	)

	if err := validateInput(in); err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	if in.ParentID != nil {
		if err := s.checkParent(ctx, *in.ParentID, uuid.Nil); err != nil {
			return models.Category{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if in.ParentID != nil && len(in.Subcategories) > 0 {
		return models.Category{}, fmt.Errorf("%s: %w", op,
			models.NewValidationError("subcategories", "a subcategory cannot have subcategories"))
	}

	created, err := s.create(ctx, in, in.ParentID)
	if err != nil {
		log.Error("failed to create category", sl.Err(err))
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, sub := range in.Subcategories {
		child, err := s.create(ctx, sub, &created.ID)
		if err != nil {
			log.Error("failed to create subcategory", slog.String("subcategory", sub.Name), sl.Err(err))
			return models.Category{}, fmt.Errorf("%s: %w", op, err)
		}
		created.Children = append(created.Children, child)
	}

	log.Info("category created", slog.String("slug", created.Slug), slog.Int("subcategories", len(created.Children)))
	return created, nil
}

func (s *CategoryService) create(ctx context.Context, in CategoryInput, parentID *uuid.UUID) (models.Category, error) {
	base := in.Slug
	if base == "" {
		base = slug.Generate(in.Name)
	}

	taken, err := s.categories.SlugsWithPrefix(ctx, base)
	if err != nil {
		return models.Category{}, err
	}

	return s.categories.CreateCategory(ctx, models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug.NextAvailable(base, taken),
		Description: in.Description,
		ParentID:    parentID,
	})
}

// ListCategories returns categories flat, or nested one level when tree is set.
func (s *CategoryService) ListCategories(ctx context.Context, tree bool) ([]models.Category, error) {
	const op = "service.CategoryService.ListCategories"

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	if tree {
		roots := models.BuildCategoryTree(categories)
		if roots == nil {
			roots = []models.Category{}
		}
		return roots, nil
	}

	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, patch CategoryPatch) (models.Category, error) {
	const op = "service.CategoryService.UpdateCategory"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	category, err := s.categories.CategoryByID(ctx, id)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return models.Category{}, fmt.Errorf("%s: %w", op, models.NewValidationError("name", "name must not be empty"))
		}
		category.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Slug != nil {
		if *patch.Slug == "" || slug.Generate(*patch.Slug) != *patch.Slug {
			return models.Category{}, fmt.Errorf("%s: %w", op,
				models.NewValidationError("slug", "slug may only contain lower case letters, digits and dashes"))
		}
		category.Slug = *patch.Slug
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}

	switch {
	case patch.ClearParent:
		category.ParentID = nil
	case patch.ParentID != nil:
		if err := s.checkParent(ctx, *patch.ParentID, id); err != nil {
			return models.Category{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.checkNoChildren(ctx, id); err != nil {
			return models.Category{}, fmt.Errorf("%s: %w", op, err)
		}
		category.ParentID = patch.ParentID
	}

	updated, err := s.categories.UpdateCategory(ctx, category)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			log.Error("failed to update category", sl.Err(err))
		}
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("category updated")
	return updated, nil
}

// DeleteCategory fails with storage.ErrInUse while posts still reference the
// category. Subcategories are promoted to the top level.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) (models.Category, error) {
	const op = "service.CategoryService.DeleteCategory"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	deleted, err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case errors.Is(err, storage.ErrInUse):
			log.Warn("category still has posts")
		default:
			log.Error("failed to delete category", sl.Err(err))
		}
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("category deleted")
	return deleted, nil
}

func validateInput(in CategoryInput) error {
	problems := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		problems["name"] = "name is required"
	}
	switch {
	case strings.TrimSpace(in.Slug) == "":
		problems["slug"] = "slug is required"
	case slug.Generate(in.Slug) != in.Slug:
		problems["slug"] = "slug may only contain lower case letters, digits and dashes"
	}
	for i, sub := range in.Subcategories {
		if strings.TrimSpace(sub.Name) == "" {
			problems[fmt.Sprintf("subcategories[%d].name", i)] = "name is required"
		}
		if sub.Slug != "" && slug.Generate(sub.Slug) != sub.Slug {
			problems[fmt.Sprintf("subcategories[%d].slug", i)] = "slug may only contain lower case letters, digits and dashes"
		}
		if sub.Slug == "" && slug.Generate(sub.Name) == "" {
			problems[fmt.Sprintf("subcategories[%d].slug", i)] = "slug is required"
		}
		if len(sub.Subcategories) > 0 {
			problems[fmt.Sprintf("subcategories[%d].subcategories", i)] = "a subcategory cannot have subcategories"
		}
	}
	if len(problems) > 0 {
		return &models.ValidationError{Fields: problems}
	}
	return nil
}

// checkParent enforces one level of nesting: the parent must exist, be top
// level and differ from self.
func (s *CategoryService) checkParent(ctx context.Context, parentID, self uuid.UUID) error {
	if parentID == self {
		return models.NewValidationError("parentId", "category cannot be its own parent")
	}

	parent, err := s.categories.CategoryByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.NewValidationError("parentId", "parent category does not exist")
		}
		return err
	}
	if parent.ParentID != nil {
		return models.NewValidationError("parentId", "parent category must be a top level category")
	}

	return nil
}

func (s *CategoryService) checkNoChildren(ctx context.Context, id uuid.UUID) error {
	all, err := s.categories.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == id {
			return models.NewValidationError("parentId", "a category with subcategories cannot become a subcategory")
		}
	}
	return nil
}
