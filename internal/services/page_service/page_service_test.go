package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"site_cms/internal/content"
	"site_cms/internal/domain/models"
	"site_cms/internal/storage"
)

func TestPageService_CreatePage(t *testing.T) {
	ctx := context.Background()

	t.Run("slug derived from title", func(t *testing.T) {
		svc, pages, _ := newTestService()
		pages.On("CreatePage", ctx, models.Page{Title: "About Us", Slug: "about-us"}).
			Return(models.Page{ID: uuid.New(), Title: "About Us", Slug: "about-us"}, nil).Once()

		page, err := svc.CreatePage(ctx, "About Us", "")
		require.NoError(t, err)
		assert.Equal(t, "about-us", page.Slug)
		pages.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		svc, pages, _ := newTestService()

		_, err := svc.CreatePage(ctx, "  ", "home")
		var vErr *models.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "title")

		_, err = svc.CreatePage(ctx, "Home", "Not A Slug")
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "slug")

		pages.AssertNotCalled(t, "CreatePage", mock.Anything, mock.Anything)
	})

	t.Run("conflict", func(t *testing.T) {
		svc, pages, _ := newTestService()
		pages.On("CreatePage", ctx, mock.Anything).Return(models.Page{}, storage.ErrConflict).Once()

		_, err := svc.CreatePage(ctx, "Home", "home")
		assert.ErrorIs(t, err, storage.ErrConflict)
	})
}

func TestPageService_GetPage(t *testing.T) {
	ctx := context.Background()
	page := models.Page{ID: uuid.New(), Title: "Home", Slug: "home"}
	sections := []models.Section{
		{ID: uuid.New(), PageID: page.ID, Type: "hero", Order: 1, IsActive: true},
		{ID: uuid.New(), PageID: page.ID, Type: "about", Order: 2, IsActive: false},
		{ID: uuid.New(), PageID: page.ID, Type: "contact", Order: 3, IsActive: true},
	}

	svc, pages, secs := newTestService()
	pages.On("PageBySlug", ctx, "home").Return(page, nil)
	secs.On("SectionsByPage", ctx, page.ID).Return(sections, nil)

	all, err := svc.GetPage(ctx, "home", false)
	require.NoError(t, err)
	assert.Len(t, all.Sections, 3)

	active, err := svc.GetPage(ctx, "home", true)
	require.NoError(t, err)
	require.Len(t, active.Sections, 2)
	assert.Equal(t, "contact", active.Sections[1].Type)

	pages.On("PageBySlug", ctx, "missing").Return(models.Page{}, storage.ErrNotFound)
	_, err = svc.GetPage(ctx, "missing", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPageService_ReorderSections(t *testing.T) {
	ctx := context.Background()
	page := models.Page{ID: uuid.New(), Slug: "home"}
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("mismatch", func(t *testing.T) {
		svc, pages, secs := newTestService()
		pages.On("PageBySlug", ctx, "home").Return(page, nil)
		secs.On("ReorderSections", ctx, page.ID, ids).Return(models.ErrOrderMismatch).Once()

		_, err := svc.ReorderSections(ctx, "home", ids)
		assert.ErrorIs(t, err, models.ErrOrderMismatch)
		secs.AssertNotCalled(t, "SectionsByPage", mock.Anything, mock.Anything)
	})

	t.Run("success returns page", func(t *testing.T) {
		svc, pages, secs := newTestService()
		pages.On("PageBySlug", ctx, "home").Return(page, nil)
		secs.On("ReorderSections", ctx, page.ID, ids).Return(nil).Once()
		secs.On("SectionsByPage", ctx, page.ID).Return([]models.Section{{ID: ids[0], Order: 1}, {ID: ids[1], Order: 2}}, nil).Once()

		got, err := svc.ReorderSections(ctx, "home", ids)
		require.NoError(t, err)
		assert.Len(t, got.Sections, 2)
	})
}

func TestPageService_CreateSection(t *testing.T) {
	ctx := context.Background()
	pageID := uuid.New()

	t.Run("order defaults to last", func(t *testing.T) {
		svc, pages, secs := newTestService()
		pages.On("PageByID", ctx, pageID).Return(models.Page{ID: pageID}, nil)
		secs.On("CountSections", ctx, pageID).Return(2, nil)
		secs.On("CreateSection", ctx, mock.MatchedBy(func(s models.Section) bool {
			return s.Order == 3 && s.IsActive && s.Type == "hero" && s.Content["title"] == "X"
		})).Return(models.Section{ID: uuid.New(), Order: 3}, nil).Once()

		s, err := svc.CreateSection(ctx, SectionInput{PageID: pageID, Type: "hero", Content: models.Document{"title": "X"}})
		require.NoError(t, err)
		assert.Equal(t, 3, s.Order)
		secs.AssertExpectations(t)
	})

	t.Run("unknown page", func(t *testing.T) {
		svc, pages, secs := newTestService()
		pages.On("PageByID", ctx, pageID).Return(models.Page{}, storage.ErrNotFound)

		_, err := svc.CreateSection(ctx, SectionInput{PageID: pageID, Type: "hero"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		secs.AssertNotCalled(t, "CreateSection", mock.Anything, mock.Anything)
	})

	t.Run("off-variant content stored as submitted", func(t *testing.T) {
		svc, pages, secs := newTestService()
		title := map[string]any{"th": "สวัสดี", "en": "Hello"}
		pages.On("PageByID", ctx, pageID).Return(models.Page{ID: pageID}, nil)
		secs.On("CreateSection", ctx, mock.MatchedBy(func(s models.Section) bool {
			return assert.ObjectsAreEqual(models.Document{"title": title}, s.Content)
		})).Return(models.Section{ID: uuid.New(), Type: "hero", Content: models.Document{"title": title}}, nil).Once()

		s, err := svc.CreateSection(ctx, SectionInput{PageID: pageID, Type: "hero", Order: 1, Content: models.Document{"title": title}})
		require.NoError(t, err)
		assert.Equal(t, title, s.Content["title"])
		secs.AssertExpectations(t)
	})

	t.Run("missing type", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateSection(ctx, SectionInput{PageID: pageID})
		var vErr *models.ValidationError
		assert.True(t, errors.As(err, &vErr))
	})

	t.Run("explicit inactive and order", func(t *testing.T) {
		svc, pages, secs := newTestService()
		off := false
		pages.On("PageByID", ctx, pageID).Return(models.Page{ID: pageID}, nil)
		secs.On("CreateSection", ctx, mock.MatchedBy(func(s models.Section) bool {
			return s.Order == 1 && !s.IsActive
		})).Return(models.Section{}, nil).Once()

		_, err := svc.CreateSection(ctx, SectionInput{PageID: pageID, Type: "timeline", Order: 1, IsActive: &off})
		require.NoError(t, err)
		secs.AssertNotCalled(t, "CountSections", mock.Anything, mock.Anything)
	})
}

func TestPageService_UpdateSection(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	current := models.Section{ID: id, Type: "hero", Content: models.Document{"title": "Old"}}

	t.Run("content replaced", func(t *testing.T) {
		svc, _, secs := newTestService()
		patch := models.SectionPatch{Content: models.Document{"title": "New"}}
		secs.On("SectionByID", ctx, id).Return(current, nil)
		secs.On("UpdateSection", ctx, id, patch).Return(models.Section{ID: id, Type: "hero", Content: patch.Content}, nil).Once()

		got, err := svc.UpdateSection(ctx, id, patch)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Content["title"])
	})

	t.Run("type change keeps off-variant content", func(t *testing.T) {
		svc, _, secs := newTestService()
		typ := "services"
		stored := models.Document{"items": "nope"}
		patch := models.SectionPatch{Type: &typ}
		secs.On("SectionByID", ctx, id).Return(models.Section{ID: id, Type: "generic", Content: stored}, nil)
		secs.On("UpdateSection", ctx, id, patch).Return(models.Section{ID: id, Type: typ, Content: stored}, nil).Once()

		got, err := svc.UpdateSection(ctx, id, patch)
		require.NoError(t, err)
		assert.Equal(t, "nope", got.Content["items"])
	})

	t.Run("missing section", func(t *testing.T) {
		svc, _, secs := newTestService()
		secs.On("SectionByID", ctx, id).Return(models.Section{}, storage.ErrNotFound)

		_, err := svc.UpdateSection(ctx, id, models.SectionPatch{})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestPageService_EditorHelpers(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	section := models.Section{ID: id, Type: "services", Content: models.Document{
		"items": []any{map[string]any{"icon": "bolt", "title": "Fast"}},
		"tags":  []any{},
	}}

	svc, _, secs := newTestService()
	secs.On("SectionByID", ctx, id).Return(section, nil)

	form, err := svc.SectionForm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "services", form.Variant)

	item, err := svc.NewArrayItem(ctx, id, "items", content.HintNone)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"icon": "", "title": ""}, item)

	_, err = svc.NewArrayItem(ctx, id, "tags", content.HintNone)
	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))

	item, err = svc.NewArrayItem(ctx, id, "tags", content.HintString)
	require.NoError(t, err)
	assert.Equal(t, "", item)

	_, err = svc.ParseContent("hero", `{"title":`)
	assert.True(t, errors.As(err, &vErr))

	parsed, err := svc.ParseContent("hero", `{"title":"ok"}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", parsed.Content["title"])
	assert.Empty(t, parsed.Warnings)

	parsed, err = svc.ParseContent("hero", `{"title":{"th":"สวัสดี","en":"Hello"}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"th": "สวัสดี", "en": "Hello"}, parsed.Content["title"])
	assert.Contains(t, parsed.Warnings, "title")
}

func TestPageService_DeleteSection(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	svc, _, secs := newTestService()
	secs.On("DeleteSection", ctx, id).Return(models.Section{ID: id}, nil).Once()
	secs.On("DeleteSection", ctx, mock.Anything).Return(models.Section{}, storage.ErrNotFound)

	_, err := svc.DeleteSection(ctx, id)
	require.NoError(t, err)

	_, err = svc.DeleteSection(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
