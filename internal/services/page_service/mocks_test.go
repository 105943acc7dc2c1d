package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"site_cms/internal/domain/models"
)

type MockPageRepository struct {
	mock.Mock
}

func (m *MockPageRepository) CreatePage(ctx context.Context, page models.Page) (models.Page, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(models.Page), args.Error(1)
}

func (m *MockPageRepository) ListPages(ctx context.Context) ([]models.Page, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Page), args.Error(1)
}

func (m *MockPageRepository) PageBySlug(ctx context.Context, slug string) (models.Page, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Page), args.Error(1)
}

func (m *MockPageRepository) PageByID(ctx context.Context, id uuid.UUID) (models.Page, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Page), args.Error(1)
}

func (m *MockPageRepository) DeletePage(ctx context.Context, slug string) (models.Page, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Page), args.Error(1)
}

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) CreateSection(ctx context.Context, section models.Section) (models.Section, error) {
	args := m.Called(ctx, section)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) SectionByID(ctx context.Context, id uuid.UUID) (models.Section, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) SectionsByPage(ctx context.Context, pageID uuid.UUID) ([]models.Section, error) {
	args := m.Called(ctx, pageID)
	return args.Get(0).([]models.Section), args.Error(1)
}

func (m *MockSectionRepository) CountSections(ctx context.Context, pageID uuid.UUID) (int, error) {
	args := m.Called(ctx, pageID)
	return args.Int(0), args.Error(1)
}

func (m *MockSectionRepository) UpdateSection(ctx context.Context, id uuid.UUID, patch models.SectionPatch) (models.Section, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) DeleteSection(ctx context.Context, id uuid.UUID) (models.Section, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) ReorderSections(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, pageID, ids)
	return args.Error(0)
}

func newTestService() (*PageService, *MockPageRepository, *MockSectionRepository) {
	pages := new(MockPageRepository)
	sections := new(MockSectionRepository)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPageService(log, pages, sections), pages, sections
}
