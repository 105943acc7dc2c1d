package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"site_cms/internal/domain/models"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockPostRepository) PostBySlug(ctx context.Context, slug string) (models.Post, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockPostRepository) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) UpdatePost(ctx context.Context, post models.Post) (models.Post, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockPostRepository) DeletePost(ctx context.Context, slug string) (models.Post, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Post), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockCategoryRepository) CategoryByID(ctx context.Context, id uuid.UUID) (models.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockCategoryRepository) CategoryByName(ctx context.Context, name string) (models.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	args := m.Called(ctx, base)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) (models.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Category), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadImage(ctx context.Context, upload models.Upload) (models.Image, error) {
	args := m.Called(ctx, upload)
	return args.Get(0).(models.Image), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestService() (*PostService, *MockPostRepository, *MockCategoryRepository, *MockUploader) {
	posts := new(MockPostRepository)
	categories := new(MockCategoryRepository)
	uploader := new(MockUploader)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewPostService(log, posts, categories, uploader)
	svc.now = func() time.Time { return fixedNow }

	return svc, posts, categories, uploader
}
