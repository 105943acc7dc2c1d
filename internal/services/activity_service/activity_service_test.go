package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"site_cms/internal/domain/models"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) SaveActivity(ctx context.Context, activity models.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) RecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Activity), args.Error(1)
}

func newTestService() (*ActivityService, *MockActivityRepository) {
	repo := new(MockActivityRepository)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewActivityService(log, repo), repo
}

func TestActivityService_Record(t *testing.T) {
	ctx := context.Background()
	activity := models.Activity{Type: "page", Action: models.ActionCreated, Title: "Home", UserID: uuid.New()}

	t.Run("success", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("SaveActivity", ctx, activity).Return(nil).Once()

		require.NoError(t, svc.Record(ctx, activity))
		repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("SaveActivity", ctx, activity).Return(errors.New("db down")).Once()

		assert.Error(t, svc.Record(ctx, activity))
	})
}

func TestActivityService_RecentCapsLimit(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	repo.On("RecentActivities", ctx, maxActivityLimit).Return([]models.Activity{}, nil).Once()

	got, err := svc.Recent(ctx, 10_000)
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertExpectations(t)
}
