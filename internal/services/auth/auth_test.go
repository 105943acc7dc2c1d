package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/jwt"
	"site_cms/internal/storage"
)

const testSecret = "test-secret"

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserProvider) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	active := models.User{ID: uuid.New(), Email: "admin@example.com", Username: "admin", Password: hash, Role: models.RoleAdmin, IsActive: true}
	inactive := active
	inactive.IsActive = false

	tests := []struct {
		name       string
		identifier string
		password   string
		user       models.User
		repoErr    error
		wantErr    error
	}{
		{name: "by email", identifier: "admin@example.com", password: "password123", user: active},
		{name: "by username", identifier: "admin", password: "password123", user: active},
		{name: "wrong password", identifier: "admin", password: "nope", user: active, wantErr: ErrInvalidCredentials},
		{name: "unknown user", identifier: "ghost", password: "password123", repoErr: storage.ErrNotFound, wantErr: ErrInvalidCredentials},
		{name: "inactive", identifier: "admin", password: "password123", user: inactive, wantErr: ErrUserInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserProvider)
			users.On("UserByIdentifier", ctx, tt.identifier).Return(tt.user, tt.repoErr)

			a := New(log, users, testSecret, time.Hour)
			res, err := a.Login(ctx, tt.identifier, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, res.AccessToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, active.ID, res.User.ID)

			claims, err := jwt.Parse(res.AccessToken, testSecret)
			require.NoError(t, err)
			assert.Equal(t, active.ID.String(), claims.UserID)
			assert.Equal(t, "admin", claims.Role)
		})
	}
}

func TestAuth_Login_RepositoryError(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserProvider)
	users.On("UserByIdentifier", ctx, "admin").Return(models.User{}, errors.New("db error"))

	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)), users, testSecret, time.Hour)
	_, err := a.Login(ctx, "admin", "x")

	assert.ErrorContains(t, err, "db error")
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_Me(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	users := new(MockUserProvider)
	users.On("UserByID", ctx, id).Return(models.User{ID: id, IsActive: true}, nil)

	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)), users, testSecret, time.Hour)
	got, err := a.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}
