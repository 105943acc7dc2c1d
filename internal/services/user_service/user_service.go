package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
)

const minPasswordLength = 8

var ErrDeleteSelf = errors.New("users cannot delete their own account")

type UserService struct {
	log  *slog.Logger
	repo repository.UserRepository
	cost int
}

func NewUserService(log *slog.Logger, repo repository.UserRepository) *UserService {
	return &UserService{
		log:  log,
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
}

type UserInput struct {
	FullName   string
	Username   string
	Email      string
	Password   string
	Role       models.Role
	AvatarURL  string
	IsActive   *bool
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
}

type UserPatch struct {
	FullName   *string
	Username   *string
	Email      *string
	Password   *string
	Role       *models.Role
	AvatarURL  *string
	IsActive   *bool
	Address    *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "service.UserService.ListUsers"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, in UserInput) (models.User, error) {
	const op = "service.UserService.CreateUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", in.Email),
	)

	log.Info("register user")

	if in.Role == "" {
		in.Role = models.RoleUser
	}
	problems := map[string]string{}
	if strings.TrimSpace(in.Username) == "" {
		problems["username"] = "username is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		problems["email"] = "email is required"
	}
	if len(in.Password) < minPasswordLength {
		problems["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if !validRole(in.Role) {
		problems["role"] = "role must be admin or user"
	}
	if len(problems) > 0 {
		return models.User{}, fmt.Errorf("%s: %w", op, &models.ValidationError{Fields: problems})
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	user, err := s.repo.SaveUser(ctx, models.User{
		FullName:   strings.TrimSpace(in.FullName),
		Username:   strings.TrimSpace(in.Username),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Password:   passHash,
		Role:       in.Role,
		AvatarURL:  in.AvatarURL,
		IsActive:   active,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Warn("user already exists")
		} else {
			log.Error("failed to save user", sl.Err(err))
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("id", user.ID.String()))
	return user, nil
}

// UpdateUser applies the provided fields. A new password is rehashed.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (models.User, error) {
	const op = "service.UserService.UpdateUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	user, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	problems := map[string]string{}
	if patch.Password != nil {
		if len(*patch.Password) < minPasswordLength {
			problems["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.cost)
			if err != nil {
				log.Error("failed to generate password hash", sl.Err(err))
				return models.User{}, fmt.Errorf("%s: %w", op, err)
			}
			user.Password = hash
		}
	}
	if patch.Role != nil {
		if !validRole(*patch.Role) {
			problems["role"] = "role must be admin or user"
		}
		user.Role = *patch.Role
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		problems["username"] = "username must not be empty"
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		problems["email"] = "email must not be empty"
	}
	if len(problems) > 0 {
		return models.User{}, fmt.Errorf("%s: %w", op, &models.ValidationError{Fields: problems})
	}

	if patch.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	setIf(&user.FullName, patch.FullName)
	setIf(&user.AvatarURL, patch.AvatarURL)
	setIf(&user.Address, patch.Address)
	setIf(&user.City, patch.City)
	setIf(&user.State, patch.State)
	setIf(&user.Country, patch.Country)
	setIf(&user.PostalCode, patch.PostalCode)
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			log.Error("failed to update user", sl.Err(err))
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user updated")
	return updated, nil
}

// DeleteUser removes id on behalf of actorID. Nobody can remove their own
// account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) (models.User, error) {
	const op = "service.UserService.DeleteUser"

	if actorID == id {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrDeleteSelf)
	}

	user, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrInUse) {
			s.log.Error("failed to delete user", slog.String("op", op), sl.Err(err))
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user deleted", slog.String("op", op), slog.String("id", id.String()))
	return user, nil
}

// EnsureAdmin creates the first administrator when the users table is empty.
// It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, username, password string) (bool, error) {
	const op = "service.UserService.EnsureAdmin"

	if email == "" || password == "" {
		return false, nil
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if len(users) > 0 {
		return false, nil
	}

	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	if _, err := s.CreateUser(ctx, UserInput{
		FullName: "Administrator",
		Username: username,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	}); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func validRole(r models.Role) bool {
	return r == models.RoleAdmin || r == models.RoleUser
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
