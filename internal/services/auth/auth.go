package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/jwt"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is deactivated")
)

type Auth struct {
	log         *slog.Logger
	usrProvider UserProvider
	tokenSecret string
	tokenTTL    time.Duration
}

type UserProvider interface {
	UserByIdentifier(ctx context.Context, identifier string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

func New(log *slog.Logger, userProvider UserProvider, tokenSecret string, tokenTTL time.Duration) *Auth {
	return &Auth{
		log:         log,
		usrProvider: userProvider,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

// Login checks the password of the user known by identifier (email or
// username) and issues an access token for API clients.
func (a *Auth) Login(ctx context.Context, identifier, password string) (models.LoginResult, error) {
	const op = "auth.Login"

	identifier = strings.TrimSpace(identifier)

	log := a.log.With(
		slog.String("op", op),
		slog.String("identifier", identifier),
	)

	log.Info("attempting to login user")

	user, err := a.usrProvider.UserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("user not found")

			return models.LoginResult{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return models.LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.LoginResult{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if !user.IsActive {
		log.Warn("inactive user tried to log in")

		return models.LoginResult{}, fmt.Errorf("%s: %w", op, ErrUserInactive)
	}

	expiresAt := time.Now().Add(a.tokenTTL)
	token, err := jwt.NewToken(user, a.tokenSecret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return models.LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return models.LoginResult{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Me returns the current user behind an authenticated request.
func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "auth.Me"

	user, err := a.usrProvider.UserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUserInactive)
	}

	return user, nil
}
