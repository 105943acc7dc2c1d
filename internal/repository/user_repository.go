package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"site_cms/internal/domain/models"
	"site_cms/internal/storage"
	"site_cms/internal/storage/postgresql"
)

var userColumns = []string{
	"id", "full_name", "username", "email", "password", "role", "avatar_url", "is_active",
	"address", "city", "state", "country", "postal_code", "created_at", "updated_at",
}

const userReturning = "RETURNING id, full_name, username, email, password, role, avatar_url, is_active, " +
	"address, city, state, country, postal_code, created_at, updated_at"

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.Role,
		&u.AvatarURL,
		&u.IsActive,
		&u.Address,
		&u.City,
		&u.State,
		&u.Country,
		&u.PostalCode,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns(
			"full_name",
			"username",
			"email",
			"password",
			"role",
			"avatar_url",
			"is_active",
			"address",
			"city",
			"state",
			"country",
			"postal_code",
		).
		Values(
			user.FullName,
			user.Username,
			user.Email,
			user.Password,
			user.Role,
			user.AvatarURL,
			user.IsActive,
			user.Address,
			user.City,
			user.State,
			user.Country,
			user.PostalCode,
		).
		Suffix(userReturning).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return saved, nil
}

func (r *UserRepo) userWhere(ctx context.Context, cond sq.Sqlizer) (models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return models.User{}, err
	}

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, postgresql.MapError(err)
	}
	return u, nil
}

func (r *UserRepo) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "repository.user_repository.UserByID"

	u, err := r.userWhere(ctx, sq.Eq{"id": id})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r *UserRepo) UserByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	const op = "repository.user_repository.UserByIdentifier"

	u, err := r.userWhere(ctx, sq.Or{
		sq.Expr("LOWER(email) = LOWER(?)", identifier),
		sq.Eq{"username": identifier},
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "repository.user_repository.ListUsers"

	query, args, err := r.sb.Select(userColumns...).
		From("users").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (r *UserRepo) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "repository.user_repository.UpdateUser"

	query, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"full_name":   user.FullName,
			"username":    user.Username,
			"email":       user.Email,
			"password":    user.Password,
			"role":        user.Role,
			"avatar_url":  user.AvatarURL,
			"is_active":   user.IsActive,
			"address":     user.Address,
			"city":        user.City,
			"state":       user.State,
			"country":     user.Country,
			"postal_code": user.PostalCode,
			"updated_at":  sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": user.ID}).
		Suffix(userReturning).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return updated, nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	const op = "repository.user_repository.DeleteUser"

	query, args, err := r.sb.Delete("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
