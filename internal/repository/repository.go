package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"site_cms/internal/storage/postgresql"
)

type Repository struct {
	db       *pgxpool.Pool
	Page     PageRepository
	Section  SectionRepository
	Post     PostRepository
	Category CategoryRepository
	Menu     MenuRepository
	User     UserRepository
	Settings SettingsRepository
	Activity ActivityRepository
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := postgresql.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositoryWithPool(db), nil
}

func NewRepositoryWithPool(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:       db,
		Page:     NewPageRepository(db),
		Section:  NewSectionRepository(db),
		Post:     NewPostRepository(db),
		Category: NewCategoryRepository(db),
		Menu:     NewMenuRepository(db),
		User:     NewUserRepository(db),
		Settings: NewSettingsRepository(db),
		Activity: NewActivityRepository(db),
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repository) Close() {
	r.db.Close()
}

// querier is the subset of pgxpool.Pool and pgx.Tx used by the repositories.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func newBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
