package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"site_cms/internal/domain/models"
	"site_cms/internal/storage/postgresql"
)

const categoryReturning = "RETURNING id, name, slug, description, parent_id, created_at"

var categoryColumns = []string{"id", "name", "slug", "description", "parent_id", "created_at"}

type CategoryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var (
		c        models.Category
		parentID uuid.NullUUID
	)

	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &parentID, &c.CreatedAt); err != nil {
		return models.Category{}, err
	}
	c.ParentID = uuidPtr(parentID)

	return c, nil
}

func (r *CategoryRepo) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	const op = "repository.category_repository.CreateCategory"

	query, args, err := r.sb.Insert("categories").
		Columns("name", "slug", "description", "parent_id").
		Values(category.Name, category.Slug, category.Description, nullUUID(category.ParentID)).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanCategory(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return created, nil
}

func (r *CategoryRepo) categoryWhere(ctx context.Context, cond sq.Sqlizer) (models.Category, error) {
	query, args, err := r.sb.Select(categoryColumns...).
		From("categories").
		Where(cond).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.Category{}, err
	}

	c, err := scanCategory(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Category{}, postgresql.MapError(err)
	}
	return c, nil
}

func (r *CategoryRepo) CategoryByID(ctx context.Context, id uuid.UUID) (models.Category, error) {
	const op = "repository.category_repository.CategoryByID"

	c, err := r.categoryWhere(ctx, sq.Eq{"id": id})
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CategoryByName matches names case insensitively.
func (r *CategoryRepo) CategoryByName(ctx context.Context, name string) (models.Category, error) {
	const op = "repository.category_repository.CategoryByName"

	c, err := r.categoryWhere(ctx, sq.Expr("LOWER(name) = LOWER(?)", name))
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "repository.category_repository.ListCategories"

	query, args, err := r.sb.Select(categoryColumns...).
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}

func (r *CategoryRepo) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	const op = "repository.category_repository.SlugsWithPrefix"

	query, args, err := r.sb.Select("slug").
		From("categories").
		Where(sq.Or{
			sq.Eq{"slug": base},
			sq.Like{"slug": escapeLike(base) + "-%"},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		slugs = append(slugs, s)
	}

	return slugs, rows.Err()
}

func (r *CategoryRepo) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	const op = "repository.category_repository.UpdateCategory"

	query, args, err := r.sb.Update("categories").
		Set("name", category.Name).
		Set("slug", category.Slug).
		Set("description", category.Description).
		Set("parent_id", nullUUID(category.ParentID)).
		Where(sq.Eq{"id": category.ID}).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanCategory(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return updated, nil
}

// DeleteCategory fails with storage.ErrInUse while posts reference it.
func (r *CategoryRepo) DeleteCategory(ctx context.Context, id uuid.UUID) (models.Category, error) {
	const op = "repository.category_repository.DeleteCategory"

	query, args, err := r.sb.Delete("categories").
		Where(sq.Eq{"id": id}).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := scanCategory(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return deleted, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
