package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"site_cms/internal/domain/models"
	"site_cms/internal/storage/postgresql"
)

var pageColumns = []string{"id", "title", "slug", "created_at"}

type PageRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPageRepository(db *pgxpool.Pool) *PageRepo {
	return &PageRepo{
		db: db,
		sb: newBuilder(),
	}
}

func (r *PageRepo) CreatePage(ctx context.Context, page models.Page) (models.Page, error) {
	const op = "repository.page_repository.CreatePage"

	query, args, err := r.sb.Insert("pages").
		Columns("title", "slug").
		Values(page.Title, page.Slug).
		Suffix("RETURNING id, title, slug, created_at").
		ToSql()
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Page
	err = r.db.QueryRow(ctx, query, args...).Scan(&created.ID, &created.Title, &created.Slug, &created.CreatedAt)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	created.Sections = []models.Section{}
	return created, nil
}

func (r *PageRepo) ListPages(ctx context.Context) ([]models.Page, error) {
	const op = "repository.page_repository.ListPages"

	query, args, err := r.sb.Select(pageColumns...).
		From("pages").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	pages := []models.Page{}
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		pages = append(pages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pages, nil
}

func (r *PageRepo) PageBySlug(ctx context.Context, slug string) (models.Page, error) {
	const op = "repository.page_repository.PageBySlug"

	query, args, err := r.sb.Select(pageColumns...).
		From("pages").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Page
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Title, &p.Slug, &p.CreatedAt)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return p, nil
}

func (r *PageRepo) PageByID(ctx context.Context, id uuid.UUID) (models.Page, error) {
	const op = "repository.page_repository.PageByID"

	query, args, err := r.sb.Select(pageColumns...).
		From("pages").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Page
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Title, &p.Slug, &p.CreatedAt)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return p, nil
}

// DeletePage removes the page; its sections go with it through the foreign key.
func (r *PageRepo) DeletePage(ctx context.Context, slug string) (models.Page, error) {
	const op = "repository.page_repository.DeletePage"

	query, args, err := r.sb.Delete("pages").
		Where(sq.Eq{"slug": slug}).
		Suffix("RETURNING id, title, slug, created_at").
		ToSql()
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Page
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Title, &p.Slug, &p.CreatedAt)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return p, nil
}
