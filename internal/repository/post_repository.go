package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"site_cms/internal/domain/models"
	"site_cms/internal/storage/postgresql"
)

var postColumns = []string{
	"p.id", "p.title", "p.slug", "p.excerpt", "p.content", "p.status", "p.post_type",
	"p.is_featured", "p.thumbnail", "p.meta_title", "p.meta_description", "p.meta_keyword",
	"p.category_id", "p.author_id", "p.created_at", "p.updated_at", "p.published_at",
	"u.id", "u.full_name", "u.avatar_url",
	"c.id", "c.name", "c.slug",
}

type PostRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPostRepository(db *pgxpool.Pool) *PostRepo {
	return &PostRepo{
		db: db,
		sb: newBuilder(),
	}
}

func (r *PostRepo) selectPosts() sq.SelectBuilder {
	return r.sb.Select(postColumns...).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		Join("categories c ON c.id = p.category_id")
}

func scanPost(row pgx.Row) (models.Post, error) {
	var (
		p           models.Post
		publishedAt sql.NullTime
		author      models.AuthorSummary
		category    models.CategorySummary
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.Status,
		&p.PostType,
		&p.IsFeatured,
		&p.Thumbnail,
		&p.MetaTitle,
		&p.MetaDescription,
		&p.MetaKeyword,
		&p.CategoryID,
		&p.AuthorID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&publishedAt,
		&author.ID,
		&author.FullName,
		&author.AvatarURL,
		&category.ID,
		&category.Name,
		&category.Slug,
	)
	if err != nil {
		return models.Post{}, err
	}

	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	p.Author = &author
	p.Category = &category

	return p, nil
}

func (r *PostRepo) postWhere(ctx context.Context, cond sq.Sqlizer) (models.Post, error) {
	query, args, err := r.selectPosts().Where(cond).ToSql()
	if err != nil {
		return models.Post{}, err
	}

	p, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Post{}, postgresql.MapError(err)
	}
	return p, nil
}

func (r *PostRepo) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	const op = "repository.post_repository.CreatePost"

	query, args, err := r.sb.Insert("posts").
		Columns(
			"title",
			"slug",
			"excerpt",
			"content",
			"status",
			"post_type",
			"is_featured",
			"thumbnail",
			"meta_title",
			"meta_description",
			"meta_keyword",
			"category_id",
			"author_id",
			"published_at",
		).
		Values(
			post.Title,
			post.Slug,
			post.Excerpt,
			post.Content,
			post.Status,
			post.PostType,
			post.IsFeatured,
			post.Thumbnail,
			post.MetaTitle,
			post.MetaDescription,
			post.MetaKeyword,
			post.CategoryID,
			post.AuthorID,
			nullTime(post),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	created, err := r.postWhere(ctx, sq.Eq{"p.id": id})
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (r *PostRepo) PostBySlug(ctx context.Context, slug string) (models.Post, error) {
	const op = "repository.post_repository.PostBySlug"

	p, err := r.postWhere(ctx, sq.Eq{"p.slug": slug})
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// ListPosts returns posts matching filter, newest first.
func (r *PostRepo) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	const op = "repository.post_repository.ListPosts"

	builder := r.selectPosts().OrderBy("p.created_at DESC")

	if len(filter.Slugs) > 0 {
		builder = builder.Where(sq.Eq{"p.slug": filter.Slugs})
	}
	if filter.PostType != "" {
		builder = builder.Where(sq.Eq{"p.post_type": filter.PostType})
	}
	if filter.CategoryID != nil {
		builder = builder.Where(sq.Eq{"p.category_id": *filter.CategoryID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"p.status": filter.Status})
	}
	if filter.IsFeatured != nil {
		builder = builder.Where(sq.Eq{"p.is_featured": *filter.IsFeatured})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

// UpdatePost overwrites every editable column of the post with id post.ID.
func (r *PostRepo) UpdatePost(ctx context.Context, post models.Post) (models.Post, error) {
	const op = "repository.post_repository.UpdatePost"

	query, args, err := r.sb.Update("posts").
		SetMap(map[string]interface{}{
			"title":            post.Title,
			"slug":             post.Slug,
			"excerpt":          post.Excerpt,
			"content":          post.Content,
			"status":           post.Status,
			"post_type":        post.PostType,
			"is_featured":      post.IsFeatured,
			"thumbnail":        post.Thumbnail,
			"meta_title":       post.MetaTitle,
			"meta_description": post.MetaDescription,
			"meta_keyword":     post.MetaKeyword,
			"category_id":      post.CategoryID,
			"published_at":     nullTime(post),
			"updated_at":       sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return models.Post{}, fmt.Errorf("%s: %w", op, postgresql.MapError(pgx.ErrNoRows))
	}

	updated, err := r.postWhere(ctx, sq.Eq{"p.id": post.ID})
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (r *PostRepo) DeletePost(ctx context.Context, slug string) (models.Post, error) {
	const op = "repository.post_repository.DeletePost"

	query, args, err := r.sb.Delete("posts").
		Where(sq.Eq{"slug": slug}).
		Suffix("RETURNING id, title, slug").
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Post
	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Title, &p.Slug); err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return p, nil
}

func nullTime(post models.Post) sql.NullTime {
	if post.PublishedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *post.PublishedAt, Valid: true}
}
