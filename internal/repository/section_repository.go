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

const sectionReturning = "RETURNING id, page_id, type, content, sort_order, is_active, created_at, updated_at"

var sectionColumns = []string{"id", "page_id", "type", "content", "sort_order", "is_active", "created_at", "updated_at"}

type SectionRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewSectionRepository(db *pgxpool.Pool) *SectionRepo {
	return &SectionRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanSection(row pgx.Row) (models.Section, error) {
	var (
		s   models.Section
		raw []byte
	)

	err := row.Scan(&s.ID, &s.PageID, &s.Type, &raw, &s.Order, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return models.Section{}, err
	}

	if err := s.Content.Scan(raw); err != nil {
		return models.Section{}, fmt.Errorf("decode content: %w", err)
	}
	if s.Content == nil {
		s.Content = models.Document{}
	}

	return s, nil
}

func (r *SectionRepo) CreateSection(ctx context.Context, section models.Section) (models.Section, error) {
	const op = "repository.section_repository.CreateSection"

	content := section.Content
	if content == nil {
		content = models.Document{}
	}

	query, args, err := r.sb.Insert("sections").
		Columns("page_id", "type", "content", "sort_order", "is_active").
		Values(section.PageID, section.Type, content, section.Order, section.IsActive).
		Suffix(sectionReturning).
		ToSql()
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanSection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return created, nil
}

func (r *SectionRepo) SectionByID(ctx context.Context, id uuid.UUID) (models.Section, error) {
	const op = "repository.section_repository.SectionByID"

	query, args, err := r.sb.Select(sectionColumns...).
		From("sections").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	s, err := scanSection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return s, nil
}

func (r *SectionRepo) SectionsByPage(ctx context.Context, pageID uuid.UUID) ([]models.Section, error) {
	const op = "repository.section_repository.SectionsByPage"

	query, args, err := r.sb.Select(sectionColumns...).
		From("sections").
		Where(sq.Eq{"page_id": pageID}).
		OrderBy("sort_order ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	sections := []models.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sections = append(sections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sections, nil
}

func (r *SectionRepo) CountSections(ctx context.Context, pageID uuid.UUID) (int, error) {
	const op = "repository.section_repository.CountSections"

	query, args, err := r.sb.Select("COUNT(*)").
		From("sections").
		Where(sq.Eq{"page_id": pageID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// UpdateSection applies the non nil fields of patch. A provided content
// document replaces the stored one as a whole.
func (r *SectionRepo) UpdateSection(ctx context.Context, id uuid.UUID, patch models.SectionPatch) (models.Section, error) {
	const op = "repository.section_repository.UpdateSection"

	if patch.Empty() {
		return r.SectionByID(ctx, id)
	}

	builder := r.sb.Update("sections").
		Set("updated_at", sq.Expr("NOW()"))

	if patch.Type != nil {
		builder = builder.Set("type", *patch.Type)
	}
	if patch.Content != nil {
		builder = builder.Set("content", patch.Content)
	}
	if patch.Order != nil {
		builder = builder.Set("sort_order", *patch.Order)
	}
	if patch.IsActive != nil {
		builder = builder.Set("is_active", *patch.IsActive)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix(sectionReturning).
		ToSql()
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	s, err := scanSection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return s, nil
}

func (r *SectionRepo) DeleteSection(ctx context.Context, id uuid.UUID) (models.Section, error) {
	const op = "repository.section_repository.DeleteSection"

	var deleted models.Section

	err := postgresql.InTx(ctx, r.db, func(tx pgx.Tx) error {
		target, err := r.sectionForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := r.lockSiblings(ctx, tx, target.PageID); err != nil {
			return err
		}

		query, args, err := r.sb.Delete("sections").
			Where(sq.Eq{"id": id}).
			Suffix(sectionReturning).
			ToSql()
		if err != nil {
			return err
		}

		deleted, err = scanSection(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return postgresql.MapError(err)
		}

		remaining, err := r.lockSiblings(ctx, tx, target.PageID)
		if err != nil {
			return err
		}

		return r.applyOrder(ctx, tx, models.Resequence(remaining))
	})
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}

func (r *SectionRepo) ReorderSections(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) error {
	const op = "repository.section_repository.ReorderSections"

	err := postgresql.InTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := r.lockSiblings(ctx, tx, pageID)
		if err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, 0, len(current))
		positions := make(map[uuid.UUID]int, len(current))
		for _, it := range current {
			currentIDs = append(currentIDs, it.ID)
			positions[it.ID] = it.Order
		}

		if err := models.CheckPermutation(currentIDs, ids); err != nil {
			return err
		}

		var changes []models.Ordered
		for i, id := range ids {
			if positions[id] != i+1 {
				changes = append(changes, models.Ordered{ID: id, Order: i + 1})
			}
		}

		return r.applyOrder(ctx, tx, changes)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *SectionRepo) sectionForUpdate(ctx context.Context, q querier, id uuid.UUID) (models.Section, error) {
	query, args, err := r.sb.Select(sectionColumns...).
		From("sections").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return models.Section{}, err
	}

	s, err := scanSection(q.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Section{}, postgresql.MapError(err)
	}
	return s, nil
}

// lockSiblings returns the positions of a page's sections in display order,
// row locked until the transaction ends.
func (r *SectionRepo) lockSiblings(ctx context.Context, q querier, pageID uuid.UUID) ([]models.Ordered, error) {
	query, args, err := r.sb.Select("id", "sort_order").
		From("sections").
		Where(sq.Eq{"page_id": pageID}).
		OrderBy("sort_order ASC", "created_at ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ordered
	for rows.Next() {
		var o models.Ordered
		if err := rows.Scan(&o.ID, &o.Order); err != nil {
			return nil, err
		}
		out = append(out, o)
	}

	return out, rows.Err()
}

// applyOrder writes each changed position with its own UPDATE.
func (r *SectionRepo) applyOrder(ctx context.Context, q querier, changes []models.Ordered) error {
	for _, c := range changes {
		query, args, err := r.sb.Update("sections").
			Set("sort_order", c.Order).
			Where(sq.Eq{"id": c.ID}).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := q.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("renumber section %s: %w", c.ID, err)
		}
	}
	return nil
}
