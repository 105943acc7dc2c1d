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

const menuItemReturning = "RETURNING id, menu_id, name, url, parent_id, sort_order, created_at"

var menuItemColumns = []string{"id", "menu_id", "name", "url", "parent_id", "sort_order", "created_at"}

type MenuRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewMenuRepository(db *pgxpool.Pool) *MenuRepo {
	return &MenuRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanMenuItem(row pgx.Row) (models.MenuItem, error) {
	var (
		it       models.MenuItem
		parentID uuid.NullUUID
	)

	if err := row.Scan(&it.ID, &it.MenuID, &it.Name, &it.URL, &parentID, &it.SortOrder, &it.CreatedAt); err != nil {
		return models.MenuItem{}, err
	}
	it.ParentID = uuidPtr(parentID)

	return it, nil
}

func siblingsOf(menuID uuid.UUID, parentID *uuid.UUID) sq.Eq {
	if parentID == nil {
		return sq.Eq{"menu_id": menuID, "parent_id": nil}
	}
	return sq.Eq{"menu_id": menuID, "parent_id": *parentID}
}

func (r *MenuRepo) CreateMenu(ctx context.Context, name string) (models.Menu, error) {
	const op = "repository.menu_repository.CreateMenu"

	query, args, err := r.sb.Insert("menus").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return models.Menu{}, fmt.Errorf("%s: %w", op, err)
	}

	var m models.Menu
	if err := r.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
		return models.Menu{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return m, nil
}

func (r *MenuRepo) ListMenus(ctx context.Context) ([]models.Menu, error) {
	const op = "repository.menu_repository.ListMenus"

	query, args, err := r.sb.Select("id", "name", "created_at").
		From("menus").
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

	menus := []models.Menu{}
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		menus = append(menus, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return menus, nil
}

func (r *MenuRepo) menuWhere(ctx context.Context, cond sq.Sqlizer) (models.Menu, error) {
	query, args, err := r.sb.Select("id", "name", "created_at").
		From("menus").
		Where(cond).
		ToSql()
	if err != nil {
		return models.Menu{}, err
	}

	var m models.Menu
	if err := r.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
		return models.Menu{}, postgresql.MapError(err)
	}
	return m, nil
}

func (r *MenuRepo) MenuByID(ctx context.Context, id uuid.UUID) (models.Menu, error) {
	const op = "repository.menu_repository.MenuByID"

	m, err := r.menuWhere(ctx, sq.Eq{"id": id})
	if err != nil {
		return models.Menu{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (r *MenuRepo) MenuByName(ctx context.Context, name string) (models.Menu, error) {
	const op = "repository.menu_repository.MenuByName"

	m, err := r.menuWhere(ctx, sq.Eq{"name": name})
	if err != nil {
		return models.Menu{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (r *MenuRepo) DeleteMenu(ctx context.Context, id uuid.UUID) (models.Menu, error) {
	const op = "repository.menu_repository.DeleteMenu"

	query, args, err := r.sb.Delete("menus").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return models.Menu{}, fmt.Errorf("%s: %w", op, err)
	}

	var m models.Menu
	if err := r.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
		return models.Menu{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return m, nil
}

func (r *MenuRepo) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const op = "repository.menu_repository.CreateMenuItem"

	nextOrder := sq.Expr(
		"(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM menu_items WHERE menu_id = ? AND parent_id IS NOT DISTINCT FROM ?)",
		item.MenuID, nullUUID(item.ParentID),
	)

	query, args, err := r.sb.Insert("menu_items").
		Columns("menu_id", "name", "url", "parent_id", "sort_order").
		Values(item.MenuID, item.Name, item.URL, nullUUID(item.ParentID), nextOrder).
		Suffix(menuItemReturning).
		ToSql()
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanMenuItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return created, nil
}

func (r *MenuRepo) MenuItemByID(ctx context.Context, id uuid.UUID) (models.MenuItem, error) {
	const op = "repository.menu_repository.MenuItemByID"

	query, args, err := r.sb.Select(menuItemColumns...).
		From("menu_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	it, err := scanMenuItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return it, nil
}

// MenuItems returns the flat item list of a menu ordered by sortOrder.
func (r *MenuRepo) MenuItems(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error) {
	const op = "repository.menu_repository.MenuItems"

	query, args, err := r.sb.Select(menuItemColumns...).
		From("menu_items").
		Where(sq.Eq{"menu_id": menuID}).
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

	items := []models.MenuItem{}
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *MenuRepo) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "repository.menu_repository.HasChildren"

	query, args, err := r.sb.Select("1").
		From("menu_items").
		Where(sq.Eq{"parent_id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *MenuRepo) UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const op = "repository.menu_repository.UpdateMenuItem"

	query, args, err := r.sb.Update("menu_items").
		Set("name", item.Name).
		Set("url", item.URL).
		Set("parent_id", nullUUID(item.ParentID)).
		Set("sort_order", item.SortOrder).
		Where(sq.Eq{"id": item.ID}).
		Suffix(menuItemReturning).
		ToSql()
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanMenuItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return updated, nil
}

// DeleteMenuItem removes the item; its children go with it through the
// foreign key.
func (r *MenuRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error) {
	const op = "repository.menu_repository.DeleteMenuItem"

	query, args, err := r.sb.Delete("menu_items").
		Where(sq.Eq{"id": id}).
		Suffix(menuItemReturning).
		ToSql()
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := scanMenuItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return deleted, nil
}

func (r *MenuRepo) ReorderMenuItems(ctx context.Context, menuID uuid.UUID, parentID *uuid.UUID, ids []uuid.UUID) error {
	const op = "repository.menu_repository.ReorderMenuItems"

	err := postgresql.InTx(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := r.sb.Select("id", "sort_order").
			From("menu_items").
			Where(siblingsOf(menuID, parentID)).
			OrderBy("sort_order ASC").
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}

		var current []uuid.UUID
		positions := make(map[uuid.UUID]int)
		for rows.Next() {
			var (
				id    uuid.UUID
				order int
			)
			if err := rows.Scan(&id, &order); err != nil {
				rows.Close()
				return err
			}
			current = append(current, id)
			positions[id] = order
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if err := models.CheckPermutation(current, ids); err != nil {
			return err
		}

		for i, id := range ids {
			if positions[id] == i+1 {
				continue
			}

			query, args, err := r.sb.Update("menu_items").
				Set("sort_order", i+1).
				Where(sq.Eq{"id": id}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("reorder menu item %s: %w", id, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
