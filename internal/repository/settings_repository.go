package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"site_cms/internal/domain/models"
	"site_cms/internal/storage"
	"site_cms/internal/storage/postgresql"
)

var settingsColumns = []string{"id", "site_name", "site_url", "logo_url", "theme_color", "description", "seo_keywords", "updated_at"}

const settingsReturning = "RETURNING id, site_name, site_url, logo_url, theme_color, description, seo_keywords, updated_at"

type SettingsRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanSettings(row pgx.Row) (models.SiteSettings, error) {
	var s models.SiteSettings
	err := row.Scan(&s.ID, &s.SiteName, &s.SiteURL, &s.LogoURL, &s.ThemeColor, &s.Description, &s.SEOKeywords, &s.UpdatedAt)
	return s, err
}

func (r *SettingsRepo) firstSettings(ctx context.Context, q querier, lock bool) (models.SiteSettings, error) {
	builder := r.sb.Select(settingsColumns...).
		From("site_settings").
		OrderBy("updated_at ASC").
		Limit(1)
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return models.SiteSettings{}, err
	}

	s, err := scanSettings(q.QueryRow(ctx, query, args...))
	if err != nil {
		return models.SiteSettings{}, postgresql.MapError(err)
	}
	return s, nil
}

func (r *SettingsRepo) FirstSettings(ctx context.Context) (models.SiteSettings, error) {
	const op = "repository.settings_repository.FirstSettings"

	s, err := r.firstSettings(ctx, r.db, false)
	if err != nil {
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (r *SettingsRepo) UpsertSettings(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	const op = "repository.settings_repository.UpsertSettings"

	values := map[string]interface{}{
		"site_name":    settings.SiteName,
		"site_url":     settings.SiteURL,
		"logo_url":     settings.LogoURL,
		"theme_color":  settings.ThemeColor,
		"description":  settings.Description,
		"seo_keywords": settings.SEOKeywords,
	}

	var saved models.SiteSettings

	err := postgresql.InTx(ctx, r.db, func(tx pgx.Tx) error {
		existing, err := r.firstSettings(ctx, tx, true)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			query, args, err := r.sb.Insert("site_settings").
				SetMap(values).
				Suffix(settingsReturning).
				ToSql()
			if err != nil {
				return err
			}
			saved, err = scanSettings(tx.QueryRow(ctx, query, args...))
			return err
		case err != nil:
			return err
		}

		values["updated_at"] = sq.Expr("NOW()")
		query, args, err := r.sb.Update("site_settings").
			SetMap(values).
			Where(sq.Eq{"id": existing.ID}).
			Suffix(settingsReturning).
			ToSql()
		if err != nil {
			return err
		}
		saved, err = scanSettings(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}
