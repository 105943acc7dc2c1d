package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"site_cms/internal/domain/models"
)

const defaultActivityLimit = 50

type ActivityRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{
		db: db,
		sb: newBuilder(),
	}
}

func (r *ActivityRepo) SaveActivity(ctx context.Context, activity models.Activity) error {
	const op = "repository.activity_repository.SaveActivity"

	var metadata interface{}
	if activity.Metadata != nil {
		metadata = activity.Metadata
	}

	query, args, err := r.sb.Insert("activities").
		Columns("type", "action", "title", "user_id", "post_id", "metadata").
		Values(activity.Type, activity.Action, activity.Title, activity.UserID, nullUUID(activity.PostID), metadata).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ActivityRepo) RecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	const op = "repository.activity_repository.RecentActivities"

	if limit <= 0 {
		limit = defaultActivityLimit
	}

	query, args, err := r.sb.Select("id", "type", "action", "title", "user_id", "post_id", "metadata", "created_at").
		From("activities").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var (
			a      models.Activity
			postID uuid.NullUUID
			raw    []byte
		)
		if err := rows.Scan(&a.ID, &a.Type, &a.Action, &a.Title, &a.UserID, &postID, &raw, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.PostID = uuidPtr(postID)
		if err := a.Metadata.Scan(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return activities, nil
}
