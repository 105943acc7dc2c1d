package services

import (
	"context"
	"fmt"
	"log/slog"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/repository"
)

const maxActivityLimit = 200

type ActivityService struct {
	log  *slog.Logger
	repo repository.ActivityRepository
}

func NewActivityService(log *slog.Logger, repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		log:  log,
		repo: repo,
	}
}

// Record appends one audit entry.
func (s *ActivityService) Record(ctx context.Context, activity models.Activity) error {
	const op = "service.ActivityService.Record"

	log := s.log.With(
		slog.String("op", op),
		slog.String("type", activity.Type),
		slog.String("action", string(activity.Action)),
	)

	if err := s.repo.SaveActivity(ctx, activity); err != nil {
		log.Error("failed to save activity", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("activity recorded")
	return nil
}

func (s *ActivityService) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	const op = "service.ActivityService.Recent"

	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	activities, err := s.repo.RecentActivities(ctx, limit)
	if err != nil {
		s.log.Error("failed to list activities", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return activities, nil
}
