package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
)

const settingsKey = "site_settings"

type SettingsService struct {
	log   *slog.Logger
	repo  repository.SettingsRepository
	cache *cache.Cache
}

func NewSettingsService(log *slog.Logger, repo repository.SettingsRepository, ttl time.Duration) *SettingsService {
	return &SettingsService{
		log:   log,
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Settings returns the stored settings, or an empty value when none were
// saved yet.
func (s *SettingsService) Settings(ctx context.Context) (models.SiteSettings, error) {
	const op = "service.SettingsService.Settings"

	if cached, ok := s.cache.Get(settingsKey); ok {
		return cached.(models.SiteSettings), nil
	}

	settings, err := s.repo.FirstSettings(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("failed to load settings", slog.String("op", op), sl.Err(err))
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.SetDefault(settingsKey, settings)
	return settings, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	const op = "service.SettingsService.UpdateSettings"

	saved, err := s.repo.UpsertSettings(ctx, settings)
	if err != nil {
		s.log.Error("failed to save settings", slog.String("op", op), sl.Err(err))
		return models.SiteSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.SetDefault(settingsKey, saved)
	s.log.Info("settings updated", slog.String("op", op))

	return saved, nil
}
