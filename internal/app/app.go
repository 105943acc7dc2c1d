package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "site_cms/internal/app/http"
	"site_cms/internal/config"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/lib/mailer"
	"site_cms/internal/repository"
	activitysvc "site_cms/internal/services/activity_service"
	"site_cms/internal/services/auth"
	categorysvc "site_cms/internal/services/category_service"
	contactsvc "site_cms/internal/services/contact_service"
	mediasvc "site_cms/internal/services/media_service"
	menusvc "site_cms/internal/services/menu_service"
	pagesvc "site_cms/internal/services/page_service"
	postsvc "site_cms/internal/services/post_service"
	settingssvc "site_cms/internal/services/settings_service"
	usersvc "site_cms/internal/services/user_service"
	"site_cms/internal/storage/filestorage"
	"site_cms/internal/storage/postgresql"
	"site_cms/internal/storage/redis"
	httprouters "site_cms/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redis.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	applied, err := postgresql.Migrate(ctx, cfg.DSN, cfg.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, name := range applied {
		log.Info("migration applied", slog.String("name", name))
	}

	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files, uploadsDir, err := newFileStorage(cfg.FileStorage)
	if err != nil {
		repo.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	media := mediasvc.NewMediaService(log, files, cfg.FileStorage.MaxSize, cfg.FileStorage.MaxImageWidth)
	users := usersvc.NewUserService(log, repo.User)
	activities := activitysvc.NewActivityService(log, repo.Activity)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := users.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			log.Error("failed to seed admin", sl.Err(err))
		} else if created {
			log.Info("admin account created", slog.String("email", cfg.Admin.Email))
		}
	}

	smtp := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	if !smtp.IsConfigured() {
		log.Warn("smtp is not configured, contact form mail will fail")
	}

	routers := httprouters.NewRouter(log, httprouters.Services{
		Pages:      pagesvc.NewPageService(log, repo.Page, repo.Section),
		Posts:      postsvc.NewPostService(log, repo.Post, repo.Category, media),
		Categories: categorysvc.NewCategoryService(log, repo.Category),
		Menus:      menusvc.NewMenuService(log, repo.Menu, cfg.CacheTTL),
		Users:      users,
		Settings:   settingssvc.NewSettingsService(log, repo.Settings, cfg.CacheTTL),
		Media:      media,
		Contact: contactsvc.NewContactService(log, repo.Page, repo.Section,
			repository.NewRateLimitRepository(redisClient), smtp, contactsvc.Config{
				PageSlug: cfg.Contact.PageSlug,
				Fallback: cfg.Contact.Recipient,
				Limit:    cfg.Contact.Limit,
				Window:   cfg.Contact.Window,
			}),
		Auth:       auth.New(log, repo.User, cfg.HTTP.TokenSecret, cfg.HTTP.TokenTTL),
		Activities: activities,
	}, int(cfg.HTTP.SessionMaxAge.Seconds()))

	server := httpapp.New(log, httpapp.Config{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		ReadTimeout:   cfg.HTTP.ReadTimeout,
		WriteTimeout:  cfg.HTTP.WriteTimeout,
		SessionSecret: cfg.HTTP.SessionSecret,
		SessionMaxAge: cfg.HTTP.SessionMaxAge,
		TokenSecret:   cfg.HTTP.TokenSecret,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		UploadsDir:    uploadsDir,
		UploadsURL:    cfg.FileStorage.BaseURL,
	}, routers, activities, map[string]httpapp.HealthFunc{
		"postgres": repo.Ping,
		"redis":    redisClient.HealthCheck,
	})
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}, nil
}

// newFileStorage picks the storage backend. The returned directory is
// non-empty only for local storage and is served statically.
func newFileStorage(cfg config.FileStorageConfig) (filestorage.FileStorage, string, error) {
	if cfg.Driver == "s3" {
		s3, err := filestorage.NewS3FileStorage(filestorage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UseSSL:          cfg.S3.UseSSL,
			PublicURL:       cfg.S3.PublicURL,
		})
		return s3, "", err
	}

	local, err := filestorage.NewLocalFileStorage(cfg.BaseDir, cfg.BaseURL)
	if err != nil {
		return nil, "", err
	}
	return local, cfg.BaseDir, nil
}

func (a *App) Stop() error {
	err := a.HTTPServer.Stop()
	a.repo.Close()
	if cerr := a.redis.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
