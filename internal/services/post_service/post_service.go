package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/lib/slug"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 100
)

// ImageUploader stores an uploaded thumbnail and returns its public form.
type ImageUploader interface {
	UploadImage(ctx context.Context, upload models.Upload) (models.Image, error)
}

type PostService struct {
	log        *slog.Logger
	posts      repository.PostRepository
	categories repository.CategoryRepository
	uploader   ImageUploader
	now        func() time.Time
}

func NewPostService(
	log *slog.Logger,
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	uploader ImageUploader,
) *PostService {
	return &PostService{
		log:        log,
		posts:      posts,
		categories: categories,
		uploader:   uploader,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type PostInput struct {
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	Status          models.PostStatus
	PostType        string
	IsFeatured      bool
	Thumbnail       string
	MetaTitle       string
	MetaDescription string
	MetaKeyword     string
	CategoryID      uuid.UUID
}

// PostPatch holds the fields of a partial update; nil keeps the stored value.
type PostPatch struct {
	Title           *string
	Slug            *string
	Excerpt         *string
	Content         *string
	Status          *models.PostStatus
	PostType        *string
	IsFeatured      *bool
	Thumbnail       *string
	MetaTitle       *string
	MetaDescription *string
	MetaKeyword     *string
	CategoryID      *uuid.UUID
}

// ListQuery is a post listing request. CategoryName is resolved to an id
// before filtering.
type ListQuery struct {
	models.PostFilter
	CategoryName string
}

func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, in PostInput, thumbnail *models.Upload) (models.Post, error) {
	const op = "service.PostService.CreatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", in.Slug),
	)

	problems := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		problems["title"] = "title is required"
	}
	if strings.TrimSpace(in.Slug) == "" {
		problems["slug"] = "slug is required"
	} else if slug.Generate(in.Slug) != in.Slug {
		problems["slug"] = "slug may only contain lower case letters, digits and dashes"
	}
	if strings.TrimSpace(in.Content) == "" {
		problems["content"] = "content is required"
	}
	if in.CategoryID == uuid.Nil {
		problems["categoryId"] = "categoryId is required"
	}
	if in.Status == "" {
		in.Status = models.PostStatusDraft
	}
	if !in.Status.Valid() {
		problems["status"] = "status must be one of draft, published, archived"
	}
	if len(problems) > 0 {
		return models.Post{}, fmt.Errorf("%s: %w", op, &models.ValidationError{Fields: problems})
	}

	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	post := models.Post{
		Title:           strings.TrimSpace(in.Title),
		Slug:            in.Slug,
		Excerpt:         in.Excerpt,
		Content:         in.Content,
		PostType:        in.PostType,
		IsFeatured:      in.IsFeatured,
		Thumbnail:       in.Thumbnail,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		MetaKeyword:     in.MetaKeyword,
		CategoryID:      in.CategoryID,
		AuthorID:        authorID,
	}
	post.SetStatus(in.Status, s.now())

	if thumbnail != nil {
		img, err := s.uploader.UploadImage(ctx, *thumbnail)
		if err != nil {
			log.Error("failed to store thumbnail", sl.Err(err))
			return models.Post{}, fmt.Errorf("%s: thumbnail: %w", op, err)
		}
		post.Thumbnail = img.URL
	}

	created, err := s.posts.CreatePost(ctx, post)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Warn("post slug taken")
		} else {
			log.Error("failed to create post", sl.Err(err))
		}
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post created", slog.String("id", created.ID.String()), slog.String("status", string(created.Status)))
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, postSlug string) (models.Post, error) {
	const op = "service.PostService.GetPost"

	post, err := s.posts.PostBySlug(ctx, postSlug)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}

// ListPosts filters posts newest first. A category name that matches no
// category yields an empty list.
func (s *PostService) ListPosts(ctx context.Context, q ListQuery) ([]models.Post, error) {
	const op = "service.PostService.ListPosts"

	log := s.log.With(slog.String("op", op))

	filter := q.PostFilter
	if q.CategoryName != "" {
		category, err := s.categories.CategoryByName(ctx, q.CategoryName)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Debug("unknown category", slog.String("category", q.CategoryName))
				return []models.Post{}, nil
			}
			log.Error("failed to resolve category", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		filter.CategoryID = &category.ID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError("status", "status must be one of draft, published, archived"))
	}

	posts, err := s.posts.ListPosts(ctx, filter)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

// Feed merges the latest published posts of several categories, newest
// first. Categories are queried concurrently; unknown names are skipped.
func (s *PostService) Feed(ctx context.Context, categoryNames []string, limit int) ([]models.Post, error) {
	const op = "service.PostService.Feed"

	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	results := make([][]models.Post, len(categoryNames))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range categoryNames {
		i, name := i, name
		g.Go(func() error {
			posts, err := s.ListPosts(gctx, ListQuery{
				PostFilter: models.PostFilter{
					Status: models.PostStatusPublished,
					Limit:  limit,
				},
				CategoryName: name,
			})
			if err != nil {
				return err
			}
			results[i] = posts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error("failed to build feed", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[uuid.UUID]bool)
	merged := []models.Post{}
	for _, posts := range results {
		for _, p := range posts {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged = append(merged, p)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	return merged, nil
}

func (s *PostService) UpdatePost(ctx context.Context, postSlug string, patch PostPatch, thumbnail *models.Upload) (models.Post, error) {
	const op = "service.PostService.UpdatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", postSlug),
	)

	post, err := s.posts.PostBySlug(ctx, postSlug)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	problems := map[string]string{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			problems["title"] = "title must not be empty"
		}
		post.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil {
		if *patch.Slug == "" || slug.Generate(*patch.Slug) != *patch.Slug {
			problems["slug"] = "slug may only contain lower case letters, digits and dashes"
		}
		post.Slug = *patch.Slug
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			problems["content"] = "content must not be empty"
		}
		post.Content = *patch.Content
	}
	if patch.Status != nil && !patch.Status.Valid() {
		problems["status"] = "status must be one of draft, published, archived"
	}
	if len(problems) > 0 {
		return models.Post{}, fmt.Errorf("%s: %w", op, &models.ValidationError{Fields: problems})
	}

	if patch.CategoryID != nil && *patch.CategoryID != post.CategoryID {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return models.Post{}, fmt.Errorf("%s: %w", op, err)
		}
		post.CategoryID = *patch.CategoryID
	}

	setIf(&post.Excerpt, patch.Excerpt)
	setIf(&post.PostType, patch.PostType)
	setIf(&post.Thumbnail, patch.Thumbnail)
	setIf(&post.MetaTitle, patch.MetaTitle)
	setIf(&post.MetaDescription, patch.MetaDescription)
	setIf(&post.MetaKeyword, patch.MetaKeyword)
	if patch.IsFeatured != nil {
		post.IsFeatured = *patch.IsFeatured
	}
	if patch.Status != nil {
		post.SetStatus(*patch.Status, s.now())
	}

	if thumbnail != nil {
		img, err := s.uploader.UploadImage(ctx, *thumbnail)
		if err != nil {
			log.Error("failed to store thumbnail", sl.Err(err))
			return models.Post{}, fmt.Errorf("%s: thumbnail: %w", op, err)
		}
		post.Thumbnail = img.URL
	}

	updated, err := s.posts.UpdatePost(ctx, post)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			log.Error("failed to update post", sl.Err(err))
		}
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post updated")
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, postSlug string) (models.Post, error) {
	const op = "service.PostService.DeletePost"

	deleted, err := s.posts.DeletePost(ctx, postSlug)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error("failed to delete post", slog.String("op", op), sl.Err(err))
		}
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("post deleted", slog.String("op", op), slog.String("slug", postSlug))
	return deleted, nil
}

func (s *PostService) checkCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.CategoryByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.NewValidationError("categoryId", "category does not exist")
		}
		return err
	}
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
