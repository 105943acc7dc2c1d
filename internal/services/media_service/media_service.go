package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/lib/slug"
	"site_cms/internal/storage"
	"site_cms/internal/storage/filestorage"
)

// raster formats that are decoded and downscaled before storing
var resizable = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type MediaService struct {
	log         *slog.Logger
	fileStorage filestorage.FileStorage
	maxSize     int64
	maxWidth    int
	now         func() time.Time
}

func NewMediaService(log *slog.Logger, fileStorage filestorage.FileStorage, maxSize int64, maxWidth int) *MediaService {
	return &MediaService{
		log:         log,
		fileStorage: fileStorage,
		maxSize:     maxSize,
		maxWidth:    maxWidth,
		now:         time.Now,
	}
}

// UploadImage validates an image upload, shrinks wide raster images to the
// configured width and stores the result under a new unique name.
func (s *MediaService) UploadImage(ctx context.Context, upload models.Upload) (models.Image, error) {
	const op = "media_service.UploadImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", upload.Filename),
		slog.String("content_type", upload.ContentType),
	)

	log.Info("upload image")

	if err := models.ValidateImageUpload(upload.Filename, upload.ContentType, upload.Size, s.maxSize); err != nil {
		log.Warn("image rejected", sl.Err(err))
		return models.Image{}, fmt.Errorf("%s: %w", op, models.NewValidationError("file", err.Error()))
	}

	body := upload.Body
	if format, ok := resizable[upload.ContentType]; ok && s.maxWidth > 0 {
		resized, err := s.downscale(upload.Body, format)
		if err != nil {
			log.Warn("image could not be decoded", sl.Err(err))
			return models.Image{}, fmt.Errorf("%s: %w", op, models.NewValidationError("file", "file is not a readable image"))
		}
		body = resized
	}

	name := s.objectName(upload.Filename, upload.ContentType)

	img, err := s.fileStorage.Save(ctx, name, upload.ContentType, body)
	if err != nil {
		log.Error("failed to save file", sl.Err(err))
		return models.Image{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image stored", slog.String("name", img.Name), slog.Int64("size", img.Size))
	return img, nil
}

func (s *MediaService) downscale(r io.Reader, format imaging.Format) (io.Reader, error) {
	limited := io.LimitReader(r, s.maxSize+1)
	if s.maxSize <= 0 {
		limited = r
	}

	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}

	src, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if src.Bounds().Dx() <= s.maxWidth {
		return bytes.NewReader(raw), nil
	}

	dst := imaging.Resize(src, s.maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, format); err != nil {
		return nil, err
	}

	return &buf, nil
}

// objectName builds a flat, URL safe name prefixed with the upload time.
func (s *MediaService) objectName(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if want, ok := extensions[contentType]; ok && ext != want && !(ext == ".jpeg" && want == ".jpg") {
		ext = want
	}

	base := slug.Generate(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}

	return fmt.Sprintf("%d-%s%s", s.now().UnixNano(), base, ext)
}

func (s *MediaService) ListImages(ctx context.Context) ([]models.Image, error) {
	const op = "media_service.ListImages"

	images, err := s.fileStorage.List(ctx)
	if err != nil {
		s.log.Error("failed to list images", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if images == nil {
		images = []models.Image{}
	}

	return images, nil
}

func (s *MediaService) DeleteImage(ctx context.Context, name string) error {
	const op = "media_service.DeleteImage"

	if name == "" {
		return fmt.Errorf("%s: %w", op, models.NewValidationError("name", "name is required"))
	}

	if err := s.fileStorage.Delete(ctx, name); err != nil {
		switch {
		case errors.Is(err, storage.ErrFileNotFound), errors.Is(err, storage.ErrInvalidFileName):
		default:
			s.log.Error("failed to delete image", slog.String("op", op), sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("image deleted", slog.String("op", op), slog.String("name", name))
	return nil
}
