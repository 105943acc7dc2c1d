package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"site_cms/internal/domain/models"
	"site_cms/internal/storage"
)

// FileStorage keeps uploaded images under flat object names.
type FileStorage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (models.Image, error)
	List(ctx context.Context) ([]models.Image, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// LocalFileStorage stores files in a directory served statically under baseURL.
type LocalFileStorage struct {
	baseDir string
	baseURL string
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (models.Image, error) {
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}
	if err := checkName(name); err != nil {
		return models.Image{}, err
	}

	filePath := filepath.Join(s.baseDir, name)

	dst, err := os.Create(filePath)
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, r)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return models.Image{}, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return models.Image{}, ctx.Err()
	}

	info, err := dst.Stat()
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to stat file: %w", err)
	}

	return models.Image{
		Name:        name,
		URL:         s.URL(name),
		Size:        size,
		ContentType: contentType,
		CreatedAt:   info.ModTime().UTC(),
	}, nil
}

// List returns the stored files, newest first.
func (s *LocalFileStorage) List(ctx context.Context) ([]models.Image, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload dir: %w", err)
	}

	images := make([]models.Image, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		images = append(images, models.Image{
			Name:        entry.Name(),
			URL:         s.URL(entry.Name()),
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(entry.Name())),
			CreatedAt:   info.ModTime().UTC(),
		})
	}

	sortNewestFirst(images)
	return images, nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.baseDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return storage.ErrFileNotFound
	}
	return err
}

func (s *LocalFileStorage) URL(name string) string {
	return s.baseURL + "/" + name
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

// checkName rejects anything that is not a plain file name.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return storage.ErrInvalidFileName
	}
	return nil
}

func sortNewestFirst(images []models.Image) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].Name < images[j].Name
		}
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
}
