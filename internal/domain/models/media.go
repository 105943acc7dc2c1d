package models

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// AllowedImageTypes are the content types accepted by the image uploader.
var AllowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Image is a file kept in the public uploads area.
type Image struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidateImageUpload checks an upload before it is written to storage.
func ValidateImageUpload(filename, contentType string, size, maxSize int64) error {
	var validationErrors []string

	if filename == "" {
		validationErrors = append(validationErrors, "file name is required")
	}
	if len(filename) > 255 {
		validationErrors = append(validationErrors, "file name must be 255 characters or less")
	}
	if size <= 0 {
		validationErrors = append(validationErrors, "file is empty")
	}
	if maxSize > 0 && size > maxSize {
		validationErrors = append(validationErrors, fmt.Sprintf("file exceeds %d bytes", maxSize))
	}
	if !AllowedImageTypes[contentType] {
		validationErrors = append(validationErrors, fmt.Sprintf("content type '%s' is not an image", contentType))
	}

	if len(validationErrors) > 0 {
		return &ImageValidationError{Errors: validationErrors}
	}

	return nil
}

type ImageValidationError struct {
	Errors []string
}

func (e *ImageValidationError) Error() string {
	return fmt.Sprintf("image validation failed: %s", strings.Join(e.Errors, "; "))
}

func IsImageValidationError(err error) bool {
	_, ok := err.(*ImageValidationError)
	return ok
}

// Upload is an incoming file before it reaches storage.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
