// Package profile implements profile creation with a picture uploaded to
// object storage, plus profile listing.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gatecode/internal/storage"
)

const (
	// MaxFilenameLength bounds uploaded picture filenames
	MaxFilenameLength = 255
	// MaxPictureSize bounds uploaded picture size
	MaxPictureSize = 10 * 1024 * 1024 // 10MB
)

// ErrStorageUnavailable is returned when no object storage is configured
var ErrStorageUnavailable = errors.New("object storage not configured")

// allowedPictureTypes is the whitelist of accepted picture content types
var allowedPictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store defines the persistence operations the profile service needs
type Store interface {
	Create(ctx context.Context, p *Profile) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
}

// Service handles business logic for profiles
type Service struct {
	store   Store
	storage storage.Service
	now     func() time.Time
}

// NewService creates a new profile service
func NewService(store Store, storage storage.Service) *Service {
	return &Service{
		store:   store,
		storage: storage,
		now:     time.Now,
	}
}

// ValidateFilename checks that an uploaded filename is safe to use in an
// object key
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(filename) > MaxFilenameLength {
		return fmt.Errorf("filename too long (max %d characters)", MaxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		return fmt.Errorf("filename contains invalid characters")
	}
	if filepath.Ext(filename) == "" {
		return fmt.Errorf("filename must have an extension")
	}
	return nil
}

// ValidateContentType checks that the picture content type is allowed
func ValidateContentType(contentType string) error {
	if !allowedPictureTypes[contentType] {
		return fmt.Errorf("content type %s is not allowed", contentType)
	}
	return nil
}

// Create uploads the profile picture and persists the profile with the
// resulting object URL.
func (s *Service) Create(ctx context.Context, p *Profile, filename, contentType string, picture io.Reader) (*Profile, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if err := ValidateFilename(filename); err != nil {
		return nil, fmt.Errorf("invalid filename: %w", err)
	}
	if err := ValidateContentType(contentType); err != nil {
		return nil, fmt.Errorf("invalid content type: %w", err)
	}

	key := fmt.Sprintf("%d-%s", s.now().UnixMilli(), filename)

	pictureURL, err := s.storage.Upload(ctx, key, contentType, picture)
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile picture: %w", err)
	}

	p.ProfilePicture = pictureURL

	return s.store.Create(ctx, p)
}

// List returns all profiles
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.store.List(ctx)
}
