package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uli/backend/internal/models"
	"github.com/uli/backend/internal/store"
)

// uploadName is the fixed record name for text uploads; the endpoint does
// not accept a caller-supplied name.
const uploadName = "text"

type FileService struct {
	Files   store.FileStore
	Timeout time.Duration
}

func NewFileService(files store.FileStore, timeout time.Duration) *FileService {
	return &FileService{Files: files, Timeout: timeout}
}

// CreateText validates and inserts a text upload. The text value comes in as
// decoded JSON, so anything other than a string (including a missing or null
// field) is a validation failure. The empty string is a valid file.
func (s *FileService) CreateText(ctx context.Context, text any, ownerID *uint) (*models.File, error) {
	content, ok := text.(string)
	if !ok {
		return nil, newFieldError("Text must be a string", "text")
	}

	file := &models.File{
		Name:    uploadName,
		Content: content,
		OwnerID: ownerID,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.Files.Create(ctx, file); err != nil {
		return nil, storeError(err)
	}
	return file, nil
}

func (s *FileService) ListAll(ctx context.Context) ([]models.File, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	files, err := s.Files.ListAll(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return files, nil
}

func (s *FileService) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	count, err := s.Files.Count(ctx)
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

// SearchByName returns files whose name contains query as a case-sensitive
// substring. Zero matches is ErrNoFiles, never an empty success.
func (s *FileService) SearchByName(ctx context.Context, query string) ([]models.File, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	files, err := s.Files.SearchByName(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

func (s *FileService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStorageTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
