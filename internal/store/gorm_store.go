package store

import (
	"context"
	"errors"
	"strings"

	"github.com/uli/backend/internal/models"
	"gorm.io/gorm"
)

type GormUserStore struct {
	DB *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormUserStore) ByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "google_id = ?", googleID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

type GormFileStore struct {
	DB *gorm.DB
}

func NewGormFileStore(db *gorm.DB) *GormFileStore {
	return &GormFileStore{DB: db}
}

func (s *GormFileStore) Create(ctx context.Context, file *models.File) error {
	return translate(s.DB.WithContext(ctx).Create(file).Error)
}

func (s *GormFileStore) ListAll(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := s.DB.WithContext(ctx).Find(&files).Error; err != nil {
		return nil, translate(err)
	}
	return files, nil
}

func (s *GormFileStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.File{}).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (s *GormFileStore) SearchByName(ctx context.Context, query string) ([]models.File, error) {
	var files []models.File
	pattern := "%" + escapeLike(query) + "%"
	err := s.DB.WithContext(ctx).
		Where(`name LIKE ? ESCAPE '\'`, pattern).
		Find(&files).Error
	if err != nil {
		return nil, translate(err)
	}
	return files, nil
}

// escapeLike makes LIKE metacharacters in the user's query match literally.
func escapeLike(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(q)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
