// Package store is the row-store adapter: every query the service issues
// goes through these interfaces with bound parameters, so the rest of the
// code never sees which relational engine is underneath.
package store

import (
	"context"
	"errors"

	"github.com/uli/backend/internal/models"
)

var (
	// ErrNotFound distinguishes "zero rows" from a query failure.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("store: duplicate key")
)

type UserStore interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type FileStore interface {
	Create(ctx context.Context, file *models.File) error
	ListAll(ctx context.Context) ([]models.File, error)
	Count(ctx context.Context) (int64, error)
	// SearchByName matches name against query as a case-sensitive substring.
	SearchByName(ctx context.Context, query string) ([]models.File, error)
}
