package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uli/backend/internal/models"
	"github.com/uli/backend/internal/store"
	"github.com/uli/backend/pkg/logger"
)

type IdentityService struct {
	Users   store.UserStore
	Timeout time.Duration
}

func NewIdentityService(users store.UserStore, timeout time.Duration) *IdentityService {
	return &IdentityService{Users: users, Timeout: timeout}
}

// FindOrCreateUser maps a verified provider profile to a local user row.
// An existing user is returned unchanged; there is no profile sync on login.
func (s *IdentityService) FindOrCreateUser(ctx context.Context, profile *Profile) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.Users.ByGoogleID(ctx, profile.GoogleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrIdentityBackend, err)
	}

	user = &models.User{
		Email:    profile.Email,
		GoogleID: profile.GoogleID,
	}
	createErr := s.Users.Create(ctx, user)
	if createErr == nil {
		logger.Info("user_created", map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
		return user, nil
	}

	// Two first-time logins for the same identity can race; the loser of the
	// unique-constraint race must return the winner's row, not fail.
	existing, requeryErr := s.Users.ByGoogleID(ctx, profile.GoogleID)
	if requeryErr == nil {
		return existing, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrIdentityBackend, createErr)
}

// ResolveUser deserializes a session principal. A stale id (user row gone)
// resolves to an absent principal, not an error.
func (s *IdentityService) ResolveUser(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.Users.ByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityBackend, err)
	}
	return user, nil
}

func (s *IdentityService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.Timeout)
}
