package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/uli/backend/internal/models"
	"github.com/uli/backend/internal/services"
)

const (
	currentUserKey   = "currentUser"
	sessionUserIDKey = "userID"
)

type AuthMiddleware struct {
	Sessions *session.Store
	Identity *services.IdentityService
}

func NewAuthMiddleware(sessions *session.Store, identity *services.IdentityService) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions, Identity: identity}
}

// LoadPrincipal resolves the session principal, if any, into the request
// locals. Every failure mode degrades to an anonymous request: a missing
// session, a stale user id, or an unreachable store never blocks the route.
func (a *AuthMiddleware) LoadPrincipal(c *fiber.Ctx) error {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return c.Next()
	}

	var id uint
	switch v := sess.Get(sessionUserIDKey).(type) {
	case uint:
		id = v
	case uint64:
		id = uint(v)
	default:
		return c.Next()
	}

	user, err := a.Identity.ResolveUser(c.Context(), id)
	if err != nil || user == nil {
		return c.Next()
	}

	c.Locals(currentUserKey, user)
	c.Locals("userID", strconv.FormatUint(uint64(user.ID), 10))
	return c.Next()
}

func GetCurrentUser(c *fiber.Ctx) *models.User {
	value := c.Locals(currentUserKey)
	if value == nil {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// EstablishSession stores the principal for the given user, allocating the
// session only now (anonymous visits never create one).
func (a *AuthMiddleware) EstablishSession(c *fiber.Ctx, user *models.User) error {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserIDKey, user.ID)
	return sess.Save()
}
