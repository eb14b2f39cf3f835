package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uli/backend/internal/middleware"
	"github.com/uli/backend/internal/services"
	"github.com/uli/backend/pkg/logger"
)

const (
	stateCookieName = "oauth_state"
	loginFailureURL = "/login"
)

type AuthHandler struct {
	OAuth    *services.GoogleOAuthService
	Identity *services.IdentityService
	Auth     *middleware.AuthMiddleware
}

func NewAuthHandler(oauth *services.GoogleOAuthService, identity *services.IdentityService, auth *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{OAuth: oauth, Identity: identity, Auth: auth}
}

// GoogleLogin sends the browser to the Google consent page. The state nonce
// is pinned in a short-lived cookie so the callback can reject forged
// redirects.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state, err := h.OAuth.GenerateState()
	if err != nil {
		logger.Error("oauth_state_failed", err, nil)
		return c.Redirect(loginFailureURL, fiber.StatusFound)
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(h.OAuth.AuthCodeURL(state), fiber.StatusFound)
}

// GoogleCallback finishes the handshake. This is a browser-facing flow, so
// every failure redirects to the login failure page instead of rendering a
// JSON error.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	storedState := c.Cookies(stateCookieName)
	clearStateCookie(c)

	if providerErr := c.Query("error"); providerErr != "" {
		logger.Warn("oauth_denied", map[string]interface{}{
			"error": providerErr,
		})
		return c.Redirect(loginFailureURL, fiber.StatusFound)
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || storedState == "" || storedState != state {
		logger.Warn("oauth_state_mismatch", map[string]interface{}{
			"has_code":  code != "",
			"has_state": storedState != "",
		})
		return c.Redirect(loginFailureURL, fiber.StatusFound)
	}

	token, err := h.OAuth.Exchange(c.Context(), code)
	if err != nil {
		return c.Redirect(loginFailureURL, fiber.StatusFound)
	}

	profile, err := h.OAuth.FetchProfile(c.Context(), token)
	if err != nil {
		logger.Warn("oauth_profile_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return c.Redirect(loginFailureURL, fiber.StatusFound)
	}

	user, err := h.Identity.FindOrCreateUser(c.Context(), profile)
	if err != nil {
		logger.Error("login_identity_failed", err, map[string]interface{}{
			"google_id": profile.GoogleID,
		})
		return c.Redirect(loginFailureURL, fiber.StatusFound)
	}

	if err := h.Auth.EstablishSession(c, user); err != nil {
		logger.Error("session_save_failed", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return c.Redirect(loginFailureURL, fiber.StatusFound)
	}

	logger.InfoWithUser(strconv.FormatUint(uint64(user.ID), 10), "login_success", map[string]interface{}{
		"email": user.Email,
	})

	return c.Redirect("/", fiber.StatusFound)
}

func clearStateCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
