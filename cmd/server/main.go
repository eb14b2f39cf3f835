package main

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/uli/backend/internal/config"
	"github.com/uli/backend/internal/database"
	"github.com/uli/backend/internal/handlers"
	"github.com/uli/backend/internal/middleware"
	"github.com/uli/backend/internal/services"
	"github.com/uli/backend/internal/store"
	"github.com/uli/backend/pkg/logger"
)

func main() {
	logger.Init()

	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	users := store.NewGormUserStore(db)
	files := store.NewGormFileStore(db)

	identityService := services.NewIdentityService(users, cfg.DB.Timeout)
	fileService := services.NewFileService(files, cfg.DB.Timeout)
	oauthService := services.NewGoogleOAuthService(cfg.Google)

	sessions := session.New(session.Config{
		Expiration:     cfg.Session.Expiration,
		KeyLookup:      "cookie:uli_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	authMiddleware := middleware.NewAuthMiddleware(sessions, identityService)
	authHandler := handlers.NewAuthHandler(oauthService, identityService, authMiddleware)
	filesHandler := handlers.NewFilesHandler(fileService, cfg.Files.AttachOwner)

	app := fiber.New()
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cookieKey(cfg.Session.Secret)}))
	app.Use(middleware.RequestLogger())
	app.Use(authMiddleware.LoadPrincipal)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Server is online")
	})

	app.Get("/auth/google", authHandler.GoogleLogin)
	app.Get("/auth/google/callback", authHandler.GoogleCallback)

	textRoutes := app.Group("/text")
	textRoutes.Post("/", filesHandler.UploadText)
	textRoutes.Get("/all", filesHandler.ListAll)
	textRoutes.Get("/count", filesHandler.Count)
	textRoutes.Get("/search", filesHandler.Search)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}

// cookieKey derives the 32-byte key the cookie middleware expects from the
// configured session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
