package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/uli/backend/internal/config"
	"github.com/uli/backend/internal/middleware"
	"github.com/uli/backend/internal/models"
	"github.com/uli/backend/internal/services"
	"github.com/uli/backend/internal/store"
	"github.com/uli/backend/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.Exec("PRAGMA case_sensitive_like = ON").Error; err != nil {
		t.Fatalf("failed enabling case sensitive like: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.File{}); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	users := store.NewGormUserStore(db)
	files := store.NewGormFileStore(db)

	identityService := services.NewIdentityService(users, 5*time.Second)
	fileService := services.NewFileService(files, 5*time.Second)
	oauthService := services.NewGoogleOAuthService(config.GoogleConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		CallbackURL:  "http://localhost:3001/auth/google/callback",
	})

	sessions := session.New(session.Config{
		Expiration:     time.Hour,
		KeyLookup:      "cookie:uli_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	authMiddleware := middleware.NewAuthMiddleware(sessions, identityService)
	authHandler := NewAuthHandler(oauthService, identityService, authMiddleware)
	filesHandler := NewFilesHandler(fileService, true)

	app := fiber.New()
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
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

	return &testEnv{app: app, db: db}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	headers := map[string]string{}
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
		headers["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, headers)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func fileCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.File{}).Count(&count).Error; err != nil {
		t.Fatalf("failed counting files: %v", err)
	}
	return count
}

func seedFile(t *testing.T, db *gorm.DB, name, content string) {
	t.Helper()

	if err := db.Create(&models.File{Name: name, Content: content}).Error; err != nil {
		t.Fatalf("failed seeding file %q: %v", name, err)
	}
}
