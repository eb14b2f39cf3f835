package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/uli/backend/internal/models"
	"github.com/uli/backend/internal/store"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	return db
}

func newTestStores(t *testing.T) (*gorm.DB, *store.GormUserStore, *store.GormFileStore) {
	t.Helper()

	db := newTestDB(t)
	return db, store.NewGormUserStore(db), store.NewGormFileStore(db)
}
