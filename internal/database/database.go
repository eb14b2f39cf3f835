package database

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/uli/backend/internal/config"
	"github.com/uli/backend/internal/models"
	"github.com/uli/backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured row store. Two interchangeable engines are
// supported: postgres for deployments, sqlite for the lightweight variant
// and for tests.
func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(cfg.Driver, "sqlite") {
		// sqlite's LIKE is case-insensitive by default; searches must behave
		// the same on both engines.
		if err := db.Exec("PRAGMA case_sensitive_like = ON").Error; err != nil {
			return nil, err
		}
	}

	// Create-if-absent is idempotent; a failure here usually means the schema
	// already exists in an incompatible shape, which is still a servable
	// state, so it is a startup warning rather than a crash.
	if err := migrate(db); err != nil {
		logger.Warn("schema_migrate_failed", map[string]interface{}{
			"driver": cfg.Driver,
			"error":  err.Error(),
		})
	}

	logger.Info("database_connected", map[string]interface{}{
		"driver": cfg.Driver,
	})

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.File{},
	)
}
