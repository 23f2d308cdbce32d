package repositories

import (
	"fmt"
	"time"

	"autolog/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGORM connects to postgres or sqlite. Driver errors such as unique
// violations are translated to gorm sentinels. Slow queries and errors go to
// w at warn level; a nil w silences gorm entirely.
func OpenGORM(driver, dsn string, w logger.Writer) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	gormLogger := logger.Discard
	if w != nil {
		// lookups that miss are answered with ErrNotFound, not logged
		gormLogger = logger.New(w, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// sqlite allows a single writer; one connection keeps the counter
		// upsert from failing with SQLITE_BUSY under concurrent requests.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables for every AutoLog model.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Counter{}, &models.User{}, &models.Car{}, &models.CarNote{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
