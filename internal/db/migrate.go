package db

import (
	"budget_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Open connects to MySQL. Duplicate-key errors are translated to gorm.ErrDuplicatedKey.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info // Log every statement
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,                          // Map driver errors to gorm errors
		Logger:         logger.Default.LogMode(level), // SQL logging
	})
}

// Migrate creates or updates the tables, foreign keys and indexes
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.Role{}, &domain.User{}, &domain.Transaction{}); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
