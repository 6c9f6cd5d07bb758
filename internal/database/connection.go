// internal/database/connection.go
package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boatchecker/boatchecker-backend/internal/config"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Single local writer; serialize access instead of fighting sqlite's
	// write lock.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("path", cfg.Path).Info("Database opened")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database")
	} else {
		logrus.Info("Database closed")
	}
}

// RunMigrations applies the additive schema. AutoMigrate only ever adds
// tables and columns, which keeps every earlier schema version readable.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Settings{},
		&models.BoatModel{},
		&models.Inspection{},
		&models.ItemState{},
		&models.SeedMarker{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := ensureSettings(db); err != nil {
		return err
	}

	logrus.Info("Database migrations completed")
	return nil
}

// ensureSettings creates the settings singleton with defaults on first run.
// Existing rows are left untouched; gorm fills newly added columns with their
// declared defaults during AutoMigrate.
func ensureSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Settings{}).Where("key = ?", models.SettingsKey).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}

	if count == 0 {
		if err := db.Create(models.DefaultSettings()).Error; err != nil {
			return fmt.Errorf("failed to create default settings: %w", err)
		}
		logrus.Info("Created default settings for first run")
	}

	return nil
}

// SeedBoatCatalog bulk-replaces the boat model catalog when the bundled
// catalog version differs from the last-seeded version. The clear+insert runs
// in one transaction so a failure leaves the previous catalog intact.
func SeedBoatCatalog(db *gorm.DB, path, version string) error {
	var marker models.SeedMarker
	err := db.Where("key = ?", models.SeedMarkerKey).First(&marker).Error
	if err == nil && marker.Version == version {
		return nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to read seed marker: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read boat catalog %s: %w", path, err)
	}

	var catalog []models.BoatModel
	if err := json.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("failed to parse boat catalog: %w", err)
	}

	err = WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.BoatModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear boat models: %w", err)
		}
		if len(catalog) > 0 {
			if err := tx.CreateInBatches(catalog, 200).Error; err != nil {
				return fmt.Errorf("failed to insert boat models: %w", err)
			}
		}
		marker := models.SeedMarker{Key: models.SeedMarkerKey, Version: version}
		if err := tx.Save(&marker).Error; err != nil {
			return fmt.Errorf("failed to update seed marker: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"models":  len(catalog),
		"version": version,
	}).Info("Boat catalog seeded")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
