package database

import (
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workhive-api/internal/auth"
	"workhive-api/internal/config"
	"workhive-api/internal/models"
)

// Open connects to the SQLite database at path and runs migrations.
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func Open(path string) (*gorm.DB, error) {
	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return nil, err
	}

	return db, nil
}

// SeedAdmin creates the configured admin account if no user with that
// email exists yet. A no-op when the seed settings are empty.
func SeedAdmin(db *gorm.DB, cfg *config.Config, log *logrus.Logger) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.SeedAdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:       uuid.NewString(),
		Name:     "Admin",
		Email:    cfg.SeedAdminEmail,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.WithField("email", cfg.SeedAdminEmail).Info("seeded admin account")
	return nil
}
