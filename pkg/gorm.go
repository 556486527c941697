package pkg

import (
	"fmt"

	"github.com/lzytourist/digital-classroom/internal/config"
	"github.com/lzytourist/digital-classroom/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Info
	} else {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for all persistent models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.PasswordResetCode{},
		&models.TeacherProfile{},
		&models.StudentProfile{},
		&models.AuditLog{},
		&models.Routine{},
		&models.Notice{},
		&models.Class{},
		&models.Assignment{},
	)
}
