package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alpha53/virtualteacher/internal/config"
	"github.com/alpha53/virtualteacher/internal/models"
)

// InitDatabase opens the PostgreSQL connection and migrates the schema
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Topic{},
		&models.Course{},
		&models.CourseDescription{},
		&models.Lecture{},
		&models.LectureDescription{},
		&models.Solution{},
		&models.Rating{},
		&models.Enrollment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
