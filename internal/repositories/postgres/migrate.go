package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/social-service/internal/models"
)

// Models lists every table owned by the social service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.ProfileLanguage{},
		&models.ProfileInterest{},
		&models.ProfileSkill{},
		&models.OnboardingGoals{},
		&models.Course{},
		&models.Enrollment{},
		&models.Connection{},
		&models.Post{},
		&models.Reaction{},
		&models.Comment{},
	}
}

// Migrate creates or updates the schema, including the unique indexes the
// connection and reaction upserts rely on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
