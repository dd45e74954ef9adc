package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

// ListByProfile returns enrollments newest first with their course preloaded
func (e *EnrollmentPostgreSQL) ListByProfile(ctx context.Context, profileID string) ([]models.Enrollment, error) {
	var rows []models.Enrollment
	err := e.db.WithContext(ctx).
		Preload("Course").
		Where("profile_id = ?", profileID).
		Order("enrolled_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "failed to list enrollments")
	}
	return rows, nil
}

type OnboardingPostgreSQL struct {
	db *gorm.DB
}

func NewOnboardingPostgreSQL(db *gorm.DB) repositories.OnboardingRepository {
	return &OnboardingPostgreSQL{db: db}
}

func (o *OnboardingPostgreSQL) Languages(ctx context.Context, profileID string) ([]models.ProfileLanguage, error) {
	var rows []models.ProfileLanguage
	if err := o.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to list languages")
	}
	return rows, nil
}

func (o *OnboardingPostgreSQL) Interests(ctx context.Context, profileID string) ([]models.ProfileInterest, error) {
	var rows []models.ProfileInterest
	if err := o.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to list interests")
	}
	return rows, nil
}

func (o *OnboardingPostgreSQL) Skills(ctx context.Context, profileID string) ([]models.ProfileSkill, error) {
	var rows []models.ProfileSkill
	if err := o.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to list skills")
	}
	return rows, nil
}

func (o *OnboardingPostgreSQL) Goals(ctx context.Context, profileID string) (*models.OnboardingGoals, error) {
	var rows []models.OnboardingGoals
	if err := o.db.WithContext(ctx).Where("profile_id = ?", profileID).Limit(1).Find(&rows).Error; err != nil {
		return nil, translateError(err, "failed to get onboarding goals")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
