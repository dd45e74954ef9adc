package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

const certificationSheet = "Certifications"

type certificationService struct {
	repo          repositories.Repository
	logger        *slog.Logger
	fallbackImage string
}

func NewCertificationService(repo repositories.Repository, logger *slog.Logger, fallbackImage string) CertificationService {
	return &certificationService{
		repo:          repo,
		logger:        logger,
		fallbackImage: fallbackImage,
	}
}

// List returns the completed courses of profileID, most recent enrollment first
func (s *certificationService) List(ctx context.Context, profileID string) ([]models.EnrollmentRecord, error) {
	exists, err := s.repo.Profile().ExistsByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}
	if !exists {
		return nil, ErrProfileNotFound
	}

	enrollments, err := s.repo.Enrollment().ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	_, completed := models.NormalizeEnrollments(enrollments, s.fallbackImage)
	return completed, nil
}

// Export renders the certification list as an XLSX workbook
func (s *certificationService) Export(ctx context.Context, profileID string) ([]byte, error) {
	records, err := s.List(ctx, profileID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WarnContext(ctx, "Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), certificationSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Course", "Enrolled", "Lessons"}
	if err := f.SetSheetRow(certificationSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			rec.Title,
			rec.Date.Format("2006-01-02"),
			fmt.Sprintf("%d/%d", rec.CompletedLessons, rec.TotalLessons),
		}
		if err := f.SetSheetRow(certificationSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Certifications exported",
		"profile_id", profileID,
		"count", len(records))
	return buf.Bytes(), nil
}
