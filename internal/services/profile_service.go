package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/metrics"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/realtime"
	"github.com/SAP-F-2025/social-service/internal/repositories"
	"github.com/SAP-F-2025/social-service/internal/validator"
)

// ProfileSettings carries the configuration the profile page depends on
type ProfileSettings struct {
	PlatformOwnerEmail string
	DefaultCourseImage string
}

type profileService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  *changeNotifier
	settings  ProfileSettings
}

func NewProfileService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, notifier *changeNotifier, settings ProfileSettings) ProfileService {
	return &profileService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
		settings:  settings,
	}
}

// Aggregate builds the profile page of targetID as seen by viewerID. The
// profile row is mandatory; every other slice degrades to its zero value when
// its query fails.
func (s *profileService) Aggregate(ctx context.Context, viewerID, targetID string) (*models.ProfileView, error) {
	if targetID == "" {
		targetID = viewerID
	}
	if targetID == "" {
		return nil, ErrUnauthenticated
	}

	profile, err := s.repo.Profile().GetByID(ctx, targetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	profile.MarkPlatformOwner(s.settings.PlatformOwnerEmail)

	view := &models.ProfileView{
		Profile:          profile,
		OwnerMode:        viewerID != "" && viewerID == targetID,
		Courses:          []models.EnrollmentRecord{},
		CompletedCourses: []models.EnrollmentRecord{},
		Languages:        []models.ProfileLanguage{},
		Interests:        []models.ProfileInterest{},
		Skills:           []models.ProfileSkill{},
		Goals:            []string{},
	}

	var (
		enrollments []models.Enrollment
		edges       []models.Connection
		languages   []models.ProfileLanguage
		interests   []models.ProfileInterest
		skills      []models.ProfileSkill
		goals       *models.OnboardingGoals
		relation    *models.Connection
	)

	g, gctx := errgroup.WithContext(ctx)
	s.slice(g, gctx, "enrollments", targetID, func() (err error) {
		enrollments, err = s.repo.Enrollment().ListByProfile(gctx, targetID)
		return err
	})
	s.slice(g, gctx, "stats", targetID, func() (err error) {
		edges, err = s.repo.Connection().ListByProfile(gctx, targetID)
		return err
	})
	s.slice(g, gctx, "languages", targetID, func() (err error) {
		languages, err = s.repo.Onboarding().Languages(gctx, targetID)
		return err
	})
	s.slice(g, gctx, "interests", targetID, func() (err error) {
		interests, err = s.repo.Onboarding().Interests(gctx, targetID)
		return err
	})
	s.slice(g, gctx, "skills", targetID, func() (err error) {
		skills, err = s.repo.Onboarding().Skills(gctx, targetID)
		return err
	})
	if !view.OwnerMode {
		s.slice(g, gctx, "goals", targetID, func() (err error) {
			goals, err = s.repo.Onboarding().Goals(gctx, targetID)
			return err
		})
		if viewerID != "" {
			s.slice(g, gctx, "relation", targetID, func() error {
				conn, err := s.repo.Connection().GetBetween(gctx, viewerID, targetID)
				if repositories.IsNotFoundError(err) {
					return nil
				}
				relation = conn
				return err
			})
		}
	}
	_ = g.Wait()

	// a cancelled request discards whatever arrived late
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view.Courses, view.CompletedCourses = models.NormalizeEnrollments(enrollments, s.settings.DefaultCourseImage)
	view.Stats = models.CountConnections(targetID, edges)
	if languages != nil {
		view.Languages = languages
	}
	if interests != nil {
		view.Interests = interests
	}
	if skills != nil {
		view.Skills = skills
	}

	if !view.OwnerMode {
		view.Goals = goals.List()
		if viewerID != "" {
			rel := models.RelationFromConnection(viewerID, relation)
			view.Relation = &rel
			view.CanConnect = rel.Status == models.RelationNone
		}
	}

	return view, nil
}

// slice runs one aggregation query. Failures are logged and counted but never
// returned, so one slice cannot cancel its siblings.
func (s *profileService) slice(g *errgroup.Group, ctx context.Context, name, profileID string, fn func() error) {
	g.Go(func() error {
		if err := fn(); err != nil {
			if ctx.Err() == nil {
				metrics.AggregationSliceFailures.WithLabelValues(name).Inc()
			}
			s.logger.WarnContext(ctx, "Profile slice failed",
				"slice", name,
				"profile_id", profileID,
				"error", err)
		}
		return nil
	})
}

func (s *profileService) UpdateOwnProfile(ctx context.Context, viewerID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if viewerID == "" {
		return nil, ErrUnauthenticated
	}
	if errs := s.validator.GetBusinessValidator().ValidateProfileUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	profile, err := s.repo.Profile().GetByID(ctx, viewerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.DisplayName = strings.TrimSpace(req.DisplayName)
	profile.PhotoURL = normalizeOptional(req.PhotoURL)
	profile.Bio = normalizeOptional(req.Bio)

	if err := s.repo.Profile().Update(ctx, profile); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := s.repo.User().Invalidate(ctx, viewerID); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate identity cache",
			"profile_id", viewerID,
			"error", err)
	}

	s.logger.InfoContext(ctx, "Profile updated", "profile_id", viewerID)
	s.notifier.notify(ctx, events.EventProfileUpdated, map[string]interface{}{
		"profile_id":   viewerID,
		"display_name": profile.DisplayName,
	}, &realtime.ChangeEvent{
		Table:   "profiles",
		Action:  realtime.ActionUpdate,
		RowID:   viewerID,
		Filters: map[string]string{"id": viewerID},
		Data:    profile.Summary(),
	})

	profile.MarkPlatformOwner(s.settings.PlatformOwnerEmail)
	return profile, nil
}

// EnsureProfile provisions the profile row of a signed-in identity on first use
func (s *profileService) EnsureProfile(ctx context.Context, identity *models.User) (*models.Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrUnauthenticated
	}

	profile, created, err := s.repo.Profile().FirstOrCreate(ctx, models.NewProfileFromUser(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to provision profile: %w", err)
	}

	if created {
		s.logger.InfoContext(ctx, "Profile provisioned", "profile_id", profile.ID)
		s.notifier.notify(ctx, events.EventProfileCreated, map[string]interface{}{
			"profile_id": profile.ID,
		}, nil)
	}

	profile.MarkPlatformOwner(s.settings.PlatformOwnerEmail)
	return profile, nil
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
