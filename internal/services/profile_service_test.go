package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/models"
)

var testSettings = ProfileSettings{
	PlatformOwnerEmail: "Owner@Nova.dev",
	DefaultCourseImage: "/img/default.png",
}

func TestProfileService_AggregateOwnerMode(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.repo, env.logger, env.validator, env.notifier, testSettings)
	ctx := context.Background()

	env.seedProfile(t, "me")
	env.seedEnrollment(t, "me", "Go", 10, 10, time.Now().Add(-time.Hour))
	env.seedEnrollment(t, "me", "Rust", 0, 3, time.Now())
	env.seedEdge(t, "me", "other", models.ConnectionApproved)
	require.NoError(t, env.db.Create(&models.ProfileLanguage{ProfileID: "me", Name: "Portuguese", Level: "native"}).Error)

	view, err := svc.Aggregate(ctx, "me", "")
	require.NoError(t, err)

	assert.True(t, view.OwnerMode)
	assert.False(t, view.CanConnect)
	assert.Nil(t, view.Relation)
	assert.Equal(t, models.ConnectionStats{Following: 1, Network: 1}, view.Stats)
	require.Len(t, view.Courses, 2)
	assert.Equal(t, "Rust", view.Courses[0].Title)
	assert.False(t, view.Courses[0].Completed)
	assert.Equal(t, "/img/default.png", view.Courses[0].Image)
	require.Len(t, view.CompletedCourses, 1)
	assert.Equal(t, "Go", view.CompletedCourses[0].Title)
	require.Len(t, view.Languages, 1)
	assert.Empty(t, view.Goals)
}

func TestProfileService_AggregateVisitorMode(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.repo, env.logger, env.validator, env.notifier, testSettings)
	ctx := context.Background()

	owner := &models.Profile{ID: "owner", DisplayName: "Owner", Email: "owner@nova.dev"}
	require.NoError(t, env.db.Create(owner).Error)
	env.seedProfile(t, "visitor")
	goals, err := models.NewOnboardingGoals("owner", []string{"teach", "ship"})
	require.NoError(t, err)
	require.NoError(t, env.db.Create(goals).Error)

	view, err := svc.Aggregate(ctx, "visitor", "owner")
	require.NoError(t, err)
	assert.False(t, view.OwnerMode)
	assert.True(t, view.Profile.IsPlatformOwner)
	assert.Equal(t, []string{"teach", "ship"}, view.Goals)
	require.NotNil(t, view.Relation)
	assert.Equal(t, models.RelationNone, view.Relation.Status)
	assert.True(t, view.CanConnect)

	env.seedEdge(t, "visitor", "owner", models.ConnectionPending)
	view, err = svc.Aggregate(ctx, "visitor", "owner")
	require.NoError(t, err)
	assert.Equal(t, models.RelationPending, view.Relation.Status)
	assert.False(t, view.CanConnect)

	anonymous, err := svc.Aggregate(ctx, "", "owner")
	require.NoError(t, err)
	assert.False(t, anonymous.CanConnect)
	assert.Nil(t, anonymous.Relation)
}

func TestProfileService_AggregateDegradesFailedSlices(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(faultyRepository{env.repo}, env.logger, env.validator, env.notifier, testSettings)
	env.seedProfile(t, "target")
	env.seedEnrollment(t, "target", "Go", 1, 1, time.Now())

	view, err := svc.Aggregate(context.Background(), "viewer", "target")
	require.NoError(t, err)

	assert.Equal(t, models.ConnectionStats{}, view.Stats)
	assert.Empty(t, view.Languages)
	assert.NotNil(t, view.Languages)
	assert.Empty(t, view.Goals)
	assert.Equal(t, models.RelationNone, view.Relation.Status)
	assert.Len(t, view.CompletedCourses, 1)
}

func TestProfileService_AggregateErrors(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.repo, env.logger, env.validator, env.notifier, testSettings)

	_, err := svc.Aggregate(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Aggregate(context.Background(), "me", "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	env.seedProfile(t, "target")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Aggregate(ctx, "me", "target")
	assert.Error(t, err)
}

func TestProfileService_UpdateOwnProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.repo, env.logger, env.validator, env.notifier, testSettings)
	ctx := context.Background()
	env.seedProfile(t, "me")

	_, err := svc.UpdateOwnProfile(ctx, "", &models.UpdateProfileRequest{DisplayName: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.UpdateOwnProfile(ctx, "me", &models.UpdateProfileRequest{DisplayName: ""})
	var ve ValidationErrors
	assert.True(t, errors.As(err, &ve))

	photo := "https://cdn.nova.dev/me.png"
	bio := "  "
	updated, err := svc.UpdateOwnProfile(ctx, "me", &models.UpdateProfileRequest{
		DisplayName: "  New Name ",
		PhotoURL:    &photo,
		Bio:         &bio,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)
	assert.Equal(t, photo, *updated.PhotoURL)
	assert.Nil(t, updated.Bio)
	assert.Equal(t, []string{"me"}, env.users.invalidated)

	// the cached row was invalidated, so a fresh read sees the change
	view, err := svc.Aggregate(ctx, "me", "me")
	require.NoError(t, err)
	assert.Equal(t, "New Name", view.Profile.DisplayName)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventProfileUpdated, published[0].Type)

	_, err = svc.UpdateOwnProfile(ctx, "ghost", &models.UpdateProfileRequest{DisplayName: "Ghost"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_EnsureProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.repo, env.logger, env.validator, env.notifier, testSettings)
	ctx := context.Background()
	identity := &models.User{ID: "cas-1", Name: "ana", DisplayName: "Ana", Email: "OWNER@nova.dev"}

	first, err := svc.EnsureProfile(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.DisplayName)
	assert.True(t, first.IsPlatformOwner)

	identity.DisplayName = "Renamed"
	second, err := svc.EnsureProfile(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "Ana", second.DisplayName)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventProfileCreated, published[0].Type)

	_, err = svc.EnsureProfile(ctx, &models.User{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCertificationService(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCertificationService(env.repo, env.logger, "/img/default.png")
	ctx := context.Background()
	env.seedProfile(t, "me")
	env.seedEnrollment(t, "me", "Go", 4, 4, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	env.seedEnrollment(t, "me", "Rust", 4, 1, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC))

	records, err := svc.List(ctx, "me")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Go", records[0].Title)

	_, err = svc.List(ctx, "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	data, err := svc.Export(ctx, "me")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(certificationSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Course", "Enrolled", "Lessons"}, rows[0])
	assert.Equal(t, []string{"Go", "2025-01-02", "4/4"}, rows[1])
}
