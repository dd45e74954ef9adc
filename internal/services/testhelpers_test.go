package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/realtime"
	"github.com/SAP-F-2025/social-service/internal/repositories"
	"github.com/SAP-F-2025/social-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/social-service/internal/validator"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	users     *stubDirectory
	publisher *events.MockEventPublisher
	hub       *realtime.Hub
	logger    *slog.Logger
	validator *validator.Validator
	notifier  *changeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := &stubDirectory{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(log)
	hub := realtime.NewHub(log)

	return &testEnv{
		db: db,
		repo: postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
			DB:             db,
			RedisClient:    rdb,
			UserRepository: users,
		}),
		users:     users,
		publisher: publisher,
		hub:       hub,
		logger:    log,
		validator: validator.New(),
		notifier:  newChangeNotifier(publisher, hub, log),
	}
}

func (e *testEnv) seedProfile(t *testing.T, id string) *models.Profile {
	t.Helper()
	p := &models.Profile{ID: id, DisplayName: "User " + id, Email: id + "@nova.dev"}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) seedPost(t *testing.T, slug string) *models.Post {
	t.Helper()
	p := &models.Post{Slug: slug, AuthorID: "author", Title: slug}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) seedEdge(t *testing.T, requester, recipient string, status models.ConnectionStatus) *models.Connection {
	t.Helper()
	c := &models.Connection{
		RequesterID: requester,
		RecipientID: recipient,
		Status:      status,
		PairKey:     models.PairKey(requester, recipient),
	}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) seedEnrollment(t *testing.T, profileID, title string, total, completed int, enrolledAt time.Time) {
	t.Helper()
	course := &models.Course{Title: title, TotalLessons: total}
	require.NoError(t, e.db.Create(course).Error)
	require.NoError(t, e.db.Omit("Course").Create(&models.Enrollment{
		ProfileID:        profileID,
		CourseID:         course.ID,
		EnrolledAt:       enrolledAt,
		CompletedLessons: completed,
	}).Error)
}

// stubDirectory is an in-memory identity directory
type stubDirectory struct {
	users       map[string]*models.User
	err         error
	invalidated []string
}

func (s *stubDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubDirectory) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubDirectory) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (s *stubDirectory) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (s *stubDirectory) Invalidate(ctx context.Context, id string) error {
	s.invalidated = append(s.invalidated, id)
	return nil
}

var errBoom = errors.New("boom")

// faultyRepository fails every onboarding and connection query
type faultyRepository struct {
	repositories.Repository
}

func (f faultyRepository) Onboarding() repositories.OnboardingRepository { return failingOnboarding{} }
func (f faultyRepository) Connection() repositories.ConnectionRepository { return failingConnections{} }

type failingOnboarding struct{}

func (failingOnboarding) Languages(context.Context, string) ([]models.ProfileLanguage, error) {
	return nil, errBoom
}
func (failingOnboarding) Interests(context.Context, string) ([]models.ProfileInterest, error) {
	return nil, errBoom
}
func (failingOnboarding) Skills(context.Context, string) ([]models.ProfileSkill, error) {
	return nil, errBoom
}
func (failingOnboarding) Goals(context.Context, string) (*models.OnboardingGoals, error) {
	return nil, errBoom
}

type failingConnections struct{}

func (failingConnections) ListByProfile(context.Context, string) ([]models.Connection, error) {
	return nil, errBoom
}
func (failingConnections) List(context.Context, string, repositories.ConnectionFilters) ([]models.Connection, int64, error) {
	return nil, 0, errBoom
}
func (failingConnections) GetBetween(context.Context, string, string) (*models.Connection, error) {
	return nil, errBoom
}
func (failingConnections) CreateIfAbsent(context.Context, *models.Connection) (*models.Connection, bool, error) {
	return nil, false, errBoom
}
func (failingConnections) UpdateStatus(context.Context, *models.Connection, models.ConnectionStatus) error {
	return errBoom
}
