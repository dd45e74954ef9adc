package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
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
	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
	"github.com/SAP-F-2025/social-service/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router    *gin.Engine
	manager   *HandlerManager
	db        *gorm.DB
	hub       *realtime.Hub
	publisher *events.MockEventPublisher
	provider  *fakeProvider
	directory *fakeDirectory
}

func newTestServer(t *testing.T) *testServer {
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

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	directory := &fakeDirectory{users: map[string]*models.User{}}
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:             db,
		RedisClient:    rdb,
		UserRepository: directory,
	})

	publisher := events.NewMockEventPublisher(log)
	hub := realtime.NewHub(log)
	v := validator.New()

	sm := services.NewServiceManager(repo, log, v, services.ServiceDependencies{
		Events:   publisher,
		Realtime: hub,
	}, services.ServiceManagerConfig{
		PlatformOwnerEmail: "owner@nova.dev",
		DefaultCourseImage: "/img/default.png",
	})
	require.NoError(t, sm.Initialize(context.Background()))

	provider := &fakeProvider{
		claims: map[string]*casdoorsdk.Claims{},
		codes:  map[string]string{},
	}
	logger := utils.NewSlogLogger(log)
	manager := NewHandlerManager(sm, v, logger, provider, directory, hub)

	router := gin.New()
	SetupMiddleware(router, logger, []string{"*"})
	manager.SetupRoutes(router)
	t.Cleanup(manager.Close)

	return &testServer{
		router:    router,
		manager:   manager,
		db:        db,
		hub:       hub,
		publisher: publisher,
		provider:  provider,
		directory: directory,
	}
}

// login registers a token for id and returns it
func (s *testServer) login(id string) string {
	token := "token-" + id
	claims := &casdoorsdk.Claims{}
	claims.Id = id
	claims.Name = id
	claims.DisplayName = "User " + id
	claims.Email = id + "@nova.dev"
	s.provider.claims[token] = claims
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedProfile(t *testing.T, id string) *models.Profile {
	t.Helper()
	p := &models.Profile{ID: id, DisplayName: "User " + id, Email: id + "@nova.dev"}
	require.NoError(t, s.db.Create(p).Error)
	return p
}

func (s *testServer) seedPost(t *testing.T, slug string) *models.Post {
	t.Helper()
	p := &models.Post{Slug: slug, AuthorID: "author", Title: slug}
	require.NoError(t, s.db.Create(p).Error)
	return p
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// fakeProvider stands in for Casdoor: tokens map to claims, codes map to tokens
type fakeProvider struct {
	claims map[string]*casdoorsdk.Claims
	codes  map[string]string
}

func (f *fakeProvider) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	c, ok := f.claims[token]
	if !ok {
		return nil, fmt.Errorf("token is malformed")
	}
	return c, nil
}

func (f *fakeProvider) GetSigninUrl(redirectURI string) string {
	return "https://id.nova.dev/login/oauth/authorize?redirect_uri=" + redirectURI
}

func (f *fakeProvider) ExchangeCode(code, state string) (string, error) {
	token, ok := f.codes[code]
	if !ok {
		return "", fmt.Errorf("invalid_grant")
	}
	return token, nil
}

// fakeDirectory is an in-memory identity directory
type fakeDirectory struct {
	users map[string]*models.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeDirectory) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeDirectory) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return f.Search(ctx, "", filters)
}

func (f *fakeDirectory) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range f.users {
		if query == "" || strings.Contains(strings.ToLower(u.PreferredName()), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDirectory) Invalidate(ctx context.Context, id string) error { return nil }
