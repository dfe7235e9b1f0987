package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"yamdb/internal/entity"
	"yamdb/internal/model"
	"yamdb/internal/repo/persistent"
	"yamdb/internal/validation"
	"yamdb/pkg/database"
	"yamdb/pkg/jwt"
	"yamdb/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockConfirmationSender struct {
	mock.Mock
}

func (m *MockConfirmationSender) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	args := m.Called(ctx, email, username, code)
	return args.Error(0)
}

var _ ConfirmationSender = (*MockConfirmationSender)(nil)

// sequentialCodes hands out 100001, 100002, ... so tests know every code.
func sequentialCodes() CodeGenerator {
	var mu sync.Mutex
	next := 100000
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%d", next), nil
	}
}

type testEnv struct {
	db        *gorm.DB
	users     persistent.UserRepository
	jwt       *jwt.Service
	validator *validation.Validator
	logger    *logger.Logger

	auth    AuthUseCase
	user    UserUseCase
	catalog CatalogUseCase
	title   TitleUseCase
	review  ReviewUseCase
	sender  *MockConfirmationSender
}

func newTestEnv(t *testing.T, now func() time.Time) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDB(database.MemoryDSN(uuid.NewString()), false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	sqlxDB, err := database.NewSQLX(db)
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		users:     persistent.NewUserRepository(db),
		jwt:       jwt.NewService("test-secret"),
		validator: validation.New(now),
		logger:    logger.NewWithLevel(logger.LevelError),
		sender:    new(MockConfirmationSender),
	}

	catalogRepo := persistent.NewCatalogRepository(db)
	titleRepo := persistent.NewTitleRepository(db)

	env.auth = NewAuthUseCase(env.users, env.jwt, env.sender, env.validator, sequentialCodes(), env.logger)
	env.user = NewUserUseCase(env.users, env.validator, env.logger)
	env.catalog = NewCatalogUseCase(catalogRepo, env.validator, env.logger)
	env.title = NewTitleUseCase(titleRepo, persistent.NewTitleQuery(sqlxDB), catalogRepo, env.validator, env.logger)
	env.review = NewReviewUseCase(persistent.NewReviewRepository(db), titleRepo, env.validator, env.logger)
	return env
}

func (e *testEnv) addUser(t *testing.T, username string, role entity.UserRole) *entity.User {
	t.Helper()
	user := &entity.User{Username: username, Email: username + "@example.com", Role: role, IsActive: true}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) addTitle(t *testing.T, admin *entity.User, name string) *entity.Title {
	t.Helper()
	ctx := context.Background()
	if _, err := e.catalog.CreateGenre(ctx, admin, CatalogInput{Name: "Drama", Slug: "drama"}); err != nil {
		require.ErrorIs(t, err, entity.ErrConflict)
	}
	title, err := e.title.Create(ctx, admin, CreateTitleInput{Name: name, Year: 2000, Genres: []string{"drama"}})
	require.NoError(t, err)
	return title
}

func kindOf(t *testing.T, err error) entity.ErrorKind {
	t.Helper()
	require.Error(t, err)
	return entity.KindOf(err)
}
