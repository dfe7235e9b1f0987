package http

import (
	"context"

	"yamdb/internal/entity"
	"yamdb/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type MockActorResolver struct {
	mock.Mock
}

func (m *MockActorResolver) ResolveActor(ctx context.Context, subject string) (*entity.User, error) {
	args := m.Called(subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

var _ ActorResolver = (*MockActorResolver)(nil)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Signup(ctx context.Context, in usecase.SignupInput) (*entity.User, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Token(ctx context.Context, in usecase.TokenInput) (string, error) {
	args := m.Called(in)
	return args.String(0), args.Error(1)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) ListCategories(ctx context.Context, search string) ([]*entity.Category, error) {
	args := m.Called(search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Category), args.Error(1)
}

func (m *MockCatalogUseCase) CreateCategory(ctx context.Context, actor *entity.User, in usecase.CatalogInput) (*entity.Category, error) {
	args := m.Called(actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogUseCase) DeleteCategory(ctx context.Context, actor *entity.User, slug string) error {
	args := m.Called(actor, slug)
	return args.Error(0)
}

func (m *MockCatalogUseCase) ListGenres(ctx context.Context, search string) ([]*entity.Genre, error) {
	args := m.Called(search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Genre), args.Error(1)
}

func (m *MockCatalogUseCase) CreateGenre(ctx context.Context, actor *entity.User, in usecase.CatalogInput) (*entity.Genre, error) {
	args := m.Called(actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Genre), args.Error(1)
}

func (m *MockCatalogUseCase) DeleteGenre(ctx context.Context, actor *entity.User, slug string) error {
	args := m.Called(actor, slug)
	return args.Error(0)
}

var _ usecase.CatalogUseCase = (*MockCatalogUseCase)(nil)

type MockTitleUseCase struct {
	mock.Mock
}

func (m *MockTitleUseCase) List(ctx context.Context, filter entity.TitleFilter) ([]*entity.Title, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleUseCase) Get(ctx context.Context, id uint) (*entity.Title, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Title), args.Error(1)
}

func (m *MockTitleUseCase) Create(ctx context.Context, actor *entity.User, in usecase.CreateTitleInput) (*entity.Title, error) {
	args := m.Called(actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Title), args.Error(1)
}

func (m *MockTitleUseCase) Update(ctx context.Context, actor *entity.User, id uint, in usecase.UpdateTitleInput) (*entity.Title, error) {
	args := m.Called(actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Title), args.Error(1)
}

func (m *MockTitleUseCase) Delete(ctx context.Context, actor *entity.User, id uint) error {
	args := m.Called(actor, id)
	return args.Error(0)
}

var _ usecase.TitleUseCase = (*MockTitleUseCase)(nil)
