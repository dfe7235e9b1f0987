package usecase

import (
	"context"
	"errors"

	"yamdb/internal/entity"
	"yamdb/internal/policy"
	"yamdb/internal/repo/persistent"
	"yamdb/internal/validation"
	"yamdb/pkg/logger"
)

// CatalogInput creates a category or a genre.
type CatalogInput struct {
	Name string `json:"name" validate:"required,max=256" example:"Drama"`
	Slug string `json:"slug" validate:"required,max=50,slug" example:"drama"`
}

type CatalogUseCase interface {
	ListCategories(ctx context.Context, search string) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, actor *entity.User, in CatalogInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, actor *entity.User, slug string) error

	ListGenres(ctx context.Context, search string) ([]*entity.Genre, error)
	CreateGenre(ctx context.Context, actor *entity.User, in CatalogInput) (*entity.Genre, error)
	DeleteGenre(ctx context.Context, actor *entity.User, slug string) error
}

type catalogUseCase struct {
	catalogRepo persistent.CatalogRepository
	validator   *validation.Validator
	logger      *logger.Logger
}

func NewCatalogUseCase(catalogRepo persistent.CatalogRepository, validator *validation.Validator, logger *logger.Logger) CatalogUseCase {
	return &catalogUseCase{
		catalogRepo: catalogRepo,
		validator:   validator,
		logger:      logger,
	}
}

func (uc *catalogUseCase) ListCategories(ctx context.Context, search string) ([]*entity.Category, error) {
	return uc.catalogRepo.ListCategories(ctx, search)
}

func (uc *catalogUseCase) CreateCategory(ctx context.Context, actor *entity.User, in CatalogInput) (*entity.Category, error) {
	if err := policy.CanWriteCatalog(actor); err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	if err := absent(uc.catalogRepo.GetCategory(ctx, in.Slug)); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, entity.Conflict("slug", "category with this slug already exists.")
		}
		return nil, err
	}

	category := &entity.Category{Slug: in.Slug, Name: in.Name}
	if err := uc.catalogRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	uc.logger.Info("Category %s created by %s", category.Slug, actor.Username)
	return category, nil
}

func (uc *catalogUseCase) DeleteCategory(ctx context.Context, actor *entity.User, slug string) error {
	if err := policy.CanWriteCatalog(actor); err != nil {
		return err
	}
	if err := uc.catalogRepo.DeleteCategory(ctx, slug); err != nil {
		return err
	}

	uc.logger.Info("Category %s deleted by %s", slug, actor.Username)
	return nil
}

func (uc *catalogUseCase) ListGenres(ctx context.Context, search string) ([]*entity.Genre, error) {
	return uc.catalogRepo.ListGenres(ctx, search)
}

func (uc *catalogUseCase) CreateGenre(ctx context.Context, actor *entity.User, in CatalogInput) (*entity.Genre, error) {
	if err := policy.CanWriteCatalog(actor); err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	if err := absent(uc.catalogRepo.GetGenre(ctx, in.Slug)); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, entity.Conflict("slug", "genre with this slug already exists.")
		}
		return nil, err
	}

	genre := &entity.Genre{Slug: in.Slug, Name: in.Name}
	if err := uc.catalogRepo.CreateGenre(ctx, genre); err != nil {
		return nil, err
	}

	uc.logger.Info("Genre %s created by %s", genre.Slug, actor.Username)
	return genre, nil
}

func (uc *catalogUseCase) DeleteGenre(ctx context.Context, actor *entity.User, slug string) error {
	if err := policy.CanWriteCatalog(actor); err != nil {
		return err
	}
	if err := uc.catalogRepo.DeleteGenre(ctx, slug); err != nil {
		return err
	}

	uc.logger.Info("Genre %s deleted by %s", slug, actor.Username)
	return nil
}

// absent turns a lookup result into a uniqueness pre-check: nil when the
// record does not exist, ErrConflict when it does.
func absent(_ interface{}, err error) error {
	if err == nil {
		return entity.ErrConflict
	}
	if errors.Is(err, entity.ErrNotFound) {
		return nil
	}
	return err
}
