package usecase

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/entity"
	"yamdb/internal/policy"
	"yamdb/internal/repo/persistent"
	"yamdb/internal/validation"
	"yamdb/pkg/logger"
)

type CreateTitleInput struct {
	Name        string   `json:"name" validate:"required,max=256" example:"The Godfather"`
	Year        int      `json:"year" validate:"required,pastyear" example:"1972"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"omitempty,max=50,slug" example:"films"`
	Genres      []string `json:"genre" validate:"required,min=1,dive,slug"`
}

// UpdateTitleInput is a partial update. A nil Genres keeps the current set;
// an empty Category string clears the category.
type UpdateTitleInput struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=256"`
	Year        *int     `json:"year" validate:"omitnil,pastyear"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitnil,max=50"`
	Genres      []string `json:"genre"`
}

type TitleUseCase interface {
	List(ctx context.Context, filter entity.TitleFilter) ([]*entity.Title, int64, error)
	Get(ctx context.Context, id uint) (*entity.Title, error)
	Create(ctx context.Context, actor *entity.User, in CreateTitleInput) (*entity.Title, error)
	Update(ctx context.Context, actor *entity.User, id uint, in UpdateTitleInput) (*entity.Title, error)
	Delete(ctx context.Context, actor *entity.User, id uint) error
}

type titleUseCase struct {
	titleRepo   persistent.TitleRepository
	titleQuery  persistent.TitleQuery
	catalogRepo persistent.CatalogRepository
	validator   *validation.Validator
	logger      *logger.Logger
}

func NewTitleUseCase(
	titleRepo persistent.TitleRepository,
	titleQuery persistent.TitleQuery,
	catalogRepo persistent.CatalogRepository,
	validator *validation.Validator,
	logger *logger.Logger,
) TitleUseCase {
	return &titleUseCase{
		titleRepo:   titleRepo,
		titleQuery:  titleQuery,
		catalogRepo: catalogRepo,
		validator:   validator,
		logger:      logger,
	}
}

func (uc *titleUseCase) List(ctx context.Context, filter entity.TitleFilter) ([]*entity.Title, int64, error) {
	titles, err := uc.titleQuery.List(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list titles: %v", err)
		return nil, 0, entity.ErrInternal
	}
	total, err := uc.titleQuery.Count(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to count titles: %v", err)
		return nil, 0, entity.ErrInternal
	}
	return titles, total, nil
}

func (uc *titleUseCase) Get(ctx context.Context, id uint) (*entity.Title, error) {
	return uc.titleRepo.GetByID(ctx, id)
}

func (uc *titleUseCase) Create(ctx context.Context, actor *entity.User, in CreateTitleInput) (*entity.Title, error) {
	if err := policy.CanWriteCatalog(actor); err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	title := &entity.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}

	var err error
	if in.Category != "" {
		if title.Category, err = uc.resolveCategory(ctx, in.Category); err != nil {
			return nil, err
		}
	}
	if title.Genres, err = uc.resolveGenres(ctx, in.Genres); err != nil {
		return nil, err
	}

	if err := uc.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	uc.logger.Info("Title %d created by %s", title.ID, actor.Username)
	return title, nil
}

func (uc *titleUseCase) Update(ctx context.Context, actor *entity.User, id uint, in UpdateTitleInput) (*entity.Title, error) {
	if err := policy.CanWriteCatalog(actor); err != nil {
		return nil, err
	}

	title, err := uc.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}
	if in.Genres != nil {
		if err := uc.validator.Var("genre", in.Genres, "min=1,dive,slug"); err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.Category != nil {
		title.Category = nil
		if *in.Category != "" {
			if title.Category, err = uc.resolveCategory(ctx, *in.Category); err != nil {
				return nil, err
			}
		}
	}
	if in.Genres != nil {
		if title.Genres, err = uc.resolveGenres(ctx, in.Genres); err != nil {
			return nil, err
		}
	}

	if err := uc.titleRepo.Update(ctx, title, in.Genres != nil); err != nil {
		return nil, err
	}
	return title, nil
}

func (uc *titleUseCase) Delete(ctx context.Context, actor *entity.User, id uint) error {
	if err := policy.CanWriteCatalog(actor); err != nil {
		return err
	}
	if err := uc.titleRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("Title %d deleted by %s", id, actor.Username)
	return nil
}

// resolveCategory reports an unknown slug as a validation failure on the
// category field, not as a missing resource.
func (uc *titleUseCase) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	if err := uc.validator.Var("category", slug, "slug"); err != nil {
		return nil, err
	}

	category, err := uc.catalogRepo.GetCategory(ctx, slug)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.FieldError("category", fmt.Sprintf("Object with slug=%s does not exist.", slug))
		}
		return nil, err
	}
	return category, nil
}

func (uc *titleUseCase) resolveGenres(ctx context.Context, slugs []string) ([]entity.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}

	found, err := uc.catalogRepo.GetGenres(ctx, unique)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(found))
	genres := make([]entity.Genre, len(found))
	for i, genre := range found {
		known[genre.Slug] = true
		genres[i] = *genre
	}

	var missing []string
	for _, slug := range unique {
		if !known[slug] {
			missing = append(missing, fmt.Sprintf("Object with slug=%s does not exist.", slug))
		}
	}
	if len(missing) > 0 {
		return nil, entity.ValidationFailed(map[string][]string{"genre": missing})
	}
	return genres, nil
}
