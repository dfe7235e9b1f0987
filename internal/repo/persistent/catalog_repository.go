package persistent

import (
	"context"
	"strings"

	"yamdb/internal/entity"
	"yamdb/internal/model"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *entity.Category) error
	GetCategory(ctx context.Context, slug string) (*entity.Category, error)
	ListCategories(ctx context.Context, search string) ([]*entity.Category, error)
	DeleteCategory(ctx context.Context, slug string) error

	CreateGenre(ctx context.Context, genre *entity.Genre) error
	GetGenre(ctx context.Context, slug string) (*entity.Genre, error)
	GetGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error)
	ListGenres(ctx context.Context, search string) ([]*entity.Genre, error)
	DeleteGenre(ctx context.Context, slug string) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *entity.Category) error {
	categoryModel := &model.CategoryModel{Slug: category.Slug, Name: category.Name}
	if err := r.db.WithContext(ctx).Create(categoryModel).Error; err != nil {
		return translate(err, "category", "slug", "category with this slug already exists.")
	}
	*category = *ToCategoryEntity(categoryModel)
	return nil
}

func (r *catalogRepository) GetCategory(ctx context.Context, slug string) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&categoryModel).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return ToCategoryEntity(&categoryModel), nil
}

func (r *catalogRepository) ListCategories(ctx context.Context, search string) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	if err := searchByName(r.db.WithContext(ctx), search).Find(&categoryModels).Error; err != nil {
		return nil, notFound(err, "categories")
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = ToCategoryEntity(&categoryModels[i])
	}
	return categories, nil
}

// DeleteCategory removes the category and leaves its titles uncategorized.
func (r *catalogRepository) DeleteCategory(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var categoryModel model.CategoryModel
		if err := tx.Where("slug = ?", slug).First(&categoryModel).Error; err != nil {
			return notFound(err, "category")
		}

		if err := tx.Model(&model.TitleModel{}).
			Where("category_id = ?", categoryModel.ID).
			Update("category_id", nil).Error; err != nil {
			return notFound(err, "titles")
		}

		return notFound(tx.Delete(&categoryModel).Error, "category")
	})
}

func (r *catalogRepository) CreateGenre(ctx context.Context, genre *entity.Genre) error {
	genreModel := &model.GenreModel{Slug: genre.Slug, Name: genre.Name}
	if err := r.db.WithContext(ctx).Create(genreModel).Error; err != nil {
		return translate(err, "genre", "slug", "genre with this slug already exists.")
	}
	*genre = *ToGenreEntity(genreModel)
	return nil
}

func (r *catalogRepository) GetGenre(ctx context.Context, slug string) (*entity.Genre, error) {
	var genreModel model.GenreModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genreModel).Error; err != nil {
		return nil, notFound(err, "genre")
	}
	return ToGenreEntity(&genreModel), nil
}

// GetGenres returns the genres matching slugs. Unknown slugs are simply
// absent from the result.
func (r *catalogRepository) GetGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	if len(slugs) == 0 {
		return []*entity.Genre{}, nil
	}

	var genreModels []model.GenreModel
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("name ASC").Find(&genreModels).Error; err != nil {
		return nil, notFound(err, "genres")
	}

	genres := make([]*entity.Genre, len(genreModels))
	for i := range genreModels {
		genres[i] = ToGenreEntity(&genreModels[i])
	}
	return genres, nil
}

func (r *catalogRepository) ListGenres(ctx context.Context, search string) ([]*entity.Genre, error) {
	var genreModels []model.GenreModel
	if err := searchByName(r.db.WithContext(ctx), search).Find(&genreModels).Error; err != nil {
		return nil, notFound(err, "genres")
	}

	genres := make([]*entity.Genre, len(genreModels))
	for i := range genreModels {
		genres[i] = ToGenreEntity(&genreModels[i])
	}
	return genres, nil
}

// DeleteGenre removes the genre. Titles keep their other genres; links to
// the deleted one are nulled.
func (r *catalogRepository) DeleteGenre(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genreModel model.GenreModel
		if err := tx.Where("slug = ?", slug).First(&genreModel).Error; err != nil {
			return notFound(err, "genre")
		}

		if err := tx.Model(&model.GenreTitleModel{}).
			Where("genre_id = ?", genreModel.ID).
			Update("genre_id", nil).Error; err != nil {
			return notFound(err, "genre links")
		}

		return notFound(tx.Delete(&genreModel).Error, "genre")
	})
}

func searchByName(db *gorm.DB, search string) *gorm.DB {
	if search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return db.Order("name ASC")
}
