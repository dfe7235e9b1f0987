package persistent

import (
	"context"

	"yamdb/internal/entity"
	"yamdb/internal/model"

	"gorm.io/gorm"
)

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title) error
	GetByID(ctx context.Context, id uint) (*entity.Title, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, title *entity.Title, replaceGenres bool) error
	Delete(ctx context.Context, id uint) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

// Create stores the title and links it to title.Genres. Category and genres
// must already carry their IDs.
func (r *titleRepository) Create(ctx context.Context, title *entity.Title) error {
	titleModel := ToTitleModel(title)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Genres").Create(titleModel).Error; err != nil {
			return notFound(err, "title")
		}
		return linkGenres(tx, titleModel.ID, title.Genres)
	})
	if err != nil {
		return err
	}

	created, err := r.GetByID(ctx, titleModel.ID)
	if err != nil {
		return err
	}
	*title = *created
	return nil
}

// GetByID loads the title with its category, genres and current rating.
func (r *titleRepository) GetByID(ctx context.Context, id uint) (*entity.Title, error) {
	var titleModel model.TitleModel
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres.Genre").
		Where("id = ?", id).
		First(&titleModel).Error
	if err != nil {
		return nil, notFound(err, "title")
	}

	var scores []int
	if err := r.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("title_id = ?", id).
		Pluck("score", &scores).Error; err != nil {
		return nil, notFound(err, "reviews")
	}

	title := ToTitleEntity(&titleModel)
	title.Rating = entity.AverageScore(scores)
	return title, nil
}

func (r *titleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TitleModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, notFound(err, "title")
	}
	return count > 0, nil
}

// Update writes the scalar fields and category. The genre set is replaced
// only when replaceGenres is set.
func (r *titleRepository) Update(ctx context.Context, title *entity.Title, replaceGenres bool) error {
	titleModel := ToTitleModel(title)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.TitleModel{}).
			Where("id = ?", title.ID).
			Updates(map[string]interface{}{
				"name":        titleModel.Name,
				"year":        titleModel.Year,
				"description": titleModel.Description,
				"category_id": titleModel.CategoryID,
			})
		if result.Error != nil {
			return notFound(result.Error, "title")
		}
		if result.RowsAffected == 0 {
			return entity.NotFound("title not found")
		}

		if !replaceGenres {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&model.GenreTitleModel{}).Error; err != nil {
			return notFound(err, "genre links")
		}
		return linkGenres(tx, title.ID, title.Genres)
	})
	if err != nil {
		return err
	}

	updated, err := r.GetByID(ctx, title.ID)
	if err != nil {
		return err
	}
	*title = *updated
	return nil
}

// Delete removes the title with its genre links, reviews and their comments.
func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := tx.Model(&model.ReviewModel{}).Select("id").Where("title_id = ?", id)

		if err := tx.Where("review_id IN (?)", reviews).Delete(&model.CommentModel{}).Error; err != nil {
			return notFound(err, "comments")
		}
		if err := tx.Where("title_id = ?", id).Delete(&model.ReviewModel{}).Error; err != nil {
			return notFound(err, "reviews")
		}
		if err := tx.Where("title_id = ?", id).Delete(&model.GenreTitleModel{}).Error; err != nil {
			return notFound(err, "genre links")
		}

		result := tx.Delete(&model.TitleModel{}, id)
		if result.Error != nil {
			return notFound(result.Error, "title")
		}
		if result.RowsAffected == 0 {
			return entity.NotFound("title not found")
		}
		return nil
	})
}

func linkGenres(tx *gorm.DB, titleID uint, genres []entity.Genre) error {
	if len(genres) == 0 {
		return nil
	}

	links := make([]model.GenreTitleModel, len(genres))
	for i := range genres {
		genreID := genres[i].ID
		links[i] = model.GenreTitleModel{TitleID: titleID, GenreID: &genreID}
	}
	if err := tx.Create(&links).Error; err != nil {
		return translate(err, "genre links", "genre", "genre listed more than once.")
	}
	return nil
}
