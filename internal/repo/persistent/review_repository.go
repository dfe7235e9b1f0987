package persistent

import (
	"context"

	"yamdb/internal/entity"
	"yamdb/internal/model"

	"gorm.io/gorm"
)

const duplicateReviewMessage = "You have already reviewed this title."

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *entity.Review) error
	GetReview(ctx context.Context, titleID, reviewID uint) (*entity.Review, error)
	ListReviews(ctx context.Context, titleID uint) ([]*entity.Review, error)
	HasReviewed(ctx context.Context, titleID, authorID uint) (bool, error)
	UpdateReview(ctx context.Context, review *entity.Review) error
	DeleteReview(ctx context.Context, reviewID uint) error

	CreateComment(ctx context.Context, comment *entity.Comment) error
	GetComment(ctx context.Context, reviewID, commentID uint) (*entity.Comment, error)
	ListComments(ctx context.Context, reviewID uint) ([]*entity.Comment, error)
	UpdateComment(ctx context.Context, comment *entity.Comment) error
	DeleteComment(ctx context.Context, commentID uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// CreateReview relies on the (title, author) unique index; a concurrent
// duplicate surfaces as a conflict.
func (r *reviewRepository) CreateReview(ctx context.Context, review *entity.Review) error {
	reviewModel := ToReviewModel(review)
	if err := r.db.WithContext(ctx).Omit("Title", "Author").Create(reviewModel).Error; err != nil {
		return translate(err, "review", "title", duplicateReviewMessage)
	}

	created, err := r.GetReview(ctx, reviewModel.TitleID, reviewModel.ID)
	if err != nil {
		return err
	}
	*review = *created
	return nil
}

func (r *reviewRepository) GetReview(ctx context.Context, titleID, reviewID uint) (*entity.Review, error) {
	var reviewModel model.ReviewModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, titleID).
		First(&reviewModel).Error
	if err != nil {
		return nil, notFound(err, "review")
	}
	return ToReviewEntity(&reviewModel), nil
}

func (r *reviewRepository) ListReviews(ctx context.Context, titleID uint) ([]*entity.Review, error) {
	var reviewModels []model.ReviewModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("title_id = ?", titleID).
		Order("pub_date DESC, id DESC").
		Find(&reviewModels).Error
	if err != nil {
		return nil, notFound(err, "reviews")
	}

	reviews := make([]*entity.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = ToReviewEntity(&reviewModels[i])
	}
	return reviews, nil
}

func (r *reviewRepository) HasReviewed(ctx context.Context, titleID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, notFound(err, "reviews")
	}
	return count > 0, nil
}

// UpdateReview writes text and score only; author, title and publication
// date never change.
func (r *reviewRepository) UpdateReview(ctx context.Context, review *entity.Review) error {
	result := r.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{"text": review.Text, "score": review.Score})
	if result.Error != nil {
		return notFound(result.Error, "review")
	}
	if result.RowsAffected == 0 {
		return entity.NotFound("review not found")
	}

	updated, err := r.GetReview(ctx, review.TitleID, review.ID)
	if err != nil {
		return err
	}
	*review = *updated
	return nil
}

// DeleteReview removes the review and its comments.
func (r *reviewRepository) DeleteReview(ctx context.Context, reviewID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&model.CommentModel{}).Error; err != nil {
			return notFound(err, "comments")
		}

		result := tx.Delete(&model.ReviewModel{}, reviewID)
		if result.Error != nil {
			return notFound(result.Error, "review")
		}
		if result.RowsAffected == 0 {
			return entity.NotFound("review not found")
		}
		return nil
	})
}

func (r *reviewRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.WithContext(ctx).Omit("Review", "Author").Create(commentModel).Error; err != nil {
		return notFound(err, "comment")
	}

	created, err := r.GetComment(ctx, commentModel.ReviewID, commentModel.ID)
	if err != nil {
		return err
	}
	*comment = *created
	return nil
}

func (r *reviewRepository) GetComment(ctx context.Context, reviewID, commentID uint) (*entity.Comment, error) {
	var commentModel model.CommentModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND review_id = ?", commentID, reviewID).
		First(&commentModel).Error
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *reviewRepository) ListComments(ctx context.Context, reviewID uint) ([]*entity.Comment, error) {
	var commentModels []model.CommentModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("review_id = ?", reviewID).
		Order("pub_date DESC, id DESC").
		Find(&commentModels).Error
	if err != nil {
		return nil, notFound(err, "comments")
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *reviewRepository) UpdateComment(ctx context.Context, comment *entity.Comment) error {
	result := r.db.WithContext(ctx).
		Model(&model.CommentModel{}).
		Where("id = ?", comment.ID).
		Update("text", comment.Text)
	if result.Error != nil {
		return notFound(result.Error, "comment")
	}
	if result.RowsAffected == 0 {
		return entity.NotFound("comment not found")
	}

	updated, err := r.GetComment(ctx, comment.ReviewID, comment.ID)
	if err != nil {
		return err
	}
	*comment = *updated
	return nil
}

func (r *reviewRepository) DeleteComment(ctx context.Context, commentID uint) error {
	result := r.db.WithContext(ctx).Delete(&model.CommentModel{}, commentID)
	if result.Error != nil {
		return notFound(result.Error, "comment")
	}
	if result.RowsAffected == 0 {
		return entity.NotFound("comment not found")
	}
	return nil
}
