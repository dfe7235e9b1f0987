package usecase

import (
	"context"

	"yamdb/internal/entity"
	"yamdb/internal/policy"
	"yamdb/internal/repo/persistent"
	"yamdb/internal/validation"
	"yamdb/pkg/logger"
)

type ReviewInput struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"gte=1,lte=10" example:"8"`
}

// ReviewPatch may change text and score only.
type ReviewPatch struct {
	Text  *string `json:"text" validate:"omitnil,min=1"`
	Score *int    `json:"score" validate:"omitnil,gte=1,lte=10"`
}

type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

type ReviewUseCase interface {
	ListReviews(ctx context.Context, titleID uint) ([]*entity.Review, error)
	GetReview(ctx context.Context, titleID, reviewID uint) (*entity.Review, error)
	CreateReview(ctx context.Context, actor *entity.User, titleID uint, in ReviewInput) (*entity.Review, error)
	UpdateReview(ctx context.Context, actor *entity.User, titleID, reviewID uint, in ReviewPatch) (*entity.Review, error)
	DeleteReview(ctx context.Context, actor *entity.User, titleID, reviewID uint) error

	ListComments(ctx context.Context, titleID, reviewID uint) ([]*entity.Comment, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*entity.Comment, error)
	CreateComment(ctx context.Context, actor *entity.User, titleID, reviewID uint, in CommentInput) (*entity.Comment, error)
	UpdateComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID uint, in CommentInput) (*entity.Comment, error)
	DeleteComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID uint) error
}

type reviewUseCase struct {
	reviewRepo persistent.ReviewRepository
	titleRepo  persistent.TitleRepository
	validator  *validation.Validator
	logger     *logger.Logger
}

func NewReviewUseCase(
	reviewRepo persistent.ReviewRepository,
	titleRepo persistent.TitleRepository,
	validator *validation.Validator,
	logger *logger.Logger,
) ReviewUseCase {
	return &reviewUseCase{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		validator:  validator,
		logger:     logger,
	}
}

func (uc *reviewUseCase) requireTitle(ctx context.Context, titleID uint) error {
	exists, err := uc.titleRepo.Exists(ctx, titleID)
	if err != nil {
		uc.logger.Error("Failed to look up title %d: %v", titleID, err)
		return entity.ErrInternal
	}
	if !exists {
		return entity.NotFound("title %d not found", titleID)
	}
	return nil
}

func (uc *reviewUseCase) ListReviews(ctx context.Context, titleID uint) ([]*entity.Review, error) {
	if err := uc.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return uc.reviewRepo.ListReviews(ctx, titleID)
}

func (uc *reviewUseCase) GetReview(ctx context.Context, titleID, reviewID uint) (*entity.Review, error) {
	return uc.reviewRepo.GetReview(ctx, titleID, reviewID)
}

// CreateReview pre-checks the one-review-per-title rule; the unique index
// catches a concurrent duplicate that slips past the check.
func (uc *reviewUseCase) CreateReview(ctx context.Context, actor *entity.User, titleID uint, in ReviewInput) (*entity.Review, error) {
	if err := policy.CanCreateContent(actor); err != nil {
		return nil, err
	}
	if err := uc.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	reviewed, err := uc.reviewRepo.HasReviewed(ctx, titleID, actor.ID)
	if err != nil {
		uc.logger.Error("Failed to check existing review: %v", err)
		return nil, entity.ErrInternal
	}
	if reviewed {
		return nil, entity.Conflict("title", "You have already reviewed this title.")
	}

	review := &entity.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     in.Text,
		Score:    in.Score,
	}
	if err := uc.reviewRepo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *reviewUseCase) UpdateReview(ctx context.Context, actor *entity.User, titleID, reviewID uint, in ReviewPatch) (*entity.Review, error) {
	review, err := uc.ownedReview(ctx, actor, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}
	if err := uc.reviewRepo.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *reviewUseCase) DeleteReview(ctx context.Context, actor *entity.User, titleID, reviewID uint) error {
	review, err := uc.ownedReview(ctx, actor, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := uc.reviewRepo.DeleteReview(ctx, review.ID); err != nil {
		return err
	}

	uc.logger.Info("Review %d deleted by %s", review.ID, actor.Username)
	return nil
}

// ownedReview loads the review and checks that actor may modify it. Anonymous
// actors are rejected before the lookup.
func (uc *reviewUseCase) ownedReview(ctx context.Context, actor *entity.User, titleID, reviewID uint) (*entity.Review, error) {
	if !actor.IsAuthenticated() {
		return nil, entity.ErrUnauthorized
	}
	review, err := uc.reviewRepo.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyContent(actor, review.AuthorID); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *reviewUseCase) ListComments(ctx context.Context, titleID, reviewID uint) ([]*entity.Comment, error) {
	if _, err := uc.reviewRepo.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return uc.reviewRepo.ListComments(ctx, reviewID)
}

func (uc *reviewUseCase) GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*entity.Comment, error) {
	if _, err := uc.reviewRepo.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return uc.reviewRepo.GetComment(ctx, reviewID, commentID)
}

func (uc *reviewUseCase) CreateComment(ctx context.Context, actor *entity.User, titleID, reviewID uint, in CommentInput) (*entity.Comment, error) {
	if err := policy.CanCreateContent(actor); err != nil {
		return nil, err
	}
	if _, err := uc.reviewRepo.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     in.Text,
	}
	if err := uc.reviewRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *reviewUseCase) UpdateComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID uint, in CommentInput) (*entity.Comment, error) {
	comment, err := uc.ownedComment(ctx, actor, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := uc.reviewRepo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *reviewUseCase) DeleteComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID uint) error {
	comment, err := uc.ownedComment(ctx, actor, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	return uc.reviewRepo.DeleteComment(ctx, comment.ID)
}

func (uc *reviewUseCase) ownedComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID uint) (*entity.Comment, error) {
	if !actor.IsAuthenticated() {
		return nil, entity.ErrUnauthorized
	}
	if _, err := uc.reviewRepo.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := uc.reviewRepo.GetComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyContent(actor, comment.AuthorID); err != nil {
		return nil, err
	}
	return comment, nil
}
