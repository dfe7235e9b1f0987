package http

import (
	"net/http"

	"yamdb/internal/entity"
	"yamdb/internal/usecase"
	"yamdb/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	base
	reviewUseCase usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase usecase.ReviewUseCase, actors ActorResolver, logger *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		base:          base{actors: actors, logger: logger},
		reviewUseCase: reviewUseCase,
	}
}

// ids parses the path parameters named in order.
func (h *ReviewHandler) ids(c *gin.Context, actor *entity.User, names ...string) ([]uint, bool) {
	ids := make([]uint, len(names))
	for i, name := range names {
		id, ok := h.pathID(c, actor, name)
		if !ok {
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// ListReviews godoc
// @Summary      List reviews of a title
// @Tags         reviews
// @Produce      json
// @Param        title_id path int true "Title ID"
// @Success      200  {object}  ListResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	ids, ok := h.ids(c, nil, "title_id")
	if !ok {
		return
	}

	reviews, err := h.reviewUseCase.ListReviews(c.Request.Context(), ids[0])
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: int64(len(reviews)), Results: reviews})
}

// GetReview godoc
// @Summary      Get review
// @Tags         reviews
// @Produce      json
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Success      200  {object}  entity.Review
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	ids, ok := h.ids(c, nil, "title_id", "review_id")
	if !ok {
		return
	}

	review, err := h.reviewUseCase.GetReview(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// CreateReview godoc
// @Summary      Review a title
// @Description  One review per user and title. Score is 1 to 10.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Param        request body usecase.ReviewInput true "Review"
// @Success      201  {object}  entity.Review
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.ids(c, actor, "title_id")
	if !ok {
		return
	}
	var req usecase.ReviewInput
	if !h.bind(c, actor, &req) {
		return
	}

	review, err := h.reviewUseCase.CreateReview(c.Request.Context(), actor, ids[0], req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// UpdateReview godoc
// @Summary      Update review
// @Description  Author, moderator or admin. Only text and score change.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Param        request body usecase.ReviewPatch true "Fields to change"
// @Success      200  {object}  entity.Review
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id} [patch]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.ids(c, actor, "title_id", "review_id")
	if !ok {
		return
	}
	var req usecase.ReviewPatch
	if !h.bind(c, actor, &req) {
		return
	}

	review, err := h.reviewUseCase.UpdateReview(c.Request.Context(), actor, ids[0], ids[1], req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview godoc
// @Summary      Delete review
// @Description  Author, moderator or admin. Removes the review's comments.
// @Tags         reviews
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.ids(c, actor, "title_id", "review_id")
	if !ok {
		return
	}

	if err := h.reviewUseCase.DeleteReview(c.Request.Context(), actor, ids[0], ids[1]); err != nil {
		h.fail(c, actor, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListComments godoc
// @Summary      List comments on a review
// @Tags         comments
// @Produce      json
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Success      200  {object}  ListResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments [get]
func (h *ReviewHandler) ListComments(c *gin.Context) {
	ids, ok := h.ids(c, nil, "title_id", "review_id")
	if !ok {
		return
	}

	comments, err := h.reviewUseCase.ListComments(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: int64(len(comments)), Results: comments})
}

// GetComment godoc
// @Summary      Get comment
// @Tags         comments
// @Produce      json
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Param        comment_id path int true "Comment ID"
// @Success      200  {object}  entity.Comment
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [get]
func (h *ReviewHandler) GetComment(c *gin.Context) {
	ids, ok := h.ids(c, nil, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	comment, err := h.reviewUseCase.GetComment(c.Request.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// CreateComment godoc
// @Summary      Comment on a review
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Param        request body usecase.CommentInput true "Comment"
// @Success      201  {object}  entity.Comment
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments [post]
func (h *ReviewHandler) CreateComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.ids(c, actor, "title_id", "review_id")
	if !ok {
		return
	}
	var req usecase.CommentInput
	if !h.bind(c, actor, &req) {
		return
	}

	comment, err := h.reviewUseCase.CreateComment(c.Request.Context(), actor, ids[0], ids[1], req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment godoc
// @Summary      Update comment
// @Description  Author, moderator or admin. Only the text changes.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Param        comment_id path int true "Comment ID"
// @Param        request body usecase.CommentInput true "Comment"
// @Success      200  {object}  entity.Comment
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [patch]
func (h *ReviewHandler) UpdateComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.ids(c, actor, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}
	var req usecase.CommentInput
	if !h.bind(c, actor, &req) {
		return
	}

	comment, err := h.reviewUseCase.UpdateComment(c.Request.Context(), actor, ids[0], ids[1], ids[2], req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary      Delete comment
// @Description  Author, moderator or admin
// @Tags         comments
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Param        review_id path int true "Review ID"
// @Param        comment_id path int true "Comment ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [delete]
func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.ids(c, actor, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	if err := h.reviewUseCase.DeleteComment(c.Request.Context(), actor, ids[0], ids[1], ids[2]); err != nil {
		h.fail(c, actor, err)
		return
	}

	c.Status(http.StatusNoContent)
}
