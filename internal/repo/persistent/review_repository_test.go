package persistent

import (
	"context"
	"errors"
	"testing"

	"yamdb/internal/entity"
	"yamdb/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_DuplicateReviewIsConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	title := seedTitle(t, db, "Film", 1999, nil)
	user := seedUser(t, db, "alice")
	first := seedReview(t, db, title, user, 9)
	assert.Equal(t, "alice", first.Author)
	assert.False(t, first.PubDate.IsZero())

	reviewed, err := repo.HasReviewed(ctx, title.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)

	err = repo.CreateReview(ctx, &entity.Review{TitleID: title.ID, AuthorID: user.ID, Text: "again", Score: 1})
	assert.True(t, errors.Is(err, entity.ErrConflict))
	assert.Equal(t, int64(1), count(t, db, &model.ReviewModel{}))
}

func TestReviewRepository_ReviewScopedToTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	title := seedTitle(t, db, "Film", 1999, nil)
	other := seedTitle(t, db, "Other", 1999, nil)
	review := seedReview(t, db, title, seedUser(t, db, "alice"), 9)

	_, err := repo.GetReview(ctx, other.ID, review.ID)
	assert.True(t, errors.Is(err, entity.ErrNotFound))

	reviews, err := repo.ListReviews(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0].Author)
}

func TestReviewRepository_UpdateKeepsPubDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	review := seedReview(t, db, seedTitle(t, db, "Film", 1999, nil), seedUser(t, db, "alice"), 9)
	published := review.PubDate

	review.Text = "changed my mind"
	review.Score = 2
	require.NoError(t, repo.UpdateReview(ctx, review))

	assert.Equal(t, "changed my mind", review.Text)
	assert.Equal(t, 2, review.Score)
	assert.True(t, published.Equal(review.PubDate))
}

func TestReviewRepository_DeleteReviewRemovesComments(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	review := seedReview(t, db, seedTitle(t, db, "Film", 1999, nil), user, 9)
	seedComment(t, db, review, user)
	seedComment(t, db, review, user)

	comments, err := repo.ListComments(ctx, review.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	require.NoError(t, repo.DeleteReview(ctx, review.ID))
	assert.Equal(t, int64(0), count(t, db, &model.CommentModel{}))
	assert.True(t, errors.Is(repo.DeleteReview(ctx, review.ID), entity.ErrNotFound))
}

func TestReviewRepository_CommentLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	title := seedTitle(t, db, "Film", 1999, nil)
	review := seedReview(t, db, title, user, 9)
	otherReview := seedReview(t, db, title, seedUser(t, db, "bob"), 4)
	comment := seedComment(t, db, review, user)
	assert.Equal(t, "alice", comment.Author)

	_, err := repo.GetComment(ctx, otherReview.ID, comment.ID)
	assert.True(t, errors.Is(err, entity.ErrNotFound))

	comment.Text = "edited"
	require.NoError(t, repo.UpdateComment(ctx, comment))
	assert.Equal(t, "edited", comment.Text)

	require.NoError(t, repo.DeleteComment(ctx, comment.ID))
	assert.True(t, errors.Is(repo.DeleteComment(ctx, comment.ID), entity.ErrNotFound))
}
