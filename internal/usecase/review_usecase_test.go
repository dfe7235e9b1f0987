package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"yamdb/internal/entity"
	"yamdb/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview_OnePerAuthorAndTitle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.addUser(t, "root", entity.RoleAdmin)
	alice := env.addUser(t, "alice", entity.RoleUser)
	title := env.addTitle(t, admin, "Film")

	review, err := env.review.CreateReview(ctx, alice, title.ID, ReviewInput{Text: "great", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Author)

	got, err := env.title.Get(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 9.0, *got.Rating)

	_, err = env.review.CreateReview(ctx, alice, title.ID, ReviewInput{Text: "again", Score: 3})
	assert.True(t, errors.Is(err, entity.ErrConflict))
}

func TestCreateReview_ConcurrentDuplicate(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.addUser(t, "root", entity.RoleAdmin)
	alice := env.addUser(t, "alice", entity.RoleUser)
	title := env.addTitle(t, admin, "Film")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.review.CreateReview(ctx, alice, title.ID, ReviewInput{Text: "mine", Score: 5 + i})
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, entity.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	var n int64
	require.NoError(t, env.db.Model(&model.ReviewModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreateReview_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.addUser(t, "root", entity.RoleAdmin)
	alice := env.addUser(t, "alice", entity.RoleUser)
	title := env.addTitle(t, admin, "Film")

	for _, score := range []int{0, 11, -1} {
		_, err := env.review.CreateReview(ctx, alice, title.ID, ReviewInput{Text: "x", Score: score})
		assert.Equal(t, entity.KindValidation, kindOf(t, err), "score=%d", score)
	}

	_, err := env.review.CreateReview(ctx, nil, title.ID, ReviewInput{Text: "x", Score: 5})
	assert.True(t, errors.Is(err, entity.ErrUnauthorized))

	_, err = env.review.CreateReview(ctx, alice, title.ID+100, ReviewInput{Text: "x", Score: 5})
	assert.Equal(t, entity.KindNotFound, kindOf(t, err))

	for _, score := range []int{1, 10} {
		bob := env.addUser(t, "bob"+string(rune('a'+score)), entity.RoleUser)
		_, err := env.review.CreateReview(ctx, bob, title.ID, ReviewInput{Text: "x", Score: score})
		assert.NoError(t, err, "score=%d", score)
	}
}

func TestDeleteReview_Permissions(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.addUser(t, "root", entity.RoleAdmin)
	author := env.addUser(t, "author", entity.RoleUser)
	stranger := env.addUser(t, "stranger", entity.RoleUser)
	moderator := env.addUser(t, "mod", entity.RoleModerator)
	title := env.addTitle(t, admin, "Film")

	review, err := env.review.CreateReview(ctx, author, title.ID, ReviewInput{Text: "mine", Score: 7})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := env.review.CreateComment(ctx, stranger, title.ID, review.ID, CommentInput{Text: "reply"})
		require.NoError(t, err)
	}

	assert.True(t, errors.Is(env.review.DeleteReview(ctx, stranger, title.ID, review.ID), entity.ErrUnauthorized))
	assert.True(t, errors.Is(env.review.DeleteReview(ctx, nil, title.ID, review.ID), entity.ErrUnauthorized))

	_, err = env.review.UpdateReview(ctx, stranger, title.ID, review.ID, ReviewPatch{Score: intPtr(1)})
	assert.True(t, errors.Is(err, entity.ErrUnauthorized))

	require.NoError(t, env.review.DeleteReview(ctx, author, title.ID, review.ID))

	var comments int64
	require.NoError(t, env.db.Model(&model.CommentModel{}).Count(&comments).Error)
	assert.Equal(t, int64(0), comments)

	_, err = env.review.GetReview(ctx, title.ID, review.ID)
	assert.Equal(t, entity.KindNotFound, kindOf(t, err))

	other, err := env.review.CreateReview(ctx, stranger, title.ID, ReviewInput{Text: "theirs", Score: 2})
	require.NoError(t, err)
	require.NoError(t, env.review.DeleteReview(ctx, moderator, title.ID, other.ID))
}

func intPtr(i int) *int { return &i }

func TestUpdateReview_TextAndScoreOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.addUser(t, "root", entity.RoleAdmin)
	author := env.addUser(t, "author", entity.RoleUser)
	title := env.addTitle(t, admin, "Film")

	review, err := env.review.CreateReview(ctx, author, title.ID, ReviewInput{Text: "fine", Score: 5})
	require.NoError(t, err)

	updated, err := env.review.UpdateReview(ctx, author, title.ID, review.ID, ReviewPatch{Score: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Score)
	assert.Equal(t, "fine", updated.Text)
	assert.Equal(t, "author", updated.Author)
	assert.True(t, review.PubDate.Equal(updated.PubDate))

	_, err = env.review.UpdateReview(ctx, author, title.ID, review.ID, ReviewPatch{Score: intPtr(11)})
	assert.Equal(t, entity.KindValidation, kindOf(t, err))

	updated, err = env.review.UpdateReview(ctx, admin, title.ID, review.ID, ReviewPatch{Text: strPtr("edited by admin")})
	require.NoError(t, err)
	assert.Equal(t, "author", updated.Author)

	got, err := env.title.Get(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, *got.Rating)
}

func TestComments(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := env.addUser(t, "root", entity.RoleAdmin)
	author := env.addUser(t, "author", entity.RoleUser)
	stranger := env.addUser(t, "stranger", entity.RoleUser)
	title := env.addTitle(t, admin, "Film")
	other := env.addTitle(t, admin, "Other")

	review, err := env.review.CreateReview(ctx, author, title.ID, ReviewInput{Text: "mine", Score: 7})
	require.NoError(t, err)

	_, err = env.review.CreateComment(ctx, nil, title.ID, review.ID, CommentInput{Text: "hi"})
	assert.True(t, errors.Is(err, entity.ErrUnauthorized))
	_, err = env.review.CreateComment(ctx, author, other.ID, review.ID, CommentInput{Text: "hi"})
	assert.Equal(t, entity.KindNotFound, kindOf(t, err))
	_, err = env.review.CreateComment(ctx, author, title.ID, review.ID, CommentInput{})
	assert.Equal(t, entity.KindValidation, kindOf(t, err))

	comment, err := env.review.CreateComment(ctx, author, title.ID, review.ID, CommentInput{Text: "hi"})
	require.NoError(t, err)

	_, err = env.review.UpdateComment(ctx, stranger, title.ID, review.ID, comment.ID, CommentInput{Text: "hijack"})
	assert.True(t, errors.Is(err, entity.ErrUnauthorized))

	edited, err := env.review.UpdateComment(ctx, author, title.ID, review.ID, comment.ID, CommentInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", edited.Text)

	comments, err := env.review.ListComments(ctx, title.ID, review.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, env.review.DeleteComment(ctx, admin, title.ID, review.ID, comment.ID))
	_, err = env.review.GetComment(ctx, title.ID, review.ID, comment.ID)
	assert.Equal(t, entity.KindNotFound, kindOf(t, err))
}
