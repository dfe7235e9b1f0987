package persistent

import (
	"context"
	"testing"

	"yamdb/internal/entity"
	"yamdb/internal/model"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(database.MemoryDSN(uuid.NewString()), false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{Username: username, Email: username + "@example.com", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, slug string) *entity.Category {
	t.Helper()
	category := &entity.Category{Slug: slug, Name: slug}
	require.NoError(t, NewCatalogRepository(db).CreateCategory(context.Background(), category))
	return category
}

func seedGenre(t *testing.T, db *gorm.DB, slug string) *entity.Genre {
	t.Helper()
	genre := &entity.Genre{Slug: slug, Name: slug}
	require.NoError(t, NewCatalogRepository(db).CreateGenre(context.Background(), genre))
	return genre
}

func seedTitle(t *testing.T, db *gorm.DB, name string, year int, category *entity.Category, genres ...*entity.Genre) *entity.Title {
	t.Helper()
	title := &entity.Title{Name: name, Year: year, Category: category}
	for _, g := range genres {
		title.Genres = append(title.Genres, *g)
	}
	require.NoError(t, NewTitleRepository(db).Create(context.Background(), title))
	return title
}

func seedReview(t *testing.T, db *gorm.DB, title *entity.Title, author *entity.User, score int) *entity.Review {
	t.Helper()
	review := &entity.Review{TitleID: title.ID, AuthorID: author.ID, Text: "review by " + author.Username, Score: score}
	require.NoError(t, NewReviewRepository(db).CreateReview(context.Background(), review))
	return review
}

func seedComment(t *testing.T, db *gorm.DB, review *entity.Review, author *entity.User) *entity.Comment {
	t.Helper()
	comment := &entity.Comment{ReviewID: review.ID, AuthorID: author.ID, Text: "comment by " + author.Username}
	require.NoError(t, NewReviewRepository(db).CreateComment(context.Background(), comment))
	return comment
}

func count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
