package persistent

import (
	"context"
	"testing"

	"yamdb/internal/entity"
	"yamdb/pkg/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleNames(titles []*entity.Title) []string {
	names := make([]string, len(titles))
	for i, title := range titles {
		names[i] = title.Name
	}
	return names
}

func TestTitleQuery_OrdersByRatingThenName(t *testing.T) {
	db := newTestDB(t)
	sqlxDB, err := database.NewSQLX(db)
	require.NoError(t, err)
	query := NewTitleQuery(sqlxDB)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	unratedB := seedTitle(t, db, "Bravo", 2000, nil)
	unratedA := seedTitle(t, db, "Alpha", 2000, nil)
	low := seedTitle(t, db, "Low", 2000, nil)
	high := seedTitle(t, db, "High", 2000, nil)
	tie := seedTitle(t, db, "Another High", 2000, nil)
	_ = unratedA
	_ = unratedB

	seedReview(t, db, low, alice, 2)
	seedReview(t, db, high, alice, 10)
	seedReview(t, db, high, bob, 6)
	seedReview(t, db, tie, bob, 8)

	titles, err := query.List(ctx, entity.TitleFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Another High", "High", "Low", "Alpha", "Bravo"}, titleNames(titles))

	require.NotNil(t, titles[1].Rating)
	assert.InDelta(t, 8.0, *titles[1].Rating, 1e-9)
	assert.Nil(t, titles[3].Rating)

	page, err := query.List(ctx, entity.TitleFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Low", "Alpha"}, titleNames(page))

	total, err := query.Count(ctx, entity.TitleFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestTitleQuery_Filters(t *testing.T) {
	db := newTestDB(t)
	sqlxDB, err := database.NewSQLX(db)
	require.NoError(t, err)
	query := NewTitleQuery(sqlxDB)
	ctx := context.Background()

	films := seedCategory(t, db, "films")
	books := seedCategory(t, db, "books")
	drama := seedGenre(t, db, "drama")
	comedy := seedGenre(t, db, "comedy")

	seedTitle(t, db, "The Godfather", 1972, films, drama)
	seedTitle(t, db, "Airplane", 1980, films, comedy)
	seedTitle(t, db, "Godfather Novel", 1969, books, drama, comedy)

	year := 1972
	cases := []struct {
		name   string
		filter entity.TitleFilter
		want   []string
	}{
		{"category", entity.TitleFilter{Category: "films"}, []string{"Airplane", "The Godfather"}},
		{"genre", entity.TitleFilter{Genre: "comedy"}, []string{"Airplane", "Godfather Novel"}},
		{"name substring any case", entity.TitleFilter{Name: "GODFATHER"}, []string{"Godfather Novel", "The Godfather"}},
		{"year", entity.TitleFilter{Year: &year}, []string{"The Godfather"}},
		{"combined", entity.TitleFilter{Genre: "drama", Category: "books"}, []string{"Godfather Novel"}},
		{"no match", entity.TitleFilter{Category: "music"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			titles, err := query.List(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titleNames(titles))

			total, err := query.Count(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)
		})
	}

	titles, err := query.List(ctx, entity.TitleFilter{Name: "novel"})
	require.NoError(t, err)
	require.Len(t, titles, 1)
	require.NotNil(t, titles[0].Category)
	assert.Equal(t, "books", titles[0].Category.Slug)
	assert.Equal(t, []entity.Genre{{Slug: "comedy", Name: "comedy"}, {Slug: "drama", Name: "drama"}}, titles[0].Genres)
}

func TestTitleQuery_PostgresPlaceholders(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	query := NewTitleQuery(sqlx.NewDb(mockDB, "postgres"))

	mock.ExpectQuery(`SELECT \* FROM \(SELECT t\.id AS id, .* FROM titles t LEFT JOIN categories c ON c\.id = t\.category_id WHERE c\.slug = \$1 AND LOWER\(t\.name\) LIKE \$2\) AS ranked ORDER BY ranked\.rating IS NULL, ranked\.rating DESC, ranked\.name ASC, ranked\.id ASC LIMIT 10`).
		WithArgs("films", "%god%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "description", "category_slug", "category_name", "rating"}).
			AddRow(1, "The Godfather", 1972, "", "films", "Films", 9.5).
			AddRow(2, "Godfather II", 1974, nil, "films", "Films", nil))

	mock.ExpectQuery(`SELECT gt\.title_id AS title_id, g\.slug AS slug, g\.name AS name FROM genre_title gt JOIN genres g ON g\.id = gt\.genre_id WHERE gt\.title_id IN \(\$1,\$2\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"title_id", "slug", "name"}).
			AddRow(1, "drama", "Drama"))

	titles, err := query.List(context.Background(), entity.TitleFilter{Category: "films", Name: "God", Limit: 10})
	require.NoError(t, err)
	require.Len(t, titles, 2)

	require.NotNil(t, titles[0].Rating)
	assert.Equal(t, 9.5, *titles[0].Rating)
	assert.Equal(t, []entity.Genre{{Slug: "drama", Name: "Drama"}}, titles[0].Genres)
	assert.Nil(t, titles[1].Rating)
	assert.Empty(t, titles[1].Genres)

	assert.NoError(t, mock.ExpectationsWereMet())
}
