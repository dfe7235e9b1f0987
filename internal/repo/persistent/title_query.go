package persistent

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"yamdb/internal/entity"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// TitleQuery is the read side of titles: filtered, paginated listing with the
// rating computed in SQL.
type TitleQuery interface {
	List(ctx context.Context, filter entity.TitleFilter) ([]*entity.Title, error)
	Count(ctx context.Context, filter entity.TitleFilter) (int64, error)
}

type titleQuery struct {
	db          *sqlx.DB
	placeholder sq.PlaceholderFormat
}

// NewTitleQuery picks the placeholder style from the driver name the sqlx
// handle was opened with.
func NewTitleQuery(db *sqlx.DB) TitleQuery {
	var placeholder sq.PlaceholderFormat = sq.Question
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		placeholder = sq.Dollar
	}
	return &titleQuery{db: db, placeholder: placeholder}
}

type titleRow struct {
	ID           uint            `db:"id"`
	Name         string          `db:"name"`
	Year         int             `db:"year"`
	Description  sql.NullString  `db:"description"`
	CategorySlug sql.NullString  `db:"category_slug"`
	CategoryName sql.NullString  `db:"category_name"`
	Rating       sql.NullFloat64 `db:"rating"`
}

type titleGenreRow struct {
	TitleID uint   `db:"title_id"`
	Slug    string `db:"slug"`
	Name    string `db:"name"`
}

func filteredTitles(filter entity.TitleFilter) sq.SelectBuilder {
	query := sq.Select(
		"t.id AS id",
		"t.name AS name",
		"t.year AS year",
		"t.description AS description",
		"c.slug AS category_slug",
		"c.name AS category_name",
		"(SELECT CAST(AVG(r.score) AS FLOAT) FROM reviews r WHERE r.title_id = t.id) AS rating",
	).
		From("titles t").
		LeftJoin("categories c ON c.id = t.category_id")

	if filter.Category != "" {
		query = query.Where(sq.Eq{"c.slug": filter.Category})
	}
	if filter.Genre != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM genre_title gt JOIN genres g ON g.id = gt.genre_id WHERE gt.title_id = t.id AND g.slug = ?)",
			filter.Genre,
		)
	}
	if filter.Name != "" {
		query = query.Where("LOWER(t.name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Year != nil {
		query = query.Where(sq.Eq{"t.year": *filter.Year})
	}

	return query
}

// List orders rated titles by rating descending, unrated ones last, ties by
// name.
func (q *titleQuery) List(ctx context.Context, filter entity.TitleFilter) ([]*entity.Title, error) {
	query := sq.Select("*").
		FromSelect(filteredTitles(filter), "ranked").
		OrderBy("ranked.rating IS NULL", "ranked.rating DESC", "ranked.name ASC", "ranked.id ASC").
		PlaceholderFormat(q.placeholder)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build titles query: %w", err)
	}

	var rows []titleRow
	if err := q.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}

	titles := make([]*entity.Title, len(rows))
	byID := make(map[uint]*entity.Title, len(rows))
	ids := make([]uint, len(rows))
	for i, row := range rows {
		titles[i] = row.toEntity()
		byID[row.ID] = titles[i]
		ids[i] = row.ID
	}

	if len(ids) == 0 {
		return titles, nil
	}

	genreQuery := sq.Select("gt.title_id AS title_id", "g.slug AS slug", "g.name AS name").
		From("genre_title gt").
		Join("genres g ON g.id = gt.genre_id").
		Where(sq.Eq{"gt.title_id": ids}).
		OrderBy("g.name ASC").
		PlaceholderFormat(q.placeholder)

	stmt, args, err = genreQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build title genres query: %w", err)
	}

	var genreRows []titleGenreRow
	if err := q.db.SelectContext(ctx, &genreRows, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list title genres: %w", err)
	}
	for _, row := range genreRows {
		if title, ok := byID[row.TitleID]; ok {
			title.Genres = append(title.Genres, entity.Genre{Slug: row.Slug, Name: row.Name})
		}
	}

	return titles, nil
}

func (q *titleQuery) Count(ctx context.Context, filter entity.TitleFilter) (int64, error) {
	stmt, args, err := sq.Select("COUNT(*)").
		FromSelect(filteredTitles(filter), "filtered").
		PlaceholderFormat(q.placeholder).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build titles count: %w", err)
	}

	var count int64
	if err := q.db.GetContext(ctx, &count, stmt, args...); err != nil {
		return 0, fmt.Errorf("failed to count titles: %w", err)
	}
	return count, nil
}

func (row titleRow) toEntity() *entity.Title {
	title := &entity.Title{
		ID:          row.ID,
		Name:        row.Name,
		Year:        row.Year,
		Description: row.Description.String,
		Genres:      []entity.Genre{},
	}
	if row.CategorySlug.Valid {
		title.Category = &entity.Category{Slug: row.CategorySlug.String, Name: row.CategoryName.String}
	}
	if row.Rating.Valid {
		rating := row.Rating.Float64
		title.Rating = &rating
	}
	return title
}
