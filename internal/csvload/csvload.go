// Package csvload imports a YaMDb data set from CSV files.
package csvload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/entity"
	"yamdb/internal/model"
	"yamdb/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

// Files in the order they are loaded. Later files reference rows of earlier
// ones.
var Files = []string{
	"category.csv",
	"genre.csv",
	"titles.csv",
	"genre_title.csv",
	"users.csv",
	"review.csv",
	"comments.csv",
}

// Stats counts the rows inserted per file. Rows whose id already exists are
// left untouched and not counted.
type Stats map[string]int64

type Loader struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewLoader(db *gorm.DB, logger *logger.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

// Load imports every file src has in one transaction. Missing files are
// skipped; a malformed row aborts the whole import.
func (l *Loader) Load(ctx context.Context, src Source) (Stats, error) {
	stats := Stats{}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range Files {
			rows, err := readFile(src, name)
			if errors.Is(err, fs.ErrNotExist) {
				l.logger.Warn("Skipping %s: not found", name)
				continue
			}
			if err != nil {
				return err
			}

			records, err := parse(name, rows)
			if err != nil {
				return err
			}

			inserted, err := insert(tx, records)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", name, err)
			}
			stats[name] = inserted
			l.logger.Info("Loaded %s: %d of %d rows inserted", name, inserted, len(rows))
		}

		if tx.Dialector.Name() == "postgres" {
			return resetSequences(tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// readFile returns the data rows of name, header excluded.
func readFile(src Source, name string) ([][]string, error) {
	f, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

// rowError points at the offending line, counting the header as line 1.
func rowError(name string, i int, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", name, i+2, fmt.Sprintf(format, args...))
}

func parse(name string, rows [][]string) (interface{}, error) {
	switch name {
	case "category.csv":
		out := make([]model.CategoryModel, 0, len(rows))
		for i, row := range rows {
			if len(row) < 3 {
				return nil, rowError(name, i, "want id,name,slug")
			}
			id, err := parseID(row[0])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			out = append(out, model.CategoryModel{ID: id, Name: row[1], Slug: row[2]})
		}
		return out, nil

	case "genre.csv":
		out := make([]model.GenreModel, 0, len(rows))
		for i, row := range rows {
			if len(row) < 3 {
				return nil, rowError(name, i, "want id,name,slug")
			}
			id, err := parseID(row[0])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			out = append(out, model.GenreModel{ID: id, Name: row[1], Slug: row[2]})
		}
		return out, nil

	case "titles.csv":
		out := make([]model.TitleModel, 0, len(rows))
		for i, row := range rows {
			if len(row) < 4 {
				return nil, rowError(name, i, "want id,name,year,category")
			}
			id, err := parseID(row[0])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			year, err := strconv.Atoi(row[2])
			if err != nil {
				return nil, rowError(name, i, "invalid year %q", row[2])
			}
			categoryID, err := parseOptionalID(row[3])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			out = append(out, model.TitleModel{ID: id, Name: row[1], Year: year, CategoryID: categoryID})
		}
		return out, nil

	case "genre_title.csv":
		out := make([]model.GenreTitleModel, 0, len(rows))
		for i, row := range rows {
			if len(row) < 3 {
				return nil, rowError(name, i, "want id,title_id,genre_id")
			}
			ids, err := parseIDs(row[:3])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			genreID := ids[2]
			out = append(out, model.GenreTitleModel{ID: ids[0], TitleID: ids[1], GenreID: &genreID})
		}
		return out, nil

	case "users.csv":
		out := make([]model.UserModel, 0, len(rows))
		for i, row := range rows {
			if len(row) < 7 {
				return nil, rowError(name, i, "want id,username,email,role,bio,first_name,last_name")
			}
			id, err := parseID(row[0])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			role := entity.UserRole(row[3])
			if role == "" {
				role = entity.RoleUser
			}
			if !role.Valid() {
				return nil, rowError(name, i, "unknown role %q", row[3])
			}
			out = append(out, model.UserModel{
				ID:        id,
				Username:  row[1],
				Email:     row[2],
				Role:      string(role),
				Bio:       row[4],
				FirstName: row[5],
				LastName:  row[6],
				IsActive:  true,
			})
		}
		return out, nil

	case "review.csv":
		out := make([]model.ReviewModel, 0, len(rows))
		for i, row := range rows {
			if len(row) < 6 {
				return nil, rowError(name, i, "want id,title_id,text,author,score,pub_date")
			}
			id, err := parseID(row[0])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			titleID, err := parseID(row[1])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			authorID, err := parseID(row[3])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			score, err := strconv.Atoi(row[4])
			if err != nil || score < entity.MinScore || score > entity.MaxScore {
				return nil, rowError(name, i, "score %q is not between %d and %d", row[4], entity.MinScore, entity.MaxScore)
			}
			pubDate, err := parseTime(row[5])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			out = append(out, model.ReviewModel{
				ID: id, TitleID: titleID, AuthorID: authorID, Text: row[2], Score: score, PubDate: pubDate,
			})
		}
		return out, nil

	case "comments.csv":
		out := make([]model.CommentModel, 0, len(rows))
		for i, row := range rows {
			if len(row) < 5 {
				return nil, rowError(name, i, "want id,review_id,text,author,pub_date")
			}
			id, err := parseID(row[0])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			reviewID, err := parseID(row[1])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			authorID, err := parseID(row[3])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			pubDate, err := parseTime(row[4])
			if err != nil {
				return nil, rowError(name, i, "%v", err)
			}
			out = append(out, model.CommentModel{
				ID: id, ReviewID: reviewID, AuthorID: authorID, Text: row[2], PubDate: pubDate,
			})
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown file %s", name)
}

// insert creates records, skipping any whose primary key is already taken.
func insert(tx *gorm.DB, records interface{}) (int64, error) {
	if isEmpty(records) {
		return 0, nil
	}
	result := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		CreateInBatches(records, batchSize)
	return result.RowsAffected, result.Error
}

func isEmpty(records interface{}) bool {
	switch r := records.(type) {
	case []model.CategoryModel:
		return len(r) == 0
	case []model.GenreModel:
		return len(r) == 0
	case []model.TitleModel:
		return len(r) == 0
	case []model.GenreTitleModel:
		return len(r) == 0
	case []model.UserModel:
		return len(r) == 0
	case []model.ReviewModel:
		return len(r) == 0
	case []model.CommentModel:
		return len(r) == 0
	}
	return true
}

var sequencedTables = []string{"users", "categories", "genres", "titles", "genre_title", "reviews", "comments"}

// resetSequences moves every id sequence past the imported ids.
func resetSequences(tx *gorm.DB) error {
	for _, table := range sequencedTables {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			table,
		)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to reset sequence of %s: %w", table, err)
		}
	}
	return nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func parseOptionalID(s string) (*uint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIDs(fields []string) ([]uint, error) {
	ids := make([]uint, len(fields))
	for i, f := range fields {
		id, err := parseID(f)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pub_date %q", s)
	}
	return t, nil
}
