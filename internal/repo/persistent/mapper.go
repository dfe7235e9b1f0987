package persistent

import (
	"yamdb/internal/entity"
	"yamdb/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:               m.ID,
		Username:         m.Username,
		Email:            m.Email,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Bio:              m.Bio,
		Role:             entity.UserRole(m.Role),
		IsStaff:          m.IsStaff,
		IsActive:         m.IsActive,
		ConfirmationCode: m.ConfirmationCode,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:               e.ID,
		Username:         e.Username,
		Email:            e.Email,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		Bio:              e.Bio,
		Role:             string(e.Role),
		IsStaff:          e.IsStaff,
		IsActive:         e.IsActive,
		ConfirmationCode: e.ConfirmationCode,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToCategoryEntity(m *model.CategoryModel) *entity.Category {
	if m == nil {
		return nil
	}
	return &entity.Category{ID: m.ID, Slug: m.Slug, Name: m.Name}
}

func ToGenreEntity(m *model.GenreModel) *entity.Genre {
	if m == nil {
		return nil
	}
	return &entity.Genre{ID: m.ID, Slug: m.Slug, Name: m.Name}
}

// ToTitleEntity maps a title with its preloaded category and genre links.
// Links whose genre was deleted are skipped.
func ToTitleEntity(m *model.TitleModel) *entity.Title {
	if m == nil {
		return nil
	}

	title := &entity.Title{
		ID:          m.ID,
		Name:        m.Name,
		Year:        m.Year,
		Description: m.Description,
		Category:    ToCategoryEntity(m.Category),
		Genres:      []entity.Genre{},
	}

	for _, link := range m.Genres {
		if link.Genre == nil {
			continue
		}
		title.Genres = append(title.Genres, *ToGenreEntity(link.Genre))
	}

	return title
}

func ToTitleModel(e *entity.Title) *model.TitleModel {
	if e == nil {
		return nil
	}

	title := &model.TitleModel{
		ID:          e.ID,
		Name:        e.Name,
		Year:        e.Year,
		Description: e.Description,
	}
	if e.Category != nil {
		id := e.Category.ID
		title.CategoryID = &id
	}

	return title
}

func ToReviewEntity(m *model.ReviewModel) *entity.Review {
	if m == nil {
		return nil
	}

	review := &entity.Review{
		ID:       m.ID,
		TitleID:  m.TitleID,
		AuthorID: m.AuthorID,
		Text:     m.Text,
		Score:    m.Score,
		PubDate:  m.PubDate,
	}
	if m.Author != nil {
		review.Author = m.Author.Username
	}

	return review
}

func ToReviewModel(e *entity.Review) *model.ReviewModel {
	if e == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:       e.ID,
		TitleID:  e.TitleID,
		AuthorID: e.AuthorID,
		Text:     e.Text,
		Score:    e.Score,
		PubDate:  e.PubDate,
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}

	comment := &entity.Comment{
		ID:       m.ID,
		ReviewID: m.ReviewID,
		AuthorID: m.AuthorID,
		Text:     m.Text,
		PubDate:  m.PubDate,
	}
	if m.Author != nil {
		comment.Author = m.Author.Username
	}

	return comment
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:       e.ID,
		ReviewID: e.ReviewID,
		AuthorID: e.AuthorID,
		Text:     e.Text,
		PubDate:  e.PubDate,
	}
}
