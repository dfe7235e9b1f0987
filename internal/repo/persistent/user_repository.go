package persistent

import (
	"context"
	"strings"

	"yamdb/internal/entity"
	"yamdb/internal/model"

	"gorm.io/gorm"
)

const userConflictMessage = "A user with that username or email already exists."

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.User, int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return translate(err, "user", "username", userConflictMessage)
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&userModel).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

// List returns users ordered by username. search matches a username
// substring, case-insensitively.
func (r *userRepository) List(ctx context.Context, search string, limit, offset int) ([]*entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.UserModel{})
	if search != "" {
		query = query.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, notFound(err, "users")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var userModels []model.UserModel
	if err := query.Order("username ASC").Find(&userModels).Error; err != nil {
		return nil, 0, notFound(err, "users")
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Save(userModel).Error; err != nil {
		return translate(err, "user", "username", userConflictMessage)
	}
	*user = *ToUserEntity(userModel)
	return nil
}

// Delete removes the user together with every review and comment they
// authored, and every comment left on those reviews.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authored := tx.Model(&model.ReviewModel{}).Select("id").Where("author_id = ?", id)

		if err := tx.Where("review_id IN (?)", authored).Delete(&model.CommentModel{}).Error; err != nil {
			return notFound(err, "comments")
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.CommentModel{}).Error; err != nil {
			return notFound(err, "comments")
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.ReviewModel{}).Error; err != nil {
			return notFound(err, "reviews")
		}

		result := tx.Delete(&model.UserModel{}, id)
		if result.Error != nil {
			return notFound(result.Error, "user")
		}
		if result.RowsAffected == 0 {
			return entity.NotFound("user not found")
		}
		return nil
	})
}
