package usecase

import (
	"context"
	"errors"
	"strconv"

	"yamdb/internal/entity"
	"yamdb/internal/policy"
	"yamdb/internal/repo/persistent"
	"yamdb/internal/validation"
	"yamdb/pkg/logger"
)

type CreateUserInput struct {
	Username  string `json:"username" validate:"required,max=150,username,notme" example:"bob"`
	Email     string `json:"email" validate:"required,max=254,email" example:"bob@example.com"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" validate:"omitempty,role" example:"user"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Username  *string `json:"username" validate:"omitnil,max=150,username,notme"`
	Email     *string `json:"email" validate:"omitnil,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitnil,role"`
}

type UserUseCase interface {
	// ResolveActor turns an authenticated subject into the acting user.
	// Unknown or inactive accounts are rejected as unauthorized.
	ResolveActor(ctx context.Context, subject string) (*entity.User, error)

	List(ctx context.Context, actor *entity.User, search string, limit, offset int) ([]*entity.User, int64, error)
	Create(ctx context.Context, actor *entity.User, in CreateUserInput) (*entity.User, error)
	Get(ctx context.Context, actor *entity.User, username string) (*entity.User, error)
	Update(ctx context.Context, actor *entity.User, username string, in UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, actor *entity.User, username string) error

	Me(ctx context.Context, actor *entity.User) (*entity.User, error)
	// UpdateMe edits the actor's own profile. A role in the input is ignored.
	UpdateMe(ctx context.Context, actor *entity.User, in UpdateUserInput) (*entity.User, error)
}

type userUseCase struct {
	userRepo  persistent.UserRepository
	validator *validation.Validator
	logger    *logger.Logger
}

func NewUserUseCase(userRepo persistent.UserRepository, validator *validation.Validator, logger *logger.Logger) UserUseCase {
	return &userUseCase{
		userRepo:  userRepo,
		validator: validator,
		logger:    logger,
	}
}

func (uc *userUseCase) ResolveActor(ctx context.Context, subject string) (*entity.User, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, entity.ErrUnauthorized
	}

	user, err := uc.userRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrUnauthorized
		}
		uc.logger.Error("Failed to resolve actor %s: %v", subject, err)
		return nil, entity.ErrInternal
	}
	if !user.IsActive {
		return nil, entity.ErrUnauthorized
	}
	return user, nil
}

func (uc *userUseCase) List(ctx context.Context, actor *entity.User, search string, limit, offset int) ([]*entity.User, int64, error) {
	if err := policy.CanManageUsers(actor); err != nil {
		return nil, 0, err
	}
	return uc.userRepo.List(ctx, search, limit, offset)
}

// Create adds an account on an admin's behalf. It is active but has no
// confirmation code until the owner signs up with the same pair.
func (uc *userUseCase) Create(ctx context.Context, actor *entity.User, in CreateUserInput) (*entity.User, error) {
	if err := policy.CanManageUsers(actor); err != nil {
		return nil, err
	}
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, 0, &in.Username, &in.Email); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if in.Role != "" {
		role = entity.UserRole(in.Role)
	}

	user := &entity.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
		IsActive:  true,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("User %s created by %s with role %s", user.Username, actor.Username, user.Role)
	return user, nil
}

func (uc *userUseCase) Get(ctx context.Context, actor *entity.User, username string) (*entity.User, error) {
	if err := policy.CanManageUsers(actor); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByUsername(ctx, username)
}

func (uc *userUseCase) Update(ctx context.Context, actor *entity.User, username string, in UpdateUserInput) (*entity.User, error) {
	if err := policy.CanManageUsers(actor); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, user, in)
}

func (uc *userUseCase) Delete(ctx context.Context, actor *entity.User, username string) error {
	if err := policy.CanManageUsers(actor); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := uc.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	uc.logger.Info("User %s deleted by %s", user.Username, actor.Username)
	return nil
}

func (uc *userUseCase) Me(ctx context.Context, actor *entity.User) (*entity.User, error) {
	if err := policy.CanEditSelf(actor); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, actor.ID)
}

func (uc *userUseCase) UpdateMe(ctx context.Context, actor *entity.User, in UpdateUserInput) (*entity.User, error) {
	if err := policy.CanEditSelf(actor); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	in.Role = nil
	return uc.apply(ctx, user, in)
}

func (uc *userUseCase) apply(ctx context.Context, user *entity.User, in UpdateUserInput) (*entity.User, error) {
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, user.ID, in.Username, in.Email); err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil {
		user.Role = entity.UserRole(*in.Role)
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// checkUnique reports a conflict for each of username and email already held
// by an account other than selfID.
func (uc *userUseCase) checkUnique(ctx context.Context, selfID uint, username, email *string) error {
	fields := map[string][]string{}

	if username != nil {
		taken, err := uc.takenBy(ctx, uc.userRepo.GetByUsername, *username, selfID)
		if err != nil {
			return err
		}
		if taken {
			fields["username"] = []string{"A user with that username already exists."}
		}
	}
	if email != nil {
		taken, err := uc.takenBy(ctx, uc.userRepo.GetByEmail, *email, selfID)
		if err != nil {
			return err
		}
		if taken {
			fields["email"] = []string{"A user with that email already exists."}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &entity.Error{
		Kind:    entity.KindConflict,
		Message: "A user with that username or email already exists.",
		Fields:  fields,
	}
}

func (uc *userUseCase) takenBy(ctx context.Context, get func(context.Context, string) (*entity.User, error), key string, selfID uint) (bool, error) {
	other, err := get(ctx, key)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return false, nil
		}
		uc.logger.Error("Failed to look up user %s: %v", key, err)
		return false, entity.ErrInternal
	}
	return other.ID != selfID, nil
}
