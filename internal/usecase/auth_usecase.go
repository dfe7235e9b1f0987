package usecase

import (
	"context"
	"errors"

	"yamdb/internal/entity"
	"yamdb/internal/repo/persistent"
	"yamdb/internal/validation"
	"yamdb/pkg/logger"
	"yamdb/pkg/metrics"

	"golang.org/x/crypto/bcrypt"
)

type SignupInput struct {
	Username string `json:"username" validate:"required,max=150,username,notme" example:"alice"`
	Email    string `json:"email" validate:"required,max=254,email" example:"alice@example.com"`
}

// TokenInput exchanges a confirmation code for a token. The code stays valid
// after an exchange and is only replaced by the next signup for the same
// account (see TestToken_CodeSurvivesExchangeUntilReissued).
type TokenInput struct {
	Username         string `json:"username" validate:"required,max=150" example:"alice"`
	ConfirmationCode string `json:"confirmation_code" validate:"required" example:"123456"`
}

type AuthUseCase interface {
	// Signup registers a new inactive account, or re-issues the code when the
	// exact (username, email) pair is already registered.
	Signup(ctx context.Context, in SignupInput) (*entity.User, error)
	// Token exchanges a confirmation code for an access token and activates
	// the account.
	Token(ctx context.Context, in TokenInput) (string, error)
}

type authUseCase struct {
	userRepo  persistent.UserRepository
	issuer    TokenIssuer
	sender    ConfirmationSender
	validator *validation.Validator
	newCode   CodeGenerator
	logger    *logger.Logger
}

// NewAuthUseCase wires the signup flow. sender may be nil, in which case
// codes are generated and stored but not delivered.
func NewAuthUseCase(
	userRepo persistent.UserRepository,
	issuer TokenIssuer,
	sender ConfirmationSender,
	validator *validation.Validator,
	newCode CodeGenerator,
	logger *logger.Logger,
) AuthUseCase {
	if newCode == nil {
		newCode = GenerateConfirmationCode
	}
	return &authUseCase{
		userRepo:  userRepo,
		issuer:    issuer,
		sender:    sender,
		validator: validator,
		newCode:   newCode,
		logger:    logger,
	}
}

func (uc *authUseCase) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if err := uc.validator.Struct(in); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	byName, err := uc.lookup(ctx, uc.userRepo.GetByUsername, in.Username)
	if err != nil {
		return nil, err
	}
	byEmail, err := uc.lookup(ctx, uc.userRepo.GetByEmail, in.Email)
	if err != nil {
		return nil, err
	}

	user, err := matchSignup(byName, byEmail)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return nil, err
	}

	code, err := uc.newCode()
	if err != nil {
		uc.logger.Error("Failed to generate confirmation code: %v", err)
		return nil, entity.ErrInternal
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash confirmation code: %v", err)
		return nil, entity.ErrInternal
	}

	result := "reissued"
	previousCode := ""
	if user == nil {
		result = "created"
		user = &entity.User{
			Username:         in.Username,
			Email:            in.Email,
			Role:             entity.RoleUser,
			ConfirmationCode: string(hashed),
		}
		err = uc.userRepo.Create(ctx, user)
	} else {
		previousCode = user.ConfirmationCode
		user.ConfirmationCode = string(hashed)
		err = uc.userRepo.Update(ctx, user)
	}
	if err != nil {
		if errors.Is(err, entity.ErrConflict) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return nil, err
		}
		uc.logger.Error("Failed to store user %s: %v", in.Username, err)
		return nil, entity.ErrInternal
	}

	if err := uc.dispatch(ctx, user, code); err != nil {
		uc.rollbackSignup(ctx, user, result == "created", previousCode)
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(result).Inc()
	uc.logger.Info("Confirmation code %s for user %s", result, user.Username)
	return user, nil
}

// rollbackSignup undoes the write of a signup whose code was never delivered:
// a new account is removed, a re-issued one gets its previous code back.
func (uc *authUseCase) rollbackSignup(ctx context.Context, user *entity.User, created bool, previousCode string) {
	var err error
	if created {
		err = uc.userRepo.Delete(ctx, user.ID)
	} else {
		user.ConfirmationCode = previousCode
		err = uc.userRepo.Update(ctx, user)
	}
	if err != nil {
		uc.logger.Error("Failed to roll back signup for user %s: %v", user.Username, err)
	}
}

// matchSignup returns the existing account for an exact retry, nil for a new
// signup, or a conflict naming every field taken by a different account.
func matchSignup(byName, byEmail *entity.User) (*entity.User, error) {
	if byName != nil && byEmail != nil && byName.ID == byEmail.ID {
		return byName, nil
	}
	if byName == nil && byEmail == nil {
		return nil, nil
	}

	conflict := &entity.Error{
		Kind:    entity.KindConflict,
		Message: "A user with that username or email already exists.",
		Fields:  map[string][]string{},
	}
	if byName != nil {
		conflict.Fields["username"] = []string{"A user with that username already exists."}
	}
	if byEmail != nil {
		conflict.Fields["email"] = []string{"A user with that email already exists."}
	}
	return nil, conflict
}

func (uc *authUseCase) lookup(ctx context.Context, get func(context.Context, string) (*entity.User, error), key string) (*entity.User, error) {
	user, err := get(ctx, key)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	uc.logger.Error("Failed to look up user %s: %v", key, err)
	return nil, entity.ErrInternal
}

func (uc *authUseCase) dispatch(ctx context.Context, user *entity.User, code string) error {
	if uc.sender == nil {
		uc.logger.Warn("No confirmation sender configured; code for %s was not delivered", user.Username)
		uc.logger.Debug("Confirmation code for %s: %s", user.Username, code)
		return nil
	}
	if err := uc.sender.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
		uc.logger.Error("Failed to dispatch confirmation code for %s: %v", user.Username, err)
		return &entity.Error{Kind: entity.KindInternal, Message: "failed to send confirmation code"}
	}
	return nil
}

// Token checks the code against the latest one issued. The code is kept after
// a successful exchange; a repeated signup rotates it.
func (uc *authUseCase) Token(ctx context.Context, in TokenInput) (string, error) {
	if err := uc.validator.Struct(in); err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("invalid").Inc()
		return "", err
	}

	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			metrics.TokensIssuedTotal.WithLabelValues("not_found").Inc()
			return "", entity.NotFound("user %s not found", in.Username)
		}
		uc.logger.Error("Failed to look up user %s: %v", in.Username, err)
		return "", entity.ErrInternal
	}

	if user.ConfirmationCode == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(in.ConfirmationCode)) != nil {
		metrics.TokensIssuedTotal.WithLabelValues("invalid_code").Inc()
		return "", entity.ErrInvalidCredential
	}

	if !user.IsActive {
		user.IsActive = true
		if err := uc.userRepo.Update(ctx, user); err != nil {
			uc.logger.Error("Failed to activate user %s: %v", user.Username, err)
			return "", entity.ErrInternal
		}
	}

	token, err := uc.issuer.GenerateToken(userSubject(user.ID), string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return "", entity.ErrInternal
	}

	metrics.TokensIssuedTotal.WithLabelValues("issued").Inc()
	return token, nil
}
