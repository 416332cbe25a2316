package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	userserrors "fleetbook/internal/users/errors"
	"fleetbook/internal/users/repository"
	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

type UserService interface {
	Register(ctx context.Context, creds *model.Credentials) (*model.User, error)
	Login(ctx context.Context, creds *model.Credentials) (*model.TokenResponse, error)
}

type userService struct {
	cfg      *config.Config
	repo     repository.UserRepository
	issuer   *auth.TokenIssuer
	validate *validator.Validate
}

func NewUserService(cfg *config.Config, repo repository.UserRepository, issuer *auth.TokenIssuer) UserService {
	return &userService{
		cfg:      cfg,
		repo:     repo,
		issuer:   issuer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *userService) Register(ctx context.Context, creds *model.Credentials) (*model.User, error) {
	if err := s.validate.Struct(creds); err != nil {
		return nil, apperrors.Validation("Invalid credentials", map[string]any{"errors": err.Error()})
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Username:     creds.Username,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateUsername) {
			return nil, apperrors.Conflict("username already taken")
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, creds *model.Credentials) (*model.TokenResponse, error) {
	if err := s.validate.Struct(creds); err != nil {
		return nil, apperrors.Validation("Invalid credentials", map[string]any{"errors": err.Error()})
	}

	user, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			// Same response as a wrong password so usernames cannot be probed.
			return nil, apperrors.Unauthorized("invalid username or password")
		}
		return nil, apperrors.Internal("Failed to find user", err)
	}

	if !auth.CheckPassword(creds.Password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("invalid username or password")
	}

	token, err := s.issuer.Issue(auth.Actor{Username: user.Username, IsAdmin: user.IsAdmin})
	if err != nil {
		return nil, apperrors.Internal("Failed to issue session token", err)
	}

	return &model.TokenResponse{
		Token:    token,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}, nil
}
