// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/internal/platform/constants"
	"github.com/taibuivan/animes/internal/platform/sec"
	"github.com/taibuivan/animes/internal/platform/validate"
	"github.com/taibuivan/animes/pkg/slice"
	"github.com/taibuivan/animes/pkg/uuid"
)

// dummyHash is compared against when the username is unknown so that both
// failure paths spend the same bcrypt time.
var dummyHash, _ = sec.HashPassword("animes-timing-equalizer")

// Service verifies credentials and provisions accounts.
type Service struct {
	userRepository UserRepository
	logger         *slog.Logger
}

// NewService constructs a new [Service].
func NewService(userRepository UserRepository, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepository,
		logger:         logger,
	}
}

// # Authentication Flow

/*
Authenticate checks a username and password pair.

Returns:
  - *sec.AuthClaims: identity of the account on success
  - error: UNAUTHORIZED "Invalid credentials" for unknown users and wrong
    passwords alike, or the storage error unchanged
*/
func (service *Service) Authenticate(ctx context.Context, username, password string) (*sec.AuthClaims, error) {
	user, err := service.userRepository.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotExist) {
		sec.CheckPasswordHash(password, dummyHash)
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	return &sec.AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// # Provisioning

// CreateUserInput holds the data required to provision an account.
type CreateUserInput struct {
	Username string
	Password string
	Role     string
}

// CreateUser validates the input, hashes the password and stores a new account.
func (service *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	role, roleOK := sec.ParseRole(input.Role)

	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		MinLen(FieldPassword, input.Password, constants.MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes, fmt.Sprintf("must not exceed %d bytes", sec.MaxPasswordBytes))
	if !roleOK {
		validator.OneOf(FieldRole, input.Role, slice.Map(sec.Roles(), func(role sec.UserRole) string {
			return string(role)
		})...)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, apperr.Conflict("Username is already taken")
		}
		return nil, err
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// EnsureUser creates the account unless the username already exists.
// An existing account is left untouched, password and role included.
func (service *Service) EnsureUser(ctx context.Context, input CreateUserInput) error {
	_, err := service.userRepository.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err == nil {
		service.logger.Debug("user_already_present", slog.String("username", input.Username))
		return nil
	}
	if !errors.Is(err, ErrUserNotExist) {
		return err
	}

	_, err = service.CreateUser(ctx, input)
	if apperr.HasCode(err, apperr.CodeConflict) {
		return nil
	}
	return err
}
