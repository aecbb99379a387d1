package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tanvir/feedboard/internal/apperror"
	"github.com/tanvir/feedboard/internal/auth"
	"github.com/tanvir/feedboard/internal/authz"
	"github.com/tanvir/feedboard/internal/model"
	"github.com/tanvir/feedboard/internal/validate"
)

// RegisterUserInput carries the registerUser arguments.
type RegisterUserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginInput carries the login arguments.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the login response: the session token and who it is for.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// SetStatusInput carries the setStatus argument.
type SetStatusInput struct {
	Status string `json:"status"`
}

// RegisterUser creates a new account.
//
// Pipeline: validate email/password → check email uniqueness → hash the
// password → persist. The returned user never carries the password in any
// form (the hash field is excluded from serialization by the model).
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	if err := authz.Authorize(auth.IdentityFromContext(ctx), authz.OpRegisterUser, ""); err != nil {
		return nil, err
	}

	if violations := validate.Credentials(in.Email, in.Password); len(violations) > 0 {
		return nil, apperror.ValidationFailed(violations)
	}

	// Uniqueness pre-check. NotFound is the happy path here; any other
	// error is a real storage failure. The repository's UNIQUE constraint
	// backstops the race between two concurrent registrations.
	_, err := s.users.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperror.Conflict("user", in.Email)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service: checking email uniqueness: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service: hashing password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Status:       model.DefaultStatus,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", in.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login checks the credentials and issues a one-hour session token.
//
// Both failure modes — unknown email and wrong password — map to the same
// 401 kind; only the log line distinguishes them.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := authz.Authorize(auth.IdentityFromContext(ctx), authz.OpLogin, ""); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotAuthenticated("no user found with this email")
		}
		return nil, fmt.Errorf("service: looking up user for login: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		s.logger.Info("login rejected",
			slog.String("userID", user.ID),
		)
		return nil, apperror.NotAuthenticated("incorrect password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &LoginResult{Token: token, UserID: user.ID}, nil
}

// GetProfile returns the caller's own user record.
func (s *Service) GetProfile(ctx context.Context) (*model.User, error) {
	identity := auth.IdentityFromContext(ctx)
	if err := authz.Authorize(identity, authz.OpGetProfile, ""); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SetStatus replaces the caller's free-text status line.
func (s *Service) SetStatus(ctx context.Context, in SetStatusInput) (*Success, error) {
	identity := auth.IdentityFromContext(ctx)
	if err := authz.Authorize(identity, authz.OpSetStatus, ""); err != nil {
		return nil, err
	}

	// Fetch first so a stale token for a deleted account yields a clean
	// not-found instead of a silent zero-row update.
	if _, err := s.users.GetUserByID(ctx, identity.UserID); err != nil {
		return nil, err
	}

	if err := s.users.UpdateStatus(ctx, identity.UserID, in.Status); err != nil {
		return nil, fmt.Errorf("service: updating status for user %s: %w", identity.UserID, err)
	}

	s.logger.Info("status updated", slog.String("userID", identity.UserID))

	return &Success{OK: true}, nil
}
