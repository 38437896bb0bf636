package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tripfolio/tripfolio/backend/internal/auth"
	"github.com/tripfolio/tripfolio/backend/internal/domain"
	"github.com/tripfolio/tripfolio/backend/internal/repo"
)

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 8

// RegisterInput carries the fields of a sign-up request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService implements registration, login, token refresh, and profile
// management.
type UserService struct {
	users  repo.UserRepo
	tokens *auth.TokenIssuer
}

// NewUserService constructs a UserService backed by the provided repo and
// token issuer.
func NewUserService(users repo.UserRepo, tokens *auth.TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register validates the input, hashes the password, creates the profile,
// and signs the user in by returning a fresh token pair.
// Returns domain.ErrConflict if the email is already registered.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, auth.TokenPair, error) {
	if err := validateRegisterInput(input); err != nil {
		return domain.User{}, auth.TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, auth.TokenPair{}, fmt.Errorf("service.UserService.Register: hash: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, auth.TokenPair{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, auth.TokenPair{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return user, pair, nil
}

// Login verifies the credentials and returns the user with a fresh token
// pair. An unknown email and a wrong password both surface as
// domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (domain.User, auth.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, auth.TokenPair{}, fmt.Errorf("service.UserService.Login: %w", domain.ErrInvalidCredentials)
		}
		return domain.User{}, auth.TokenPair{}, fmt.Errorf("service.UserService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, auth.TokenPair{}, fmt.Errorf("service.UserService.Login: %w", domain.ErrInvalidCredentials)
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, auth.TokenPair{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w", err)
	}

	// The account may have been deleted since the token was issued.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return auth.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w", domain.ErrInvalidCredentials)
		}
		return auth.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w", err)
	}

	pair, err := s.tokens.Issue(userID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w", err)
	}
	return pair, nil
}

// GetProfile returns the profile of the given user.
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetProfile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial edit of the user's display names.
// The email address is not editable here: it is the login identity.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (domain.User, error) {
	if update.FirstName != nil && strings.TrimSpace(*update.FirstName) == "" {
		return domain.User{}, fmt.Errorf("%w: first name must not be empty", domain.ErrValidation)
	}
	if update.LastName != nil && strings.TrimSpace(*update.LastName) == "" {
		return domain.User{}, fmt.Errorf("%w: last name must not be empty", domain.ErrValidation)
	}

	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.UpdateProfile: %w", err)
	}
	return user, nil
}

// validateRegisterInput enforces the sign-up rules before hashing anything.
func validateRegisterInput(input RegisterInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(input.LastName) == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrValidation)
	}
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email address is required", domain.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	return nil
}

// normalizeEmail lowercases and trims an email address so lookups are
// case-insensitive without a functional index.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
