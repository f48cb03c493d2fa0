package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"budget_system/internal/apperr"
	"budget_system/internal/domain"
	"budget_system/internal/repository"
	"budget_system/internal/utils"
)

// TokenIssuer signs tokens for authenticated users
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// AuthService handles registration, login and profile settings
type AuthService struct {
	users  UserStore
	roles  RoleStore
	tokens TokenIssuer
}

// NewAuthService creates an auth service
func NewAuthService(users UserStore, roles RoleStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, roles: roles, tokens: tokens}
}

// RegisterInput carries a registration request
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a user with the default role. Uniqueness is checked before
// the insert and enforced again by the store's unique indexes.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, apperr.Validation("missing data (email, username and password are required)")
	}

	taken, err := s.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.ErrEmailTaken
	}
	taken, err = s.users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.ErrUsernameTaken
	}

	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrRoleRegistryUninitialized
		}
		return nil, apperr.Internal(err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicateAs(err)
	}
	user.Role = *role
	return user, nil
}

// Login checks email and password and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, apperr.Validation("missing data (email and password are required)")
	}
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperr.Internal(err)
		}
		utils.BurnPasswordCheck(password) // Same work as a wrong password
		return "", nil, apperr.ErrInvalidCredentials
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", nil, apperr.ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return token, user, nil
}

// UpdateCurrency stores a 3-letter currency code, uppercased
func (s *AuthService) UpdateCurrency(ctx context.Context, user *domain.User, code string) (*domain.User, error) {
	code = strings.TrimSpace(code)
	if utf8.RuneCountInString(code) != 3 {
		return nil, apperr.ErrInvalidCurrencyCode
	}
	updated := *user
	updated.Currency = strings.ToUpper(code)
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, notFoundAs(err, apperr.ErrUserNotFound)
	}
	return &updated, nil
}
