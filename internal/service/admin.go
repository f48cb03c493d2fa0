package service

import (
	"context"
	"errors"
	"strings"

	"budget_system/internal/apperr"
	"budget_system/internal/domain"
	"budget_system/internal/repository"
)

// AdminService manages user accounts and reads the role registry
type AdminService struct {
	users UserStore
	roles RoleStore
}

// NewAdminService creates an admin service
func NewAdminService(users UserStore, roles RoleStore) *AdminService {
	return &AdminService{users: users, roles: roles}
}

// UpdateUserInput carries an admin edit. Nil fields keep their stored value.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *string
}

// ListUsers returns one page of accounts and the total account count
func (s *AdminService) ListUsers(ctx context.Context, page domain.Page) ([]domain.User, int64, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return users, total, nil
}

// ListRoles returns the role names of the registry
func (s *AdminService) ListRoles(ctx context.Context) ([]string, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names, nil
}

// UpdateUser changes username, email or role of a user
func (s *AdminService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrUserNotFound)
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, apperr.Validation("username must not be empty")
		}
		taken, err := s.users.UsernameTaken(ctx, username, user.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if taken {
			return nil, apperr.ErrUsernameTaken
		}
		user.Username = username
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, apperr.Validation("email must not be empty")
		}
		taken, err := s.users.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if taken {
			return nil, apperr.ErrEmailTaken
		}
		user.Email = email
	}

	if in.Role != nil {
		role, err := s.roles.FindByName(ctx, strings.TrimSpace(*in.Role))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.ErrInvalidRole
			}
			return nil, apperr.Internal(err)
		}
		user.RoleID = role.ID
		user.Role = *role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, duplicateAs(err)
	}
	return user, nil
}

// DeleteUser removes a user and all their transactions. Nobody may delete
// their own account, admins included.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.User, id uint) error {
	if actor.ID == id {
		return apperr.ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundAs(err, apperr.ErrUserNotFound)
	}
	return nil
}
