package db

import (
	"context" // Context for store calls
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"budget_system/internal/domain"     // Importing domain models
	"budget_system/internal/repository" // Repository errors
	"budget_system/internal/utils"      // Password hashing

	"github.com/sirupsen/logrus" // Logging library
)

// RoleSeeder creates missing roles
type RoleSeeder interface {
	Ensure(ctx context.Context, names ...string) ([]string, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

// AdminSeeder looks up and creates users
type AdminSeeder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// AdminAccount is the bootstrap admin taken from configuration
type AdminAccount struct {
	Email    string
	Username string
	Password string
}

// SeedRoles makes sure the default roles exist. It is safe to run on every start.
func SeedRoles(ctx context.Context, roles RoleSeeder) error {
	created, err := roles.Ensure(ctx, domain.DefaultRoles...)
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if len(created) > 0 {
		logrus.WithField("roles", created).Info("Roles seeded")
	}
	return nil
}

// SeedAdmin creates the bootstrap admin unless a user with that email exists
func SeedAdmin(ctx context.Context, roles RoleSeeder, users AdminSeeder, account AdminAccount) error {
	_, err := users.FindByEmail(ctx, account.Email)
	if err == nil {
		return nil // Already there
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	role, err := roles.FindByName(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: admin role: %w", err)
	}
	hash, err := utils.HashPassword(account.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	admin := &domain.User{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  admin.ID,       // New admin ID
		"username": admin.Username, // Admin username
	}).Info("Admin user seeded")
	return nil
}
