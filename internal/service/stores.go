// Package service implements registration, login, the transaction query
// service and admin user management on top of the repository interfaces.
package service

import (
	"context"
	"errors"
	"time"

	"budget_system/internal/apperr"
	"budget_system/internal/domain"
	"budget_system/internal/repository"
)

// UserStore is the credential store
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, page domain.Page) ([]domain.User, int64, error)
	Delete(ctx context.Context, id uint) error
}

// RoleStore is the role registry
type RoleStore interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}

// TransactionStore is the ledger
type TransactionStore interface {
	FindByID(ctx context.Context, id uint) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uint, filter domain.TransactionFilter) ([]domain.Transaction, error)
	Categories(ctx context.Context, userID uint) ([]string, error)
	ListAll(ctx context.Context, filter domain.TransactionFilter, page domain.Page) ([]domain.OwnedTransaction, int64, error)
	Stats(ctx context.Context, userID uint, from, to time.Time) (domain.Stats, error)
	Create(ctx context.Context, t *domain.Transaction) error
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id uint) error
}

// notFoundAs maps repository.ErrNotFound to sentinel and anything else to an internal error
func notFoundAs(err error, sentinel *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return apperr.Internal(err)
}

// duplicateAs maps a unique index violation to a conflict
func duplicateAs(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Wrap(apperr.ErrDuplicateUser, err)
	}
	return apperr.Internal(err)
}
