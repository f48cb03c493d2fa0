package service

import (
	"context"
	"strings"
	"time"

	"budget_system/internal/apperr"
	"budget_system/internal/domain"
)

// TransactionService filters, aggregates and mutates ledger rows
type TransactionService struct {
	txs TransactionStore
	now func() time.Time
}

// NewTransactionService creates a transaction service
func NewTransactionService(txs TransactionStore) *TransactionService {
	return &TransactionService{txs: txs, now: time.Now}
}

// CreateInput carries a new transaction. Nil fields were absent from the request.
type CreateInput struct {
	Description string
	Amount      *float64
	Category    *string
	Date        *string
}

// UpdateInput carries a partial update. Nil fields keep their stored value.
type UpdateInput struct {
	Description *string
	Amount      *float64
	Category    *string
	Date        *string
}

// List returns the user's transactions newest first
func (s *TransactionService) List(ctx context.Context, user *domain.User, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	filter.User = "" // owner scoping comes from user, never from the filter
	txs, err := s.txs.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return txs, nil
}

// Categories returns the distinct categories the user has used
func (s *TransactionService) Categories(ctx context.Context, user *domain.User) ([]string, error) {
	categories, err := s.txs.Categories(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// ListAll returns one page of transactions with their owners, plus the
// number of matching rows. Callers gate it to admins.
func (s *TransactionService) ListAll(ctx context.Context, filter domain.TransactionFilter, page domain.Page) ([]domain.OwnedTransaction, int64, error) {
	rows, total, err := s.txs.ListAll(ctx, filter, page)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return rows, total, nil
}

// Stats aggregates the user's transactions for year, and month when non-zero
func (s *TransactionService) Stats(ctx context.Context, user *domain.User, year, month int) (domain.Stats, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if month < 0 || month > 12 || year < domain.MinYear || year > domain.MaxYear {
		return domain.Stats{}, apperr.ErrInvalidPeriod
	}
	from, to := domain.Period(year, month)
	stats, err := s.txs.Stats(ctx, user.ID, from, to)
	if err != nil {
		return domain.Stats{}, apperr.Internal(err)
	}
	stats.Year, stats.Month = year, month
	return stats, nil
}

// Create records a transaction owned by user
func (s *TransactionService) Create(ctx context.Context, user *domain.User, in CreateInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" || in.Amount == nil {
		return nil, apperr.Validation("missing data (description and amount are required)")
	}
	t := &domain.Transaction{
		Description: description,
		Amount:      *in.Amount,
		Category:    domain.DefaultCategory,
		Date:        s.now().UTC(),
		UserID:      user.ID,
	}
	if in.Category != nil {
		t.Category = categoryOrDefault(*in.Category)
	}
	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		date, err := ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}
	if err := s.txs.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

// Update applies a partial update. Only the owner or an admin may update.
func (s *TransactionService) Update(ctx context.Context, actor *domain.User, id uint, in UpdateInput) (*domain.Transaction, error) {
	t, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, apperr.Validation("description must not be empty")
		}
		t.Description = description
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Category != nil {
		t.Category = categoryOrDefault(*in.Category)
	}
	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		date, err := ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}
	if err := s.txs.Update(ctx, t); err != nil {
		return nil, notFoundAs(err, apperr.ErrTransactionNotFound)
	}
	return t, nil
}

// Delete removes a transaction. Only the owner or an admin may delete.
func (s *TransactionService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.txs.Delete(ctx, id); err != nil {
		return notFoundAs(err, apperr.ErrTransactionNotFound)
	}
	return nil
}

// authorize loads a transaction and checks actor may change it
func (s *TransactionService) authorize(ctx context.Context, actor *domain.User, id uint) (*domain.Transaction, error) {
	t, err := s.txs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, apperr.ErrTransactionNotFound)
	}
	if t.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	return t, nil
}

func categoryOrDefault(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return domain.DefaultCategory
}
