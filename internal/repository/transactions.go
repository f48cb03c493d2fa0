package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"budget_system/internal/domain"

	"gorm.io/gorm"
)

// TransactionRepository stores ledger rows and runs the aggregate queries
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// FindByID returns a single transaction
func (r *TransactionRepository) FindByID(ctx context.Context, id uint) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ListByUser returns a user's transactions newest first, narrowed by filter
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Search != "" {
		q = q.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	txs := []domain.Transaction{}
	if err := q.Order("date desc").Order("id desc").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Categories returns the distinct non-empty categories used by a user
func (r *TransactionRepository) Categories(ctx context.Context, userID uint) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("user_id = ? AND category IS NOT NULL AND category <> ''", userID).
		Distinct().
		Order("category asc").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListAll returns one page of transactions joined with their owners, newest first,
// and the number of matching rows
func (r *TransactionRepository) ListAll(ctx context.Context, filter domain.TransactionFilter, page domain.Page) ([]domain.OwnedTransaction, int64, error) {
	q := r.db.WithContext(ctx).
		Table("transactions").
		Joins("JOIN users ON users.id = transactions.user_id")
	if filter.Search != "" {
		q = q.Where("LOWER(transactions.description) LIKE ?", likePattern(filter.Search))
	}
	if filter.Category != "" {
		q = q.Where("transactions.category = ?", filter.Category)
	}
	if filter.User != "" {
		if id, err := strconv.ParseUint(filter.User, 10, 64); err == nil {
			q = q.Where("transactions.user_id = ?", id)
		} else {
			q = q.Where("LOWER(users.username) LIKE ?", likePattern(filter.User))
		}
	}
	q = q.Session(&gorm.Session{}) // Shared by the count and the page query

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count all transactions: %w", err)
	}
	rows := []domain.OwnedTransaction{}
	q = q.Select("transactions.*, users.username AS username, users.currency AS currency").
		Order("transactions.date desc").
		Order("transactions.id desc")
	if err := paged(q, page).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list all transactions: %w", err)
	}
	return rows, total, nil
}

// statsRow receives the grouped aggregate; every column may be NULL when no rows match
type statsRow struct {
	TotalIncome       sql.NullFloat64
	TotalExpense      sql.NullFloat64
	TotalTransactions sql.NullInt64
	MaxIncome         sql.NullFloat64
	MaxExpense        sql.NullFloat64
	AverageExpense    sql.NullFloat64
}

const statsSelect = `SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END) AS total_income,
SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END) AS total_expense,
COUNT(id) AS total_transactions,
MAX(CASE WHEN amount > 0 THEN amount END) AS max_income,
MIN(CASE WHEN amount < 0 THEN amount END) AS max_expense,
AVG(CASE WHEN amount < 0 THEN amount END) AS average_expense`

// Stats aggregates a user's transactions dated within [from, to) in one query
func (r *TransactionRepository) Stats(ctx context.Context, userID uint, from, to time.Time) (domain.Stats, error) {
	var row statsRow
	err := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select(statsSelect).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Scan(&row).Error
	if err != nil {
		return domain.Stats{}, fmt.Errorf("aggregate transactions: %w", err)
	}
	return row.toStats(), nil
}

func (row statsRow) toStats() domain.Stats {
	s := domain.Stats{
		TotalIncome:       row.TotalIncome.Float64, // NULL scans as 0
		TotalExpense:      row.TotalExpense.Float64,
		TotalTransactions: row.TotalTransactions.Int64,
		MaxIncome:         row.MaxIncome.Float64,
		MaxExpense:        row.MaxExpense.Float64,
		AverageExpense:    row.AverageExpense.Float64,
	}
	s.NetBalance = s.TotalIncome + s.TotalExpense
	return s
}

// Create inserts a transaction
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(t).Error
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", translate(err))
	}
	return nil
}

// Update writes every mutable field of t, zero values included
func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(t).Select("Description", "Amount", "Category", "Date").Updates(t).Error
	})
	if err != nil {
		return fmt.Errorf("update transaction: %w", translate(err))
	}
	return nil
}

// Delete removes a transaction permanently
func (r *TransactionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Transaction{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err)
}
