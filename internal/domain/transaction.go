package domain

import "time"

// DefaultCategory is applied when a transaction is created without a category
const DefaultCategory = "Other"

// Transaction Model. Positive amounts are income, negative amounts expenses.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                                        // Primary key
	Description string    `gorm:"size:200;not null" json:"description"`                                        // What the money was for
	Amount      float64   `gorm:"not null" json:"amount"`                                                      // Signed amount
	Category    string    `gorm:"type:varchar(50) COLLATE utf8mb4_bin;not null;default:Other" json:"category"` // Category label, compared case and accent sensitively
	Date        time.Time `gorm:"not null;index" json:"date"`                                                  // When it happened (UTC)
	UserID      uint      `gorm:"not null;index" json:"user_id"`                                               // Owning user
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// OwnedTransaction is a ledger row joined with its owner, used by the admin listing
type OwnedTransaction struct {
	Transaction
	Username string `json:"username"` // Owner username
	Currency string `json:"currency"` // Owner currency
}

// TransactionFilter narrows a listing. Zero values mean no filtering.
type TransactionFilter struct {
	Search   string // Case-insensitive description substring
	Category string // Exact category
	User     string // Admin only: user id or username substring
}

// Stats aggregates a user's transactions over a period
type Stats struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"` // 0 means the whole year
	TotalIncome       float64 `json:"total_income"`
	TotalExpense      float64 `json:"total_expense"`
	NetBalance        float64 `json:"net_balance"`
	TotalTransactions int64   `json:"total_transactions"`
	MaxIncome         float64 `json:"max_income"`
	MaxExpense        float64 `json:"max_expense"`
	AverageExpense    float64 `json:"average_expense"`
}

// Range of years a transaction date may fall in, bounded by what DATETIME can store
const (
	MinYear = 1
	MaxYear = 9999
)

// LastInstant is the latest storable transaction date
var LastInstant = time.Date(MaxYear, time.December, 31, 23, 59, 59, 999999000, time.UTC)

// Period returns the half-open UTC window [from, to) covered by year and month.
// The end of December 9999 is clamped to LastInstant.
func Period(year, month int) (from, to time.Time) {
	if month == 0 {
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0)
	} else {
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	}
	if to.After(LastInstant) {
		to = LastInstant
	}
	return from, to
}
