package service

import (
	"context"
	"testing"
	"time"

	"budget_system/internal/apperr"
	"budget_system/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionService_Create_Defaults(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	now := time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC)
	f.txs.now = fixedClock(now)

	tx, err := f.txs.Create(context.Background(), anna, CreateInput{Description: "Coffee", Amount: ptr(-4.5)})
	require.NoError(t, err)

	assert.NotZero(t, tx.ID)
	assert.Equal(t, domain.DefaultCategory, tx.Category)
	assert.Equal(t, now, tx.Date)
	assert.Equal(t, anna.ID, tx.UserID)
	assert.Equal(t, -4.5, tx.Amount)
}

func TestTransactionService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")

	tests := []struct {
		name    string
		input   CreateInput
		wantErr error
	}{
		{"missing description", CreateInput{Amount: ptr(1.0)}, nil},
		{"blank description", CreateInput{Description: "  ", Amount: ptr(1.0)}, nil},
		{"missing amount", CreateInput{Description: "x"}, nil},
		{"bad date", CreateInput{Description: "x", Amount: ptr(1.0), Date: ptr("04/11/2025")}, apperr.ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.txs.Create(context.Background(), anna, tt.input)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTransactionService_Create_ZeroAmountAndExplicitFields(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")

	tx, err := f.txs.Create(context.Background(), anna, CreateInput{
		Description: "Refund pending",
		Amount:      ptr(0.0),
		Category:    ptr("Food"),
		Date:        ptr("2025-11-04T10:30:00Z"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, tx.Amount)
	assert.Equal(t, "Food", tx.Category)
	assert.Equal(t, time.Date(2025, 11, 4, 10, 30, 0, 0, time.UTC), tx.Date)
}

func TestTransactionService_StatsSingleExpense(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	ctx := context.Background()

	tx, err := f.txs.Create(ctx, anna, CreateInput{Description: "Groceries", Amount: ptr(-42.50), Date: ptr("2025-03-15T12:00:00Z")})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, tx.Category)

	stats, err := f.txs.Stats(ctx, anna, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, -42.50, stats.TotalExpense)
	assert.Equal(t, 0.0, stats.TotalIncome)
	assert.Equal(t, -42.50, stats.NetBalance)
	assert.Equal(t, int64(1), stats.TotalTransactions)
	assert.Equal(t, -42.50, stats.AverageExpense)
	assert.Equal(t, -42.50, stats.MaxExpense)
	assert.Equal(t, 0.0, stats.MaxIncome)
	assert.Equal(t, 2025, stats.Year)
	assert.Equal(t, 3, stats.Month)
}

func TestTransactionService_Stats(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	bob := f.register(t, "bob")
	ctx := context.Background()

	seed := []struct {
		user   *domain.User
		amount float64
		date   string
	}{
		{anna, 1000, "2025-03-01T08:00:00Z"},
		{anna, 250, "2025-03-20T08:00:00Z"},
		{anna, -100, "2025-03-05T08:00:00Z"},
		{anna, -300, "2025-03-31T23:59:59Z"},
		{anna, 0, "2025-03-10T08:00:00Z"},
		{anna, -999, "2025-04-01T00:00:00Z"}, // next month
		{anna, 77, "2024-03-10T08:00:00Z"},   // previous year
		{bob, -5000, "2025-03-10T08:00:00Z"}, // someone else
	}
	for _, s := range seed {
		_, err := f.txs.Create(ctx, s.user, CreateInput{Description: "seed", Amount: ptr(s.amount), Date: ptr(s.date)})
		require.NoError(t, err)
	}

	march, err := f.txs.Stats(ctx, anna, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 1250.0, march.TotalIncome)
	assert.Equal(t, -400.0, march.TotalExpense)
	assert.Equal(t, 850.0, march.NetBalance)
	assert.Equal(t, int64(5), march.TotalTransactions)
	assert.Equal(t, 1000.0, march.MaxIncome)
	assert.Equal(t, -300.0, march.MaxExpense)
	assert.Equal(t, -200.0, march.AverageExpense) // zero-amount row excluded

	year, err := f.txs.Stats(ctx, anna, 2025, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(6), year.TotalTransactions)
	assert.Equal(t, -1399.0, year.TotalExpense)

	empty, err := f.txs.Stats(ctx, anna, 2023, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Year: 2023, Month: 1}, empty)
}

func TestTransactionService_Stats_Period(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	f.txs.now = fixedClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	stats, err := f.txs.Stats(context.Background(), anna, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2026, stats.Year)

	for _, month := range []int{-1, 13} {
		_, err := f.txs.Stats(context.Background(), anna, 2025, month)
		assert.ErrorIs(t, err, apperr.ErrInvalidPeriod)
	}
}

// windowTxStore records the window Stats was asked for
type windowTxStore struct {
	TransactionStore
	from, to time.Time
}

func (s *windowTxStore) Stats(_ context.Context, _ uint, from, to time.Time) (domain.Stats, error) {
	s.from, s.to = from, to
	return domain.Stats{}, nil
}

func TestTransactionService_Stats_YearBounds(t *testing.T) {
	store := &windowTxStore{}
	svc := NewTransactionService(store)
	u := &domain.User{ID: 1}
	ctx := context.Background()

	for _, month := range []int{0, 12} {
		_, err := svc.Stats(ctx, u, 9999, month)
		require.NoError(t, err)
		assert.Equal(t, 9999, store.to.Year(), "month %d", month)
		assert.False(t, store.to.After(domain.LastInstant))
	}

	_, err := svc.Stats(ctx, u, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC), store.from)

	for _, year := range []int{-1, 10000} {
		_, err := svc.Stats(ctx, u, year, 0)
		assert.ErrorIs(t, err, apperr.ErrInvalidPeriod, "year %d", year)
	}
}

func TestTransactionService_Create_DateOutOfRange(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	ctx := context.Background()

	for _, date := range []string{"0000-01-01T00:00:00Z", "0001-01-01T00:30:00+01:00", "9999-12-31T23:30:00-01:00"} {
		_, err := f.txs.Create(ctx, anna, CreateInput{Description: "edge", Amount: ptr(1.0), Date: ptr(date)})
		assert.ErrorIs(t, err, apperr.ErrInvalidDateFormat, date)
	}

	_, err := f.txs.Create(ctx, anna, CreateInput{Description: "edge", Amount: ptr(-5.0), Date: ptr("9999-12-31T12:00:00Z")})
	require.NoError(t, err)
	stats, err := f.txs.Stats(ctx, anna, 9999, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalTransactions)
}

func TestTransactionService_ListFilters(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	bob := f.register(t, "bob")
	ctx := context.Background()

	create := func(u *domain.User, desc, category, date string) {
		_, err := f.txs.Create(ctx, u, CreateInput{Description: desc, Amount: ptr(-1.0), Category: ptr(category), Date: ptr(date)})
		require.NoError(t, err)
	}
	create(anna, "Weekly GROCERIES", "Food", "2025-01-01T00:00:00Z")
	create(anna, "Cinema", "Fun", "2025-01-03T00:00:00Z")
	create(anna, "groceries again", "Food", "2025-01-02T00:00:00Z")
	create(anna, "Groceries for party", "Fun", "2025-01-04T00:00:00Z")
	create(bob, "groceries", "Food", "2025-01-05T00:00:00Z")

	all, err := f.txs.List(ctx, anna, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Groceries for party", all[0].Description) // newest first
	assert.Equal(t, "Weekly GROCERIES", all[3].Description)

	search, err := f.txs.List(ctx, anna, domain.TransactionFilter{Search: "grocer"})
	require.NoError(t, err)
	assert.Len(t, search, 3)

	both, err := f.txs.List(ctx, anna, domain.TransactionFilter{Search: "GROCER", Category: "Food"})
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "groceries again", both[0].Description)

	category, err := f.txs.List(ctx, anna, domain.TransactionFilter{Category: "Fun"})
	require.NoError(t, err)
	assert.Len(t, category, 2)

	scoped, err := f.txs.List(ctx, anna, domain.TransactionFilter{User: "bob"})
	require.NoError(t, err)
	assert.Len(t, scoped, 4)
}

func TestTransactionService_Categories(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	bob := f.register(t, "bob")
	ctx := context.Background()

	for _, c := range []string{"Food", "Rent", "Food", "Food", "Rent"} {
		_, err := f.txs.Create(ctx, anna, CreateInput{Description: "x", Amount: ptr(-1.0), Category: ptr(c)})
		require.NoError(t, err)
	}
	_, err := f.txs.Create(ctx, anna, CreateInput{Description: "x", Amount: ptr(-1.0)})
	require.NoError(t, err)
	_, err = f.txs.Create(ctx, bob, CreateInput{Description: "x", Amount: ptr(-1.0), Category: ptr("Travel")})
	require.NoError(t, err)

	categories, err := f.txs.Categories(ctx, anna)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Other", "Rent"}, categories)
}

func TestTransactionService_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	ctx := context.Background()

	created, err := f.txs.Create(ctx, anna, CreateInput{
		Description: "Salary",
		Amount:      ptr(1500.0),
		Category:    ptr("Income"),
		Date:        ptr("2025-02-01T09:00:00Z"),
	})
	require.NoError(t, err)

	updated, err := f.txs.Update(ctx, anna, created.ID, UpdateInput{Amount: ptr(100.0)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, updated.Amount)
	assert.Equal(t, "Salary", updated.Description)
	assert.Equal(t, "Income", updated.Category)
	assert.Equal(t, created.Date, updated.Date)

	stored, err := f.store.Transactions().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Amount)
	assert.Equal(t, "Salary", stored.Description)

	_, err = f.txs.Update(ctx, anna, created.ID, UpdateInput{Date: ptr("yesterday")})
	assert.ErrorIs(t, err, apperr.ErrInvalidDateFormat)

	_, err = f.txs.Update(ctx, anna, created.ID, UpdateInput{Description: ptr("")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.txs.Update(ctx, anna, 9999, UpdateInput{Amount: ptr(1.0)})
	assert.ErrorIs(t, err, apperr.ErrTransactionNotFound)
}

func TestTransactionService_Ownership(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	mallory := f.register(t, "mallory")
	root := f.promote(t, f.register(t, "root"))
	ctx := context.Background()

	tx, err := f.txs.Create(ctx, anna, CreateInput{Description: "Rent", Amount: ptr(-800.0)})
	require.NoError(t, err)

	_, err = f.txs.Update(ctx, mallory, tx.ID, UpdateInput{Amount: ptr(0.0)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, f.txs.Delete(ctx, mallory, tx.ID), apperr.ErrForbidden)

	updated, err := f.txs.Update(ctx, root, tx.ID, UpdateInput{Category: ptr("Housing")})
	require.NoError(t, err)
	assert.Equal(t, "Housing", updated.Category)
	assert.Equal(t, anna.ID, updated.UserID)

	require.NoError(t, f.txs.Delete(ctx, root, tx.ID))
	assert.ErrorIs(t, f.txs.Delete(ctx, anna, tx.ID), apperr.ErrTransactionNotFound)
}

func TestTransactionService_OwnerCanDelete(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	ctx := context.Background()

	tx, err := f.txs.Create(ctx, anna, CreateInput{Description: "Rent", Amount: ptr(-800.0)})
	require.NoError(t, err)
	require.NoError(t, f.txs.Delete(ctx, anna, tx.ID))

	left, err := f.txs.List(ctx, anna, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestTransactionService_ListAll(t *testing.T) {
	f := newFixture(t)
	anna := f.register(t, "anna")
	bob := f.register(t, "bob")
	ctx := context.Background()
	_, err := f.auth.UpdateCurrency(ctx, bob, "usd")
	require.NoError(t, err)

	_, err = f.txs.Create(ctx, anna, CreateInput{Description: "Tea", Amount: ptr(-2.0), Date: ptr("2025-01-01")})
	require.NoError(t, err)
	_, err = f.txs.Create(ctx, bob, CreateInput{Description: "Coffee", Amount: ptr(-3.0), Date: ptr("2025-01-02")})
	require.NoError(t, err)

	rows, _, err := f.txs.ListAll(ctx, domain.TransactionFilter{}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bob", rows[0].Username)
	assert.Equal(t, "USD", rows[0].Currency)
	assert.Equal(t, "anna", rows[1].Username)

	byName, _, err := f.txs.ListAll(ctx, domain.TransactionFilter{User: "AN"}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Tea", byName[0].Description)

	byID, _, err := f.txs.ListAll(ctx, domain.TransactionFilter{User: "2"}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, bob.ID, byID[0].UserID)
}

func TestTransactionService_StoreFailureIsInternal(t *testing.T) {
	svc := NewTransactionService(failingTxStore{})
	u := &domain.User{ID: 1}

	_, err := svc.List(context.Background(), u, domain.TransactionFilter{})
	assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
	assert.ErrorIs(t, err, errStore)

	_, err = svc.Create(context.Background(), u, CreateInput{Description: "x", Amount: ptr(1.0)})
	assert.Equal(t, apperr.KindServer, apperr.KindOf(err))
}

type failingTxStore struct{ TransactionStore }

func (failingTxStore) ListByUser(context.Context, uint, domain.TransactionFilter) ([]domain.Transaction, error) {
	return nil, errStore
}

func (failingTxStore) Create(context.Context, *domain.Transaction) error { return errStore }
