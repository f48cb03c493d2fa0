// Package memory is an in-process twin of the gorm repositories, used for
// local development (DB_DRIVER=memory) and handler tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"budget_system/internal/domain"
	"budget_system/internal/repository"
)

// Store holds every table behind one lock so cascades and joins stay consistent
type Store struct {
	mu           sync.RWMutex
	roles        map[uint]domain.Role
	users        map[uint]domain.User
	transactions map[uint]domain.Transaction
	nextRoleID   uint
	nextUserID   uint
	nextTxID     uint
	now          func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		roles:        make(map[uint]domain.Role),
		users:        make(map[uint]domain.User),
		transactions: make(map[uint]domain.Transaction),
		now:          time.Now,
	}
}

// Roles returns the role repository view of the store
func (s *Store) Roles() *RoleRepository { return &RoleRepository{s: s} }

// Users returns the user repository view of the store
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Transactions returns the transaction repository view of the store
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }

// RoleRepository is the in-memory role registry
type RoleRepository struct{ s *Store }

// FindByName returns the role with the given name
func (r *RoleRepository) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.Name == name {
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

// List returns every role ordered by name
func (r *RoleRepository) List(_ context.Context) ([]domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	roles := make([]domain.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// Ensure creates the missing roles and returns the names it created
func (r *RoleRepository) Ensure(_ context.Context, names ...string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var created []string
	for _, name := range names {
		if r.s.roleByNameLocked(name) != nil {
			continue
		}
		r.s.nextRoleID++
		r.s.roles[r.s.nextRoleID] = domain.Role{ID: r.s.nextRoleID, Name: name}
		created = append(created, name)
	}
	return created, nil
}

func (s *Store) roleByNameLocked(name string) *domain.Role {
	for _, role := range s.roles {
		if role.Name == name {
			return &role
		}
	}
	return nil
}

// withRoleLocked returns a copy of u with its role attached
func (s *Store) withRoleLocked(u domain.User) *domain.User {
	u.Role = s.roles[u.RoleID]
	return &u
}

// UserRepository is the in-memory credential store
type UserRepository struct{ s *Store }

// FindByID returns a user with its role attached
func (r *UserRepository) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.withRoleLocked(u), nil
}

// FindByEmail returns the user registered with email
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return r.s.withRoleLocked(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

// EmailTaken reports whether another user already has email
func (r *UserRepository) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.userConflictLocked(func(u domain.User) bool { return u.Email == email }, excludeID), nil
}

// UsernameTaken reports whether another user already has username
func (r *UserRepository) UsernameTaken(_ context.Context, username string, excludeID uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.userConflictLocked(func(u domain.User) bool { return u.Username == username }, excludeID), nil
}

func (s *Store) userConflictLocked(match func(domain.User) bool, excludeID uint) bool {
	for id, u := range s.users {
		if id != excludeID && match(u) {
			return true
		}
	}
	return false
}

// uniqueLocked mirrors the unique indexes on users.username and users.email
func (s *Store) uniqueLocked(u *domain.User) error {
	if s.userConflictLocked(func(o domain.User) bool {
		return o.Email == u.Email || o.Username == u.Username
	}, u.ID) {
		return repository.ErrDuplicate
	}
	return nil
}

// Create stores a new user, enforcing unique username and email
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.uniqueLocked(user); err != nil {
		return err
	}
	r.s.nextUserID++
	now := r.s.now().UTC()
	user.ID = r.s.nextUserID
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	stored.Role, stored.Transactions = domain.Role{}, nil
	r.s.users[user.ID] = stored
	return nil
}

// Update rewrites username, email, currency and role of an existing user
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.s.uniqueLocked(user); err != nil {
		return err
	}
	existing.Username = user.Username
	existing.Email = user.Email
	existing.Currency = user.Currency
	existing.RoleID = user.RoleID
	existing.UpdatedAt = r.s.now().UTC()
	r.s.users[user.ID] = existing
	return nil
}

// List returns one page of users ordered by id, and the user count
func (r *UserRepository) List(_ context.Context, page domain.Page) ([]domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, *r.s.withRoleLocked(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return pageOf(users, page), int64(len(users)), nil
}

// Delete removes a user together with its transactions
func (r *UserRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for txID, t := range r.s.transactions {
		if t.UserID == id {
			delete(r.s.transactions, txID)
		}
	}
	delete(r.s.users, id)
	return nil
}

// TransactionRepository is the in-memory ledger
type TransactionRepository struct{ s *Store }

// FindByID returns a single transaction
func (r *TransactionRepository) FindByID(_ context.Context, id uint) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

// ListByUser returns the user's transactions matching filter, newest first
func (r *TransactionRepository) ListByUser(_ context.Context, userID uint, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	txs := []domain.Transaction{}
	for _, t := range r.s.transactions {
		if t.UserID == userID && matches(t, filter) {
			txs = append(txs, t)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return newerFirst(txs[i], txs[j]) })
	return txs, nil
}

// Categories returns the user's distinct non-empty categories in ascending order
func (r *TransactionRepository) Categories(_ context.Context, userID uint) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]struct{})
	categories := []string{}
	for _, t := range r.s.transactions {
		if t.UserID != userID || t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		categories = append(categories, t.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// ListAll returns one page of transactions with their owners, newest first, and the match count
func (r *TransactionRepository) ListAll(_ context.Context, filter domain.TransactionFilter, page domain.Page) ([]domain.OwnedTransaction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := []domain.OwnedTransaction{}
	for _, t := range r.s.transactions {
		owner, ok := r.s.users[t.UserID]
		if !ok || !matches(t, filter) || !matchesOwner(owner, filter.User) {
			continue
		}
		rows = append(rows, domain.OwnedTransaction{Transaction: t, Username: owner.Username, Currency: owner.Currency})
	}
	sort.Slice(rows, func(i, j int) bool { return newerFirst(rows[i].Transaction, rows[j].Transaction) })
	return pageOf(rows, page), int64(len(rows)), nil
}

// Stats aggregates the user's transactions dated in [from, to)
func (r *TransactionRepository) Stats(_ context.Context, userID uint, from, to time.Time) (domain.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var stats domain.Stats
	var expenses int
	for _, t := range r.s.transactions {
		if t.UserID != userID || t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		stats.TotalTransactions++
		switch {
		case t.Amount > 0:
			stats.TotalIncome += t.Amount
			if t.Amount > stats.MaxIncome {
				stats.MaxIncome = t.Amount
			}
		case t.Amount < 0:
			stats.TotalExpense += t.Amount
			if t.Amount < stats.MaxExpense {
				stats.MaxExpense = t.Amount
			}
			expenses++
		}
	}
	if expenses > 0 {
		stats.AverageExpense = stats.TotalExpense / float64(expenses)
	}
	stats.NetBalance = stats.TotalIncome + stats.TotalExpense
	return stats, nil
}

// Create stores a transaction for an existing user
func (r *TransactionRepository) Create(_ context.Context, t *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[t.UserID]; !ok {
		return repository.ErrNotFound // Foreign key
	}
	r.s.nextTxID++
	now := r.s.now().UTC()
	t.ID = r.s.nextTxID
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.transactions[t.ID] = *t
	return nil
}

// Update rewrites the editable fields of a transaction
func (r *TransactionRepository) Update(_ context.Context, t *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.transactions[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Description = t.Description
	existing.Amount = t.Amount
	existing.Category = t.Category
	existing.Date = t.Date
	existing.UpdatedAt = r.s.now().UTC()
	r.s.transactions[t.ID] = existing
	return nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.transactions, id)
	return nil
}

func matches(t domain.Transaction, f domain.TransactionFilter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}

func matchesOwner(owner domain.User, term string) bool {
	if term == "" {
		return true
	}
	if id, err := strconv.ParseUint(term, 10, 64); err == nil {
		return uint64(owner.ID) == id
	}
	return strings.Contains(strings.ToLower(owner.Username), strings.ToLower(term))
}

func newerFirst(a, b domain.Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.ID > b.ID
}

// pageOf cuts one page out of a sorted listing
func pageOf[T any](items []T, page domain.Page) []T {
	if page.All() {
		return items
	}
	start := min(page.Offset(), len(items))
	end := min(start+page.Size, len(items))
	return items[start:end]
}
