// Package repository persists users, roles and transactions with gorm.
// Every write runs inside db.Transaction so a failed request leaves no
// partial state behind.
package repository

import (
	"errors"
	"strings"

	"budget_system/internal/domain"

	"gorm.io/gorm"
)

// ErrNotFound replaces gorm.ErrRecordNotFound at the package boundary
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique index rejects a write
var ErrDuplicate = errors.New("duplicate key")

// translate maps gorm sentinel errors to package errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// likePattern builds a LIKE pattern matching term anywhere, escaping wildcards
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// paged applies page as OFFSET/LIMIT, leaving q untouched when the whole listing is wanted
func paged(q *gorm.DB, page domain.Page) *gorm.DB {
	if page.All() {
		return q
	}
	return q.Offset(page.Offset()).Limit(page.Size)
}
