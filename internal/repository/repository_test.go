package repository

import (
	"context"
	"testing"

	"budget_system/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens gorm over sqlmock with the same error translation as production
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"Groceries", "%groceries%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, likePattern(tt.term), tt.term)
	}
}

func TestRoleRepository_Ensure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `roles`").
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `roles`").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `roles`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	created, err := repo.Ensure(context.Background(), "user", "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_FindByName_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `roles`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := repo.FindByName(context.Background(), "user")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionTable_CategoryIsCaseSensitive(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("(?s)CREATE TABLE `transactions` .*`category` varchar\\(50\\) COLLATE utf8mb4_bin NOT NULL DEFAULT").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.Migrator().CreateTable(&domain.Transaction{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
