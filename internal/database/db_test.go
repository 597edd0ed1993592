package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CreatesTablesInDependencyOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, name := range []string{"users", "refresh_tokens", "tailors", "bookings"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + name).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS refresh_tokens").WillReturnError(errors.New("denied"))

	err = Migrate(context.Background(), db)
	assert.ErrorContains(t, err, "denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
