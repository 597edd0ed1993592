// Package repository contains the MySQL data access code.  Handlers and the
// export layer never issue SQL themselves; they go through the repositories
// defined here.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the repositories react to.
const (
	errDuplicateEntry  = 1062 // ER_DUP_ENTRY
	errNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// ErrEmailExists is returned when a unique email constraint is violated.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidRefresh is returned for unknown, expired or revoked refresh
// tokens.
var ErrInvalidRefresh = errors.New("invalid refresh token")

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool   { return mysqlErrNumber(err) == errDuplicateEntry }
func isFKViolation(err error) bool { return mysqlErrNumber(err) == errNoReferencedRow }

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
