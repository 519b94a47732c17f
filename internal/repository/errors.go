package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConflict is returned when an insert loses the race for a unique
// constraint. For appointments that means the (date, time) slot already has a
// non-cancelled row.
var ErrConflict = errors.New("conflicting row already exists")

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
