package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyConnectionString = errors.New("pg: empty connection string, set DATABASE_URL")
	ErrInvalidConfig         = errors.New("pg: failed to parse connection config")
	ErrConnectionFailed      = errors.New("pg: failed to connect")
	ErrHealthcheckFailed     = errors.New("pg: healthcheck failed")
	ErrMigrationFailed       = errors.New("pg: failed to apply migrations")
)

// IsNotFound reports whether err is pgx.ErrNoRows, for uniform "not found"
// handling in stores.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports PostgreSQL unique constraint violations
// (SQLSTATE 23505), e.g. duplicate tenant slugs or refresh token hashes.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports referential integrity violations
// (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
