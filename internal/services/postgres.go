package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgErrorCode returns the SQLSTATE of err, or "" if err
// didn't come from the server.
func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isForeignKeyViolation(err error, constraint string) bool {
	code, name := pgErrorCode(err)
	return code == pgerrcode.ForeignKeyViolation && name == constraint
}

func isUniqueViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == pgerrcode.UniqueViolation
}

// isValidID reports whether id can be used against a UUID column.
// Malformed ids are treated as missing rows instead of store errors.
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func now() time.Time {
	return time.Now().UTC()
}
