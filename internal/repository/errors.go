package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrIntegrityViolation is returned when a write is rejected by a database
// constraint (SQLSTATE class 23), e.g. a second reservation for the same spot.
var ErrIntegrityViolation = errors.New("integrity constraint violation")

const integrityConstraintViolation pq.ErrorClass = "23"

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == integrityConstraintViolation {
		return fmt.Errorf("%w: %v", ErrIntegrityViolation, err)
	}
	return err
}

// noRows maps sql.ErrNoRows to a nil error so single-row lookups can report
// "absent" as (nil, nil).
func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
