package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrUniqueConflict means a create would violate a uniqueness invariant
	// (duplicate service name, duplicate (service, external_id) pair).
	ErrUniqueConflict = errors.New("unique constraint conflict")

	// ErrConstraintViolation means a write referenced a missing parent, e.g.
	// a status record for a service that does not exist. Always a caller bug.
	ErrConstraintViolation = errors.New("dangling reference")

	// ErrInvalidCursor means a history cursor could not be decoded.
	ErrInvalidCursor = errors.New("malformed history cursor")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUniqueConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrConstraintViolation
	default:
		return err
	}
}
