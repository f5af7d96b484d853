package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Storage-level sentinel errors. Services translate these into the
// user-facing taxonomy.
var (
	// ErrNotFound is returned when a record does not exist. Absence is
	// always explicit, never a nil result.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a unique index rejects a write.
	// A late-arriving violation is authoritative over any prior existence
	// check the caller performed.
	ErrDuplicateKey = errors.New("duplicate key")
)

// IsNotFoundError reports whether err indicates a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err indicates a uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
