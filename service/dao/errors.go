package dao

import "errors"

// Sentinel DAO errors, matched with errors.Is.
var (
	// ErrNotFound is returned when the requested entity does not exist in the
	// underlying storage.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates that the supplied key is empty.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when the caller attempts to persist a nil
	// pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)

// IsNotFound reports whether err signals a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
