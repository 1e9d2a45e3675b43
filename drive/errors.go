package drive

import "errors"

var (
	// ErrNotFound is returned when no value exists at the requested path.
	ErrNotFound = errors.New("drive path not found")
)
