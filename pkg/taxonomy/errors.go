package taxonomy

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError through errors.Is.
var ErrNotFound = errors.New("taxonomy: not found")

// ErrInvalidValue is returned for submitted values that do not fit the
// taxonomy shape.
var ErrInvalidValue = errors.New("taxonomy: invalid value")

// NotFoundError reports an unregistered taxonomy slug.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("taxonomy: %q is not registered", e.Slug)
}

// Is lets errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound constructs a NotFoundError for slug.
func NotFound(slug string) error {
	return &NotFoundError{Slug: slug}
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
