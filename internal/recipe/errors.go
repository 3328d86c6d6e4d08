package recipe

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a recipe id does not exist.
var ErrNotFound = errors.New("recipe not found")

// DuplicateError is returned when creating a recipe whose (title, user id)
// natural key already exists. Raw driver constraint errors never escape the
// repository for this case.
type DuplicateError struct {
	Title  string
	UserID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("recipe with title %q already exists for this user", e.Title)
}

// IsDuplicate reports whether err is a natural-key collision.
func IsDuplicate(err error) bool {
	var d *DuplicateError
	return errors.As(err, &d)
}
