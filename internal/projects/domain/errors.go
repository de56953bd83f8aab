package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("project not found")
	ErrInvalidProject = errors.New("invalid project")
)

// NotFoundError reports that a get, update or delete targeted an ID with no
// project row. No storage fault is implied.
type NotFoundError struct {
	ProjectID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project with ID=%d does not exist", e.ProjectID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
