package project

import "errors"

var (
	// ErrProjectNotFound is returned when a project ID does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidProject wraps field validation failures.
	ErrInvalidProject = errors.New("invalid project")
)
