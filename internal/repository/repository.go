package repository

import "errors"

// ErrNotFound is returned when a referenced record does not exist. Both the
// memory and postgres drivers normalize their miss conditions to this error.
var ErrNotFound = errors.New("record not found")
