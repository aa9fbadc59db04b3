package repository

import "errors"

// ErrNotFound is returned when a lookup matches no stored record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")
