package repository

import "errors"

// ErrNotFound is returned when a document does not exist in the database.
var ErrNotFound = errors.New("document not found")
