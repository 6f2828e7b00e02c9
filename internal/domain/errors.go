package domain

import "errors"

// ErrNotFound indicates a document is absent from the store. Callers are
// expected to match with errors.Is and decide whether absence is fatal.
var ErrNotFound = errors.New("not found")
