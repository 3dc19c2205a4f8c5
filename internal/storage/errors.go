package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist. Malformed
// post ids are reported with this error too.
var ErrNotFound = errors.New("not found")

// ErrInvalidPage is returned when a page request has page < 1 or limit < 1.
var ErrInvalidPage = errors.New("invalid page request")
