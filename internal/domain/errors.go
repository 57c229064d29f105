package domain

import "errors"

// Error kinds shared by the store, app and api layers. Concrete errors wrap one of
// these with %w so callers can classify them with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRateLimited     = errors.New("rate limited")
)
