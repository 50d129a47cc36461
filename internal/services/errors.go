package services

import "errors"

var (
	// ErrEmptySelection is returned when recommendations are requested for
	// zero profiles.
	ErrEmptySelection = errors.New("no profiles selected")

	// ErrCatalogUnavailable wraps any failure to fetch candidates from the
	// movie catalog.
	ErrCatalogUnavailable = errors.New("movie catalog unavailable")
)

var (
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrGenreConflict   = errors.New("genre cannot be both favorite and disliked")
	ErrInvalidLanguage = errors.New("invalid language tag")
	ErrInvalidMovie    = errors.New("invalid movie")
)
