package domain

import "errors"

var (
	// ErrInvalidURL is returned when a target URL is missing or malformed.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNotFound is returned when no link exists for a short id.
	ErrNotFound = errors.New("link not found")

	// ErrShortIDTaken is returned by a repository when the short id already exists.
	ErrShortIDTaken = errors.New("short id already exists")

	// ErrGenerationExhausted means no free short id was found within the retry bound.
	// Seeing it regularly means the code length is too short for the table size.
	ErrGenerationExhausted = errors.New("could not generate a unique short id")

	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)
