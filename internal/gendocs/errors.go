package gendocs

import "errors"

var (
	// ErrNotFound indicates the document does not exist or was deleted.
	ErrNotFound = errors.New("document not found")

	// ErrForbidden indicates the document is owned by another user.
	ErrForbidden = errors.New("forbidden")

	// ErrQuotaExceeded indicates the user's storage quota cannot fit the
	// incoming document.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
