package profiles

import "errors"

var (
	// ErrNotFound indicates the profile does not exist.
	ErrNotFound = errors.New("profile not found")

	// ErrForbidden indicates the profile is owned by another user.
	ErrForbidden = errors.New("forbidden")
)
