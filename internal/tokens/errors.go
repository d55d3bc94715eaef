package tokens

import "errors"

var (
	// ErrTokenInvalid covers unknown, revoked, expired, and exhausted
	// tokens. Download denials deliberately do not distinguish the cases:
	// a caller probing tokens learns nothing about why one failed or
	// whether the document exists. The service still classifies the
	// rejection for telemetry; see Service.rejectReason.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrNotFound indicates the token row does not exist; used by the
	// owner-facing revoke path, never by downloads.
	ErrNotFound = errors.New("token not found")
)
