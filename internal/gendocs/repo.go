package gendocs

import "context"

// Repo defines persistence operations for generated documents. The three
// mutating operations below are the only places in the system that need
// strict per-user serialization, so each is specified as a single atomic
// operation rather than a read-then-write sequence.
type Repo interface {
	// CreateWithVersion atomically reserves the user's next version number,
	// re-checks the storage quota against live documents, and inserts the
	// document. Two concurrent completions for one user never collide on a
	// version and never both pass a stale quota check.
	// quotaBytes <= 0 disables the quota check.
	CreateWithVersion(ctx context.Context, doc GeneratedDocument, quotaBytes int64) (GeneratedDocument, error)

	// SetDefault atomically clears is-default on every other live document
	// owned by the user and sets it on the target.
	SetDefault(ctx context.Context, userID, documentID string) error

	GetByID(ctx context.Context, userID, documentID string) (GeneratedDocument, error)
	// GetAny looks a document up without an ownership scope; download access
	// is decided by the access token, not the caller's identity.
	GetAny(ctx context.Context, documentID string) (GeneratedDocument, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]GeneratedDocument, error)
	// SoftDelete marks the document deleted and returns it so callers can
	// release the stored object. Deleting the default leaves no default.
	SoftDelete(ctx context.Context, userID, documentID string) (GeneratedDocument, error)
	// StorageUsed sums the sizes of the user's live documents.
	StorageUsed(ctx context.Context, userID string) (int64, error)
}
