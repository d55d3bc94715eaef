package gendocs

import "time"

// GeneratedDocument is a stored, rendered CV owned by a user. Versions are
// sequential per user starting at 1 and gapless across successful
// generations; at most one live document per user is the default.
type GeneratedDocument struct {
	ID         string
	UserID     string
	ProfileID  string
	TemplateID string
	JobID      string // empty for legacy/manual uploads
	Version    int
	Label      string
	IsDefault  bool
	Format     string
	StorageKey string
	SizeBytes  int64
	Checksum   string
	CreatedAt  time.Time
	DeletedAt  *time.Time
}
