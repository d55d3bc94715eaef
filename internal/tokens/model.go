package tokens

import "time"

// AccessToken grants time- and use-limited download access to one document.
// The token string itself is the credential; possession is sufficient.
type AccessToken struct {
	Token      string
	DocumentID string
	ExpiresAt  time.Time
	UseCount   int
	MaxUses    int
	Revoked    bool
	CreatedAt  time.Time
}
