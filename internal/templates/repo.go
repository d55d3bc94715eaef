package templates

import "context"

// Repo defines persistence operations for templates.
type Repo interface {
	GetByID(ctx context.Context, templateID string) (Template, error)
	ListActive(ctx context.Context) ([]Template, error)
	Seed(ctx context.Context, tmpls []Template) error
}
