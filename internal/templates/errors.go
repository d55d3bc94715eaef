package templates

import "errors"

var (
	// ErrTemplateNotFound indicates an unknown or inactive template id.
	ErrTemplateNotFound = errors.New("template not found")
)
