package templates

import "time"

// Template is a published CV layout. Templates are immutable once published;
// a revision is a new Template record with a new id.
type Template struct {
	ID           string
	Name         string
	Category     string
	Capabilities Capabilities
	Body         string
	Active       bool
	IsDefault    bool
	CreatedAt    time.Time
}

// Capabilities declares what a template supports so callers can filter
// options to the axes the layout can actually honor.
type Capabilities struct {
	Sections   []string `json:"sections"`
	ColorAxes  []string `json:"colorAxes,omitempty"`
	FontAxes   []string `json:"fontAxes,omitempty"`
	LayoutAxes []string `json:"layoutAxes,omitempty"`
}

// SupportsSection reports whether the template declares the given section.
func (c Capabilities) SupportsSection(name string) bool {
	for _, s := range c.Sections {
		if s == name {
			return true
		}
	}
	return false
}
