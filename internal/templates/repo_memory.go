package templates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Template
}

// NewMemoryRepo constructs a MemoryRepo pre-seeded with the built-in templates.
func NewMemoryRepo() *MemoryRepo {
	r := &MemoryRepo{data: make(map[string]Template)}
	_ = r.Seed(context.Background(), Builtins())
	return r
}

// GetByID returns an active template by id.
func (r *MemoryRepo) GetByID(ctx context.Context, templateID string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.data[templateID]
	if !ok || !tmpl.Active {
		return Template{}, ErrTemplateNotFound
	}
	return tmpl, nil
}

// ListActive returns active templates ordered by name.
func (r *MemoryRepo) ListActive(ctx context.Context) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.data))
	for _, tmpl := range r.data {
		if tmpl.Active {
			out = append(out, tmpl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Seed inserts templates, skipping ids that already exist.
func (r *MemoryRepo) Seed(ctx context.Context, tmpls []Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tmpl := range tmpls {
		if _, exists := r.data[tmpl.ID]; !exists {
			r.data[tmpl.ID] = tmpl
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
