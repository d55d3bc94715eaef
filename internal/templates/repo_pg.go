package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetByID returns an active template by id.
func (r *PGRepo) GetByID(ctx context.Context, templateID string) (Template, error) {
	const query = `
SELECT id, name, category, capabilities, body, active, is_default, created_at
FROM cv_templates
WHERE id = $1 AND active
LIMIT 1`
	tmpl, err := scanTemplate(r.DB.QueryRowContext(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrTemplateNotFound
		}
		return Template{}, err
	}
	return tmpl, nil
}

// ListActive returns active templates ordered by name.
func (r *PGRepo) ListActive(ctx context.Context) ([]Template, error) {
	const query = `
SELECT id, name, category, capabilities, body, active, is_default, created_at
FROM cv_templates
WHERE active
ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tmpl)
	}
	return out, rows.Err()
}

// Seed inserts templates, skipping ids that already exist. Published
// templates are immutable, so conflicts are never updated.
func (r *PGRepo) Seed(ctx context.Context, tmpls []Template) error {
	const query = `
INSERT INTO cv_templates (id, name, category, capabilities, body, active, is_default, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`
	for _, tmpl := range tmpls {
		caps, err := json.Marshal(tmpl.Capabilities)
		if err != nil {
			return fmt.Errorf("encode capabilities: %w", err)
		}
		if _, err := r.DB.ExecContext(ctx, query,
			tmpl.ID,
			tmpl.Name,
			tmpl.Category,
			caps,
			tmpl.Body,
			tmpl.Active,
			tmpl.IsDefault,
			tmpl.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var (
		tmpl Template
		caps []byte
	)
	if err := row.Scan(
		&tmpl.ID,
		&tmpl.Name,
		&tmpl.Category,
		&caps,
		&tmpl.Body,
		&tmpl.Active,
		&tmpl.IsDefault,
		&tmpl.CreatedAt,
	); err != nil {
		return Template{}, err
	}
	if len(caps) > 0 {
		if err := json.Unmarshal(caps, &tmpl.Capabilities); err != nil {
			return Template{}, fmt.Errorf("decode capabilities: %w", err)
		}
	}
	return tmpl, nil
}

var _ Repo = (*PGRepo)(nil)
