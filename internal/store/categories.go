package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

// ListCategories returns all categories ordered by kind then name.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, kind, color FROM categories ORDER BY kind, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind, &c.Color); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindCategoryByName looks up a category case-insensitively.
// Returns (nil, nil) when no category matches.
func (s *Store) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := s.db.QueryRow(ctx,
		`SELECT id, name, kind, color FROM categories WHERE LOWER(name) = LOWER($1)`,
		name,
	).Scan(&c.ID, &c.Name, &c.Kind, &c.Color)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding category %q: %w", name, err)
	}
	return &c, nil
}

// GetOrCreateCategory inserts a category, or returns the existing row
// when the name is already taken. The DO UPDATE arm is a no-op write
// that makes RETURNING yield the conflicting row, so racing creations
// of the same name both observe a single category.
func (s *Store) GetOrCreateCategory(ctx context.Context, name string, kind model.CategoryKind, color string) (model.Category, error) {
	var c model.Category
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (name, kind, color)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, kind, color`,
		name, string(kind), color,
	).Scan(&c.ID, &c.Name, &c.Kind, &c.Color)
	if err != nil {
		return model.Category{}, fmt.Errorf("creating category %q: %w", name, err)
	}
	return c, nil
}
