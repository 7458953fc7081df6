package store

import (
	"context"
	"fmt"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

// Schema statements, executed in order. Each statement is idempotent so
// Migrate can run unconditionally on startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		kind VARCHAR(10) NOT NULL CHECK (kind IN ('income', 'expense')),
		color VARCHAR(7) NOT NULL DEFAULT '#6b7280'
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		amount NUMERIC(12,2) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		date DATE NOT NULL DEFAULT CURRENT_DATE,
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		is_recurring BOOLEAN NOT NULL DEFAULT false,
		recurring_interval VARCHAR(10) CHECK (recurring_interval IN ('daily', 'weekly', 'monthly', 'yearly')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS recurring_templates (
		id SERIAL PRIMARY KEY,
		amount NUMERIC(12,2) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		interval VARCHAR(10) NOT NULL CHECK (interval IN ('daily', 'weekly', 'monthly', 'yearly')),
		start_date DATE NOT NULL DEFAULT CURRENT_DATE,
		next_due DATE NOT NULL DEFAULT CURRENT_DATE,
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// seedCategory is one default taxonomy entry created on first run.
type seedCategory struct {
	name  string
	kind  model.CategoryKind
	color string
}

var seedCategories = []seedCategory{
	{"Salary", model.KindIncome, "#22c55e"},
	{"Freelance", model.KindIncome, "#10b981"},
	{"Investments", model.KindIncome, "#06b6d4"},
	{"Other Income", model.KindIncome, "#8b5cf6"},
	{"Housing", model.KindExpense, "#ef4444"},
	{"Food & Dining", model.KindExpense, "#f97316"},
	{"Transportation", model.KindExpense, "#eab308"},
	{"Utilities", model.KindExpense, "#64748b"},
	{"Entertainment", model.KindExpense, "#ec4899"},
	{"Healthcare", model.KindExpense, "#14b8a6"},
	{"Shopping", model.KindExpense, "#a855f7"},
	{"Education", model.KindExpense, "#3b82f6"},
	{"Other Expense", model.KindExpense, "#6b7280"},
}

// Migrate creates the schema and seeds the default categories.
// Existing tables and categories are left untouched.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	for _, c := range seedCategories {
		_, err := s.db.Exec(ctx,
			`INSERT INTO categories (name, kind, color) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			c.name, string(c.kind), c.color,
		)
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", c.name, err)
		}
	}
	return nil
}
