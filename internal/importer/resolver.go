package importer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

// Palette holds the color tokens cycled through when the resolver
// materializes a category it has not seen before. The color is picked
// by the current known-category count mod the palette length, so the
// choice is deterministic for a given taxonomy state.
var Palette = []string{
	"#22c55e", "#ef4444", "#f97316", "#eab308",
	"#06b6d4", "#8b5cf6", "#ec4899", "#14b8a6",
	"#a855f7", "#3b82f6", "#64748b", "#6b7280",
}

// Default categories used when a row carries no label, or when lookup
// and creation both come up empty.
const (
	defaultIncomeCategory  = "Other Income"
	defaultExpenseCategory = "Other Expense"
)

// categoryResolver maps free-text labels to category IDs for one import
// call. Its cache is local to the call on purpose: concurrent imports
// must not observe each other's half-built taxonomy view.
type categoryResolver struct {
	store  Storage
	byName map[string]model.Category // keyed by lowercased name
	count  int
}

func newCategoryResolver(ctx context.Context, store Storage) (*categoryResolver, error) {
	cats, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	r := &categoryResolver{
		store:  store,
		byName: make(map[string]model.Category, len(cats)),
		count:  len(cats),
	}
	for _, c := range cats {
		r.byName[strings.ToLower(c.Name)] = c
	}
	return r, nil
}

// Resolve returns the category ID for a label, creating the category
// when the label is unknown. Unknown labels become income categories
// for non-negative amounts and expense categories otherwise. When the
// label is empty or creation fails, the well-known default for the
// amount's sign is used; nil means the record stays uncategorized.
func (r *categoryResolver) Resolve(ctx context.Context, label string, amount decimal.Decimal) *int32 {
	kind := model.KindIncome
	if amount.IsNegative() {
		kind = model.KindExpense
	}

	label = strings.TrimSpace(label)
	if label != "" {
		if c, ok := r.byName[strings.ToLower(label)]; ok {
			return &c.ID
		}
		color := Palette[r.count%len(Palette)]
		c, err := r.store.GetOrCreateCategory(ctx, label, kind, color)
		if err == nil {
			r.byName[strings.ToLower(c.Name)] = c
			r.count++
			return &c.ID
		}
		slog.Warn("category creation failed, using default",
			"label", label,
			"error", err,
		)
	}

	fallback := defaultIncomeCategory
	if kind == model.KindExpense {
		fallback = defaultExpenseCategory
	}
	if c, ok := r.byName[strings.ToLower(fallback)]; ok {
		return &c.ID
	}
	return nil
}
