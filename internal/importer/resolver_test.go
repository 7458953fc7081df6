package importer

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

func TestResolver_PaletteCycles(t *testing.T) {
	store := newMemStore(
		model.Category{ID: 1, Name: "Groceries", Kind: model.KindExpense, Color: Palette[0]},
	)
	r, err := newCategoryResolver(context.Background(), store)
	require.NoError(t, err)

	ten := decimal.NewFromInt(10)

	// One category already exists, so new colors start at index 1
	r.Resolve(context.Background(), "Salary", ten)
	r.Resolve(context.Background(), "Dividends", ten)

	require.Len(t, store.categories, 3)
	assert.Equal(t, Palette[1], store.categories[1].Color)
	assert.Equal(t, Palette[2], store.categories[2].Color)
}

func TestResolver_LookupIsCaseInsensitive(t *testing.T) {
	store := newMemStore(
		model.Category{ID: 4, Name: "Groceries", Kind: model.KindExpense, Color: Palette[0]},
	)
	r, err := newCategoryResolver(context.Background(), store)
	require.NoError(t, err)

	id := r.Resolve(context.Background(), "GROCERIES", decimal.NewFromInt(-5))
	require.NotNil(t, id)
	assert.Equal(t, int32(4), *id)
	assert.Len(t, store.categories, 1)
}

func TestResolver_EmptyLabelUsesDefaultBySign(t *testing.T) {
	store := newMemStore(
		model.Category{ID: 1, Name: "Other Income", Kind: model.KindIncome, Color: Palette[0]},
		model.Category{ID: 2, Name: "Other Expense", Kind: model.KindExpense, Color: Palette[1]},
	)
	r, err := newCategoryResolver(context.Background(), store)
	require.NoError(t, err)

	income := r.Resolve(context.Background(), "", decimal.NewFromInt(10))
	require.NotNil(t, income)
	assert.Equal(t, int32(1), *income)

	expense := r.Resolve(context.Background(), "  ", decimal.NewFromInt(-10))
	require.NotNil(t, expense)
	assert.Equal(t, int32(2), *expense)
}

func TestResolver_ZeroAmountIsIncome(t *testing.T) {
	store := newMemStore()
	r, err := newCategoryResolver(context.Background(), store)
	require.NoError(t, err)

	r.Resolve(context.Background(), "Adjustments", decimal.Zero)

	require.Len(t, store.categories, 1)
	assert.Equal(t, model.KindIncome, store.categories[0].Kind)
}
