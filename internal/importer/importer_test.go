package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

// memStore is an in-memory Storage used to exercise the engine without
// a database.
type memStore struct {
	categories []model.Category
	nextID     int32
	inserted   []model.NewTransaction

	listErr   error
	createErr error
	insertErr error
	existsErr error
}

func newMemStore(cats ...model.Category) *memStore {
	m := &memStore{categories: cats, nextID: 1}
	for _, c := range cats {
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return m
}

func (m *memStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.categories, nil
}

func (m *memStore) GetOrCreateCategory(ctx context.Context, name string, kind model.CategoryKind, color string) (model.Category, error) {
	if m.createErr != nil {
		return model.Category{}, m.createErr
	}
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	c := model.Category{ID: m.nextID, Name: name, Kind: kind, Color: color}
	m.nextID++
	m.categories = append(m.categories, c)
	return c, nil
}

func (m *memStore) TransactionExists(ctx context.Context, date string, amount decimal.Decimal, description string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, t := range m.inserted {
		if t.Date == date && t.Amount.Equal(amount) && t.Description == description {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertTransaction(ctx context.Context, t model.NewTransaction) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, t)
	return nil
}

var basicMapping = Mapping{
	AmountCol:      "Amount",
	DateCol:        "Date",
	DescriptionCol: "Description",
	CategoryCol:    "Category",
}

func TestCommit_ImportsRows(t *testing.T) {
	store := newMemStore(
		model.Category{ID: 1, Name: "Groceries", Kind: model.KindExpense, Color: "#ef4444"},
	)
	engine := New(store)

	// Semicolon delimited because the amounts carry comma decimals
	csvData := []byte("Date;Amount;Description;Category\n" +
		"31.12.2025;-4,86;Milk;Groceries\n" +
		"01.01.2026;1.234,56;Salary;Wages\n")

	res, err := engine.Commit(context.Background(), csvData, basicMapping)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.Errors)
	require.Len(t, store.inserted, 2)

	// Magnitude is stored; the sign only picked the category kind
	assert.Equal(t, "4.86", store.inserted[0].Amount.String())
	assert.Equal(t, "2025-12-31", store.inserted[0].Date)
	require.NotNil(t, store.inserted[0].CategoryID)
	assert.Equal(t, int32(1), *store.inserted[0].CategoryID)

	assert.Equal(t, "1234.56", store.inserted[1].Amount.String())
	assert.Equal(t, "2026-01-01", store.inserted[1].Date)
}

func TestCommit_OutcomesPartitionInput(t *testing.T) {
	store := newMemStore()
	engine := New(store)

	var b strings.Builder
	b.WriteString("Date,Amount,Description\n")
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "2026-01-%02d,10.00,row %d\n", i+1, i+1)
	}
	b.WriteString("not a date,10.00,bad row\n")

	res, err := engine.Commit(context.Background(), []byte(b.String()), Mapping{
		AmountCol: "Amount", DateCol: "Date", DescriptionCol: "Description",
	})
	require.NoError(t, err)

	assert.Equal(t, 9, res.Imported)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 10, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Reason, "invalid date")
	assert.Equal(t, 10, res.Imported+res.Skipped+len(res.Errors))
}

func TestCommit_SecondImportSkipsDuplicates(t *testing.T) {
	store := newMemStore()
	engine := New(store)

	csvData := []byte("Date,Amount,Description\n" +
		"2026-01-05,12.00,Coffee\n" +
		"2026-01-06,30.00,Books\n")
	mapping := Mapping{AmountCol: "Amount", DateCol: "Date", DescriptionCol: "Description"}

	first, err := engine.Commit(context.Background(), csvData, mapping)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)

	second, err := engine.Commit(context.Background(), csvData, mapping)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Skipped)
	assert.Empty(t, second.Errors)
	assert.Len(t, store.inserted, 2)
}

func TestCommit_CreatesCategoryAndReusesItWithinCall(t *testing.T) {
	store := newMemStore()
	engine := New(store)

	csvData := []byte("Date,Amount,Description,Category\n" +
		"2026-01-05,100.00,January bonus,Bonus\n" +
		"2026-02-05,100.00,February bonus,Bonus\n")

	res, err := engine.Commit(context.Background(), csvData, basicMapping)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	require.Len(t, store.categories, 1)
	created := store.categories[0]
	assert.Equal(t, "Bonus", created.Name)
	assert.Equal(t, model.KindIncome, created.Kind)
	assert.Equal(t, Palette[0], created.Color)

	require.NotNil(t, store.inserted[0].CategoryID)
	require.NotNil(t, store.inserted[1].CategoryID)
	assert.Equal(t, *store.inserted[0].CategoryID, *store.inserted[1].CategoryID)
}

func TestCommit_NegativeAmountCreatesExpenseCategory(t *testing.T) {
	store := newMemStore()
	engine := New(store)

	csvData := []byte("Date,Amount,Description,Category\n" +
		"2026-01-05,-55.00,Electricity,Utilities\n")

	_, err := engine.Commit(context.Background(), csvData, basicMapping)
	require.NoError(t, err)

	require.Len(t, store.categories, 1)
	assert.Equal(t, model.KindExpense, store.categories[0].Kind)
}

func TestCommit_CreationFailureFallsBackToDefault(t *testing.T) {
	store := newMemStore(
		model.Category{ID: 7, Name: "Other Expense", Kind: model.KindExpense, Color: "#6b7280"},
	)
	store.createErr = errors.New("connection reset")
	engine := New(store)

	csvData := []byte("Date,Amount,Description,Category\n" +
		"2026-01-05,-10.00,Unknown thing,Mystery\n")

	res, err := engine.Commit(context.Background(), csvData, basicMapping)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	require.NotNil(t, store.inserted[0].CategoryID)
	assert.Equal(t, int32(7), *store.inserted[0].CategoryID)
}

func TestCommit_CreationFailureWithoutDefaultLeavesUncategorized(t *testing.T) {
	store := newMemStore()
	store.createErr = errors.New("connection reset")
	engine := New(store)

	csvData := []byte("Date,Amount,Description,Category\n" +
		"2026-01-05,-10.00,Unknown thing,Mystery\n")

	res, err := engine.Commit(context.Background(), csvData, basicMapping)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Nil(t, store.inserted[0].CategoryID)
}

func TestCommit_MissingMapping(t *testing.T) {
	store := newMemStore()
	engine := New(store)

	csvData := []byte("Date,Amount\n2026-01-05,10.00\n")

	_, err := engine.Commit(context.Background(), csvData, Mapping{AmountCol: "Amount"})
	require.ErrorIs(t, err, ErrMissingMapping)
	assert.Empty(t, store.inserted)

	_, err = engine.Commit(context.Background(), csvData, Mapping{DateCol: "Date"})
	require.ErrorIs(t, err, ErrMissingMapping)
	assert.Empty(t, store.inserted)
}

func TestCommit_EmptyFile(t *testing.T) {
	engine := New(newMemStore())

	_, err := engine.Commit(context.Background(), []byte(""), basicMapping)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestCommit_CategoryLoadFailureAbortsFile(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("db down")
	engine := New(store)

	csvData := []byte("Date,Amount\n2026-01-05,10.00\n")

	_, err := engine.Commit(context.Background(), csvData, Mapping{AmountCol: "Amount", DateCol: "Date"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading categories")
	assert.Empty(t, store.inserted)
}

func TestCommit_InsertFailureIsRowError(t *testing.T) {
	store := newMemStore()
	store.insertErr = errors.New("insert failed")
	engine := New(store)

	csvData := []byte("Date,Amount\n2026-01-05,10.00\n2026-01-06,20.00\n")

	res, err := engine.Commit(context.Background(), csvData, Mapping{AmountCol: "Amount", DateCol: "Date"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 1, res.Errors[0].Row)
	assert.Equal(t, 2, res.Errors[1].Row)
}

func TestCommit_DuplicateCheckFailureIsRowError(t *testing.T) {
	store := newMemStore()
	store.existsErr = errors.New("timeout")
	engine := New(store)

	csvData := []byte("Date,Amount\n2026-01-05,10.00\n")

	res, err := engine.Commit(context.Background(), csvData, Mapping{AmountCol: "Amount", DateCol: "Date"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "duplicate check failed")
}

func TestPreview(t *testing.T) {
	engine := New(newMemStore())

	var b strings.Builder
	b.WriteString("Date;Amount;Description\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "2026-01-%02d;10.00;row %d\n", i+1, i+1)
	}

	p, err := engine.Preview([]byte(b.String()))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Amount", "Description"}, p.Columns)
	assert.Equal(t, 8, p.TotalRows)
	require.Len(t, p.Preview, 5)
	assert.Equal(t, "row 1", p.Preview[0]["Description"])
}

func TestPreview_EmptyFile(t *testing.T) {
	engine := New(newMemStore())

	_, err := engine.Preview([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestPreview_BOMStripped(t *testing.T) {
	engine := New(newMemStore())

	p, err := engine.Preview([]byte("\ufeffDate,Amount\n2026-01-05,10.00\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Amount"}, p.Columns)
}
