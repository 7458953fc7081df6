// Package importer implements the CSV import engine: delimiter
// detection, date and amount normalization, category resolution, and
// deduplicated persistence of bank-export rows.
//
// The engine never aborts a batch on a bad row. Every input row yields
// exactly one outcome (imported, skipped as a duplicate, or failed
// with a 1-based row number and reason) and processing always reaches
// the last row.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

// File-level failures abort the whole call before any row is touched.
var (
	ErrMissingMapping = errors.New("amount and date column mappings are required")
	ErrEmptyFile      = errors.New("csv file has no header row")
)

// Storage is the persistence contract the engine drives. Each call is
// its own atomic operation; no transaction spans an import.
//
// GetOrCreateCategory must be an atomic insert-or-fetch: under a racing
// creation of the same name it returns the existing row rather than an
// error. A separate exists-then-insert would reintroduce the race the
// dedup gate already accepts for transactions.
type Storage interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetOrCreateCategory(ctx context.Context, name string, kind model.CategoryKind, color string) (model.Category, error)
	TransactionExists(ctx context.Context, date string, amount decimal.Decimal, description string) (bool, error)
	InsertTransaction(ctx context.Context, t model.NewTransaction) error
}

// Engine runs preview and commit passes over uploaded CSV files.
type Engine struct {
	store Storage
}

// New creates an Engine backed by the given storage.
func New(store Storage) *Engine {
	return &Engine{store: store}
}

// Mapping binds CSV header names to transaction fields. AmountCol and
// DateCol are mandatory; the others may be empty.
type Mapping struct {
	AmountCol      string
	DateCol        string
	DescriptionCol string
	CategoryCol    string
}

// Preview is the inspection payload returned before a commit: the
// header in file order, up to five raw rows, and the total row count.
type Preview struct {
	Columns   []string `json:"columns"`
	Preview   []Row    `json:"preview"`
	TotalRows int      `json:"totalRows"`
}

// RowError records one failed row, numbered from 1.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"error"`
}

// Result summarizes one commit call. Imported + Skipped + len(Errors)
// always equals the input row count.
type Result struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Preview tokenizes the file without touching storage or validating
// field semantics. Callers use it to map columns before committing.
func (e *Engine) Preview(data []byte) (*Preview, error) {
	header, rows, err := tokenize(data)
	if err != nil {
		return nil, err
	}
	p := &Preview{
		Columns:   header,
		Preview:   rows,
		TotalRows: len(rows),
	}
	if len(p.Preview) > 5 {
		p.Preview = p.Preview[:5]
	}
	if p.Preview == nil {
		p.Preview = []Row{}
	}
	return p, nil
}

// Commit normalizes and persists every row of the file. Rows are
// processed strictly in order because later rows may reference
// categories created by earlier ones. Normalizer and storage failures
// are recorded per row and never interrupt the batch; only a missing
// mapping, an untokenizable file, or a failure to load the existing
// taxonomy aborts the call, in which case nothing has been persisted.
func (e *Engine) Commit(ctx context.Context, data []byte, m Mapping) (*Result, error) {
	if m.AmountCol == "" || m.DateCol == "" {
		return nil, ErrMissingMapping
	}

	_, rows, err := tokenize(data)
	if err != nil {
		return nil, err
	}

	resolver, err := newCategoryResolver(ctx, e.store)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	res := &Result{Errors: []RowError{}}
	for i, row := range rows {
		rowNum := i + 1

		amount, ok := ParseAmount(row[m.AmountCol])
		if !ok {
			res.Errors = append(res.Errors, RowError{rowNum, fmt.Sprintf("invalid amount: %q", row[m.AmountCol])})
			continue
		}

		date, ok := NormalizeDate(row[m.DateCol])
		if !ok {
			res.Errors = append(res.Errors, RowError{rowNum, fmt.Sprintf("invalid date: %q", row[m.DateCol])})
			continue
		}

		var description string
		if m.DescriptionCol != "" {
			description = row[m.DescriptionCol]
		}
		var label string
		if m.CategoryCol != "" {
			label = row[m.CategoryCol]
		}

		// The sign only picks the category kind; the record itself
		// stores the magnitude and inherits direction from the category.
		categoryID := resolver.Resolve(ctx, label, amount)
		magnitude := amount.Abs()

		exists, err := e.store.TransactionExists(ctx, date, magnitude, description)
		if err != nil {
			res.Errors = append(res.Errors, RowError{rowNum, fmt.Sprintf("duplicate check failed: %v", err)})
			continue
		}
		if exists {
			res.Skipped++
			continue
		}

		if err := e.store.InsertTransaction(ctx, model.NewTransaction{
			Amount:      magnitude,
			Description: description,
			Date:        date,
			CategoryID:  categoryID,
		}); err != nil {
			res.Errors = append(res.Errors, RowError{rowNum, err.Error()})
			continue
		}
		res.Imported++
	}

	return res, nil
}
