// Package model defines the domain types shared by the import engine,
// the storage layer, and the web handlers.
//
// Dates are carried as canonical YYYY-MM-DD strings with no time
// component; amounts are decimal values. A transaction stores only the
// magnitude of its amount; the direction of money flow is implied by
// the kind of its category.
package model

import "github.com/shopspring/decimal"

// CategoryKind classifies a category as money in or money out.
type CategoryKind string

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
)

// Category is a taxonomy entry for transactions.
// Names are stored case-sensitively but looked up case-insensitively.
type Category struct {
	ID    int32        `json:"id"`
	Name  string       `json:"name"`
	Kind  CategoryKind `json:"kind"`
	Color string       `json:"color"`
}

// Transaction is a persisted financial record. Amount is always a
// non-negative magnitude; CategoryID is nil for orphaned records.
type Transaction struct {
	ID                int32           `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Date              string          `json:"date"`
	CategoryID        *int32          `json:"category_id"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval"`
	CreatedAt         string          `json:"created_at,omitempty"`

	// Joined category fields, populated by list queries.
	CategoryName  *string       `json:"category_name,omitempty"`
	CategoryKind  *CategoryKind `json:"category_kind,omitempty"`
	CategoryColor *string       `json:"category_color,omitempty"`
}

// NewTransaction holds the fields needed to insert a transaction.
type NewTransaction struct {
	Amount            decimal.Decimal
	Description       string
	Date              string
	CategoryID        *int32
	IsRecurring       bool
	RecurringInterval *string
}

// RecurringTemplate describes a transaction that repeats on a fixed
// interval. NextDue advances by one interval each time it is processed.
type RecurringTemplate struct {
	ID          int32           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  *int32          `json:"category_id"`
	Interval    string          `json:"interval"`
	StartDate   string          `json:"start_date"`
	NextDue     string          `json:"next_due"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"created_at,omitempty"`

	CategoryName  *string       `json:"category_name,omitempty"`
	CategoryKind  *CategoryKind `json:"category_kind,omitempty"`
	CategoryColor *string       `json:"category_color,omitempty"`
}

// ValidIntervals lists the accepted recurring interval values.
var ValidIntervals = []string{"daily", "weekly", "monthly", "yearly"}

// ValidInterval reports whether s is an accepted recurring interval.
func ValidInterval(s string) bool {
	for _, v := range ValidIntervals {
		if s == v {
			return true
		}
	}
	return false
}

// CategoryTotal is a per-category aggregation row.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Kind  CategoryKind    `json:"kind"`
	Color string          `json:"color"`
	Total decimal.Decimal `json:"total"`
}

// MonthlyTotal is a per-month, per-kind aggregation row.
type MonthlyTotal struct {
	Month string          `json:"month"`
	Kind  CategoryKind    `json:"kind"`
	Total decimal.Decimal `json:"total"`
}

// DailyNet is the signed net movement for one calendar date.
type DailyNet struct {
	Date string          `json:"date"`
	Net  decimal.Decimal `json:"net"`
}

// Totals holds overall income and expense sums.
type Totals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// Summary is the dashboard aggregation payload.
type Summary struct {
	ByCategory   []CategoryTotal `json:"byCategory"`
	Monthly      []MonthlyTotal  `json:"monthly"`
	DailyBalance []DailyNet      `json:"dailyBalance"`
	Totals       Totals          `json:"totals"`
}
