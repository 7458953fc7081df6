package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

// txColumns selects a transaction with its joined category fields.
// Numeric and date columns come back as text so they scan into the
// canonical string/decimal representations the model uses.
const txColumns = `t.id, t.amount::text, t.description, t.date::text, t.category_id,
	t.is_recurring, t.recurring_interval, t.created_at::text,
	c.name, c.kind, c.color`

// TransactionFilter narrows a transaction listing. Zero values mean
// "no constraint"; Limit falls back to 100.
type TransactionFilter struct {
	CategoryID *int32
	StartDate  string
	EndDate    string
	Kind       model.CategoryKind
	Limit      int
	Offset     int
}

// ListTransactions returns matching transactions ordered newest first,
// plus the total count ignoring limit/offset.
func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]model.Transaction, int64, error) {
	where := ""
	var args []interface{}
	and := func(cond string, val interface{}) {
		args = append(args, val)
		if where == "" {
			where = "WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if f.CategoryID != nil {
		and("t.category_id = $%d", *f.CategoryID)
	}
	if f.StartDate != "" {
		and("t.date >= $%d", f.StartDate)
	}
	if f.EndDate != "" {
		and("t.date <= $%d", f.EndDate)
	}
	if f.Kind != "" {
		and("c.kind = $%d", string(f.Kind))
	}

	var total int64
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions t LEFT JOIN categories c ON t.category_id = c.id `+where,
		args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(
		`SELECT `+txColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 %s
		 ORDER BY t.date DESC, t.id DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, f.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// GetTransaction returns one transaction, or nil when not found.
func (s *Store) GetTransaction(ctx context.Context, id int32) (*model.Transaction, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+txColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.id = $1`,
		id,
	)
	t, err := scanTransaction(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction %d: %w", id, err)
	}
	return &t, nil
}

// InsertTransaction persists one record. Used by the import engine;
// each insert is its own atomic operation.
func (s *Store) InsertTransaction(ctx context.Context, t model.NewTransaction) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO transactions (amount, description, date, category_id, is_recurring, recurring_interval)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.Amount.String(), t.Description, t.Date, t.CategoryID, t.IsRecurring, t.RecurringInterval,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

// CreateTransaction persists one record and returns it with joined
// category fields.
func (s *Store) CreateTransaction(ctx context.Context, t model.NewTransaction) (*model.Transaction, error) {
	var id int32
	err := s.db.QueryRow(ctx,
		`INSERT INTO transactions (amount, description, date, category_id, is_recurring, recurring_interval)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.Amount.String(), t.Description, t.Date, t.CategoryID, t.IsRecurring, t.RecurringInterval,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return s.GetTransaction(ctx, id)
}

// UpdateTransaction replaces all mutable fields of a transaction.
// Returns nil when the id does not exist.
func (s *Store) UpdateTransaction(ctx context.Context, id int32, t model.NewTransaction) (*model.Transaction, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE transactions
		 SET amount=$1, description=$2, date=$3, category_id=$4, is_recurring=$5, recurring_interval=$6
		 WHERE id=$7`,
		t.Amount.String(), t.Description, t.Date, t.CategoryID, t.IsRecurring, t.RecurringInterval, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetTransaction(ctx, id)
}

// DeleteTransaction removes one transaction, reporting whether it existed.
func (s *Store) DeleteTransaction(ctx context.Context, id int32) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAllTransactions wipes the transactions table and returns the
// number of rows removed.
func (s *Store) DeleteAllTransactions(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM transactions`)
	if err != nil {
		return 0, fmt.Errorf("deleting transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// TransactionExists is the dedup gate's point-in-time check: an exact
// match on (date, magnitude, description). Two concurrent imports can
// both see false here before either inserts; that window is accepted.
func (s *Store) TransactionExists(ctx context.Context, date string, amount decimal.Decimal, description string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM transactions WHERE date = $1 AND amount = $2 AND description = $3
		 )`,
		date, amount.String(), description,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking duplicate: %w", err)
	}
	return exists, nil
}

// Summary computes the dashboard aggregations for an optional date range.
func (s *Store) Summary(ctx context.Context, startDate, endDate string) (*model.Summary, error) {
	where := ""
	var args []interface{}
	if startDate != "" {
		args = append(args, startDate)
		where = fmt.Sprintf("WHERE t.date >= $%d", len(args))
	}
	if endDate != "" {
		args = append(args, endDate)
		if where == "" {
			where = fmt.Sprintf("WHERE t.date <= $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND t.date <= $%d", len(args))
		}
	}

	sum := &model.Summary{
		ByCategory:   []model.CategoryTotal{},
		Monthly:      []model.MonthlyTotal{},
		DailyBalance: []model.DailyNet{},
	}

	rows, err := s.db.Query(ctx,
		`SELECT c.name, c.kind, c.color, SUM(t.amount)::text
		 FROM transactions t
		 JOIN categories c ON t.category_id = c.id `+where+`
		 GROUP BY c.id, c.name, c.kind, c.color
		 ORDER BY SUM(t.amount) DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("summary by category: %w", err)
	}
	for rows.Next() {
		var ct model.CategoryTotal
		var total string
		if err := rows.Scan(&ct.Name, &ct.Kind, &ct.Color, &total); err != nil {
			rows.Close()
			return nil, err
		}
		if ct.Total, err = decimal.NewFromString(total); err != nil {
			rows.Close()
			return nil, err
		}
		sum.ByCategory = append(sum.ByCategory, ct)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(ctx,
		`SELECT TO_CHAR(t.date, 'YYYY-MM'), c.kind, SUM(t.amount)::text
		 FROM transactions t
		 JOIN categories c ON t.category_id = c.id `+where+`
		 GROUP BY 1, c.kind
		 ORDER BY 1`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("summary monthly: %w", err)
	}
	for rows.Next() {
		var mt model.MonthlyTotal
		var total string
		if err := rows.Scan(&mt.Month, &mt.Kind, &total); err != nil {
			rows.Close()
			return nil, err
		}
		if mt.Total, err = decimal.NewFromString(total); err != nil {
			rows.Close()
			return nil, err
		}
		sum.Monthly = append(sum.Monthly, mt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(ctx,
		`SELECT t.date::text,
		        SUM(CASE WHEN c.kind = 'income' THEN t.amount ELSE -t.amount END)::text
		 FROM transactions t
		 JOIN categories c ON t.category_id = c.id `+where+`
		 GROUP BY t.date
		 ORDER BY t.date`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("summary daily balance: %w", err)
	}
	for rows.Next() {
		var dn model.DailyNet
		var net string
		if err := rows.Scan(&dn.Date, &net); err != nil {
			rows.Close()
			return nil, err
		}
		if dn.Net, err = decimal.NewFromString(net); err != nil {
			rows.Close()
			return nil, err
		}
		sum.DailyBalance = append(sum.DailyBalance, dn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var income, expenses string
	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN c.kind = 'income' THEN t.amount ELSE 0 END), 0)::text,
		        COALESCE(SUM(CASE WHEN c.kind = 'expense' THEN t.amount ELSE 0 END), 0)::text
		 FROM transactions t
		 JOIN categories c ON t.category_id = c.id `+where,
		args...,
	).Scan(&income, &expenses)
	if err != nil {
		return nil, fmt.Errorf("summary totals: %w", err)
	}
	if sum.Totals.TotalIncome, err = decimal.NewFromString(income); err != nil {
		return nil, err
	}
	if sum.Totals.TotalExpenses, err = decimal.NewFromString(expenses); err != nil {
		return nil, err
	}

	return sum, nil
}

// scanTransaction reads one joined transaction row.
func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var t model.Transaction
	var amount string
	var createdAt *string
	err := row.Scan(
		&t.ID, &amount, &t.Description, &t.Date, &t.CategoryID,
		&t.IsRecurring, &t.RecurringInterval, &createdAt,
		&t.CategoryName, &t.CategoryKind, &t.CategoryColor,
	)
	if err != nil {
		return model.Transaction{}, err
	}
	if createdAt != nil {
		t.CreatedAt = *createdAt
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return model.Transaction{}, fmt.Errorf("scanning amount: %w", err)
	}
	return t, nil
}
