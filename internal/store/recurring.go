package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/consiliorum/budgetPlanner/internal/model"
)

const recurringColumns = `r.id, r.amount::text, r.description, r.category_id, r.interval,
	r.start_date::text, r.next_due::text, r.active, r.created_at::text,
	c.name, c.kind, c.color`

// NewRecurringTemplate holds the fields needed to create or update a template.
type NewRecurringTemplate struct {
	Amount      decimal.Decimal
	Description string
	CategoryID  *int32
	Interval    string
	StartDate   string
	NextDue     string
	Active      bool
}

// ListRecurring returns all templates ordered by next due date.
func (s *Store) ListRecurring(ctx context.Context) ([]model.RecurringTemplate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_templates r
		 LEFT JOIN categories c ON r.category_id = c.id
		 ORDER BY r.next_due`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recurring templates: %w", err)
	}
	defer rows.Close()

	var out []model.RecurringTemplate
	for rows.Next() {
		t, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateRecurring inserts a template.
func (s *Store) CreateRecurring(ctx context.Context, t NewRecurringTemplate) (*model.RecurringTemplate, error) {
	var id int32
	err := s.db.QueryRow(ctx,
		`INSERT INTO recurring_templates (amount, description, category_id, interval, start_date, next_due, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		t.Amount.String(), t.Description, t.CategoryID, t.Interval, t.StartDate, t.NextDue, t.Active,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("creating recurring template: %w", err)
	}
	return s.getRecurring(ctx, id)
}

// UpdateRecurring replaces a template's mutable fields.
// Returns nil when the id does not exist.
func (s *Store) UpdateRecurring(ctx context.Context, id int32, t NewRecurringTemplate) (*model.RecurringTemplate, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE recurring_templates
		 SET amount=$1, description=$2, category_id=$3, interval=$4, active=$5, next_due=$6
		 WHERE id=$7`,
		t.Amount.String(), t.Description, t.CategoryID, t.Interval, t.Active, t.NextDue, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating recurring template %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.getRecurring(ctx, id)
}

// DeleteRecurring removes one template, reporting whether it existed.
func (s *Store) DeleteRecurring(ctx context.Context, id int32) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM recurring_templates WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting recurring template %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ProcessDueRecurring materializes a transaction for every active
// template whose next_due is on or before today, then advances each
// template by one interval. A template far in arrears catches up one
// interval per call.
func (s *Store) ProcessDueRecurring(ctx context.Context, today string) ([]model.Transaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_templates r
		 LEFT JOIN categories c ON r.category_id = c.id
		 WHERE r.active = true AND r.next_due <= $1
		 ORDER BY r.next_due`,
		today,
	)
	if err != nil {
		return nil, fmt.Errorf("listing due templates: %w", err)
	}
	var due []model.RecurringTemplate
	for rows.Next() {
		t, err := scanRecurring(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		due = append(due, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	created := make([]model.Transaction, 0, len(due))
	for _, tpl := range due {
		interval := tpl.Interval
		txn, err := s.CreateTransaction(ctx, model.NewTransaction{
			Amount:            tpl.Amount,
			Description:       tpl.Description,
			Date:              tpl.NextDue,
			CategoryID:        tpl.CategoryID,
			IsRecurring:       true,
			RecurringInterval: &interval,
		})
		if err != nil {
			return created, fmt.Errorf("materializing template %d: %w", tpl.ID, err)
		}
		created = append(created, *txn)

		nextDue, err := AdvanceDueDate(tpl.NextDue, tpl.Interval)
		if err != nil {
			return created, fmt.Errorf("advancing template %d: %w", tpl.ID, err)
		}
		if _, err := s.db.Exec(ctx,
			`UPDATE recurring_templates SET next_due = $1 WHERE id = $2`,
			nextDue, tpl.ID,
		); err != nil {
			return created, fmt.Errorf("advancing template %d: %w", tpl.ID, err)
		}
	}
	return created, nil
}

// AdvanceDueDate steps a canonical date forward by one interval.
func AdvanceDueDate(date, interval string) (string, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", fmt.Errorf("parsing due date %q: %w", date, err)
	}
	switch interval {
	case "daily":
		t = t.AddDate(0, 0, 1)
	case "weekly":
		t = t.AddDate(0, 0, 7)
	case "monthly":
		t = t.AddDate(0, 1, 0)
	case "yearly":
		t = t.AddDate(1, 0, 0)
	default:
		return "", fmt.Errorf("unknown interval %q", interval)
	}
	return t.Format(time.DateOnly), nil
}

func (s *Store) getRecurring(ctx context.Context, id int32) (*model.RecurringTemplate, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_templates r
		 LEFT JOIN categories c ON r.category_id = c.id
		 WHERE r.id = $1`,
		id,
	)
	t, err := scanRecurring(row)
	if err != nil {
		return nil, fmt.Errorf("getting recurring template %d: %w", id, err)
	}
	return &t, nil
}

func scanRecurring(row pgx.Row) (model.RecurringTemplate, error) {
	var t model.RecurringTemplate
	var amount string
	var createdAt *string
	err := row.Scan(
		&t.ID, &amount, &t.Description, &t.CategoryID, &t.Interval,
		&t.StartDate, &t.NextDue, &t.Active, &createdAt,
		&t.CategoryName, &t.CategoryKind, &t.CategoryColor,
	)
	if err != nil {
		return model.RecurringTemplate{}, err
	}
	if createdAt != nil {
		t.CreatedAt = *createdAt
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return model.RecurringTemplate{}, fmt.Errorf("scanning amount: %w", err)
	}
	return t, nil
}
