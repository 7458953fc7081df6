package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/consiliorum/budgetPlanner/internal/model"
	"github.com/consiliorum/budgetPlanner/internal/store"
)

// transactionRequest is the JSON body for creating or updating a transaction.
type transactionRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Date              string          `json:"date"`
	CategoryID        *int32          `json:"category_id"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval"`
}

// validate checks required fields and value formats.
func (tr *transactionRequest) validate() string {
	if tr.Amount.IsZero() {
		return "amount is required"
	}
	if tr.Date == "" {
		return "date is required"
	}
	if _, err := time.Parse(time.DateOnly, tr.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if tr.RecurringInterval != nil && !model.ValidInterval(*tr.RecurringInterval) {
		return "recurring_interval must be one of: daily, weekly, monthly, yearly"
	}
	return ""
}

func (tr *transactionRequest) toNewTransaction() model.NewTransaction {
	return model.NewTransaction{
		Amount:            tr.Amount,
		Description:       tr.Description,
		Date:              tr.Date,
		CategoryID:        tr.CategoryID,
		IsRecurring:       tr.IsRecurring,
		RecurringInterval: tr.RecurringInterval,
	}
}

// handleListTransactions returns transactions matching the query filters
// plus the total count ignoring pagination.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.TransactionFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Kind:      model.CategoryKind(q.Get("kind")),
	}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		id32 := int32(id)
		filter.CategoryID = &id32
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	transactions, total, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"total":        total,
	})
}

// handleTransactionSummary returns aggregate totals for the optional
// date range: per-category, per-month, daily net, and overall totals.
func (s *Server) handleTransactionSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	summary, err := s.store.Summary(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), req.toNewTransaction())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.store.UpdateTransaction(r.Context(), id, req.toNewTransaction())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteTransaction(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

func (s *Server) handleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.DeleteAllTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "all transactions deleted",
		"deleted": count,
	})
}

// parseID extracts the {id} URL parameter as an int32.
// On failure it writes a 400 response and returns ok=false.
func parseID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return int32(id), true
}
