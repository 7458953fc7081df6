package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/consiliorum/budgetPlanner/internal/model"
	"github.com/consiliorum/budgetPlanner/internal/store"
)

// recurringRequest is the JSON body for creating or updating a template.
type recurringRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  *int32          `json:"category_id"`
	Interval    string          `json:"interval"`
	StartDate   string          `json:"start_date"`
	NextDue     string          `json:"next_due"`
	Active      *bool           `json:"active"`
}

func (rr *recurringRequest) validate() string {
	if rr.Amount.IsZero() {
		return "amount is required"
	}
	if !model.ValidInterval(rr.Interval) {
		return "interval must be one of: daily, weekly, monthly, yearly"
	}
	if rr.StartDate == "" {
		return "start_date is required"
	}
	if _, err := time.Parse(time.DateOnly, rr.StartDate); err != nil {
		return "start_date must be in YYYY-MM-DD format"
	}
	if rr.NextDue != "" {
		if _, err := time.Parse(time.DateOnly, rr.NextDue); err != nil {
			return "next_due must be in YYYY-MM-DD format"
		}
	}
	return ""
}

func (rr *recurringRequest) toNewTemplate() store.NewRecurringTemplate {
	active := true
	if rr.Active != nil {
		active = *rr.Active
	}
	nextDue := rr.NextDue
	if nextDue == "" {
		nextDue = rr.StartDate
	}
	return store.NewRecurringTemplate{
		Amount:      rr.Amount,
		Description: rr.Description,
		CategoryID:  rr.CategoryID,
		Interval:    rr.Interval,
		StartDate:   rr.StartDate,
		NextDue:     nextDue,
		Active:      active,
	}
}

// handleListRecurring returns all templates ordered by next due date.
func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListRecurring(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list recurring templates")
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.store.CreateRecurring(r.Context(), req.toNewTemplate())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create recurring template")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.store.UpdateRecurring(r.Context(), id, req.toNewTemplate())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update recurring template")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "recurring template not found")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteRecurring(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete recurring template")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "recurring template not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "recurring template deleted"})
}

// handleProcessRecurring inserts one transaction per due active template
// and advances each template's next due date by its interval.
func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(time.DateOnly)

	created, err := s.store.ProcessDueRecurring(r.Context(), today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process recurring templates")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"processed":    len(created),
		"transactions": created,
	})
}
