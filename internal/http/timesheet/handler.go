package timesheet

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timepulse/internal/auth"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

type Handler struct {
	svc      *timesheet.Service
	invoices *invoice.Service
}

func NewHandler(svc *timesheet.Service, invoices *invoice.Service) *Handler {
	return &Handler{svc: svc, invoices: invoices}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/hours", h.updateHours)
	r.Post("/{id}/submit", h.submit)
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timesheet.ErrNotFound):
		http.Error(w, "timesheet not found", http.StatusNotFound)
	case errors.Is(err, timesheet.ErrInvalidTransition), errors.Is(err, timesheet.ErrDuplicateWeek):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, timesheet.ErrInvalid):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("timesheet request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createTimesheetRequest struct {
	EmployeeID      uuid.UUID            `json:"employee_id"`
	ClientID        *uuid.UUID           `json:"client_id,omitempty"`
	WeekStart       string               `json:"week_start"`
	DailyHours      timesheet.DailyHours `json:"daily_hours"`
	Notes           string               `json:"notes"`
	EmployeeName    string               `json:"employee_name"`
	OvertimeDays    []string             `json:"overtime_days"`
	OvertimeComment string               `json:"overtime_comment"`
	Attachments     []string             `json:"attachments"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	weekStart, err := time.Parse(time.DateOnly, req.WeekStart)
	if err != nil {
		http.Error(w, "invalid week_start", http.StatusBadRequest)
		return
	}

	ts, err := h.svc.Create(r.Context(), auth.TenantID(r.Context()), timesheet.CreateParams{
		EmployeeID:      req.EmployeeID,
		ClientID:        req.ClientID,
		WeekStart:       weekStart,
		DailyHours:      req.DailyHours,
		Notes:           req.Notes,
		EmployeeName:    req.EmployeeName,
		OvertimeDays:    req.OvertimeDays,
		OvertimeComment: req.OvertimeComment,
		Attachments:     req.Attachments,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(ts))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := timesheet.ListFilter{TenantID: auth.TenantID(r.Context())}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(timesheet.Status(s))
	}

	if s := r.URL.Query().Get("employee_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid employee_id", http.StatusBadRequest)
			return
		}

		filter.EmployeeID = &id
	}

	if s := r.URL.Query().Get("week_from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid week_from", http.StatusBadRequest)
			return
		}

		filter.WeekFrom = &t
	}

	if s := r.URL.Query().Get("week_to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid week_to", http.StatusBadRequest)
			return
		}

		filter.WeekTo = &t
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(list))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ts, err := h.svc.Get(r.Context(), auth.TenantID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(ts))
}

type updateHoursRequest struct {
	DailyHours timesheet.DailyHours `json:"daily_hours"`
	Notes      *string              `json:"notes,omitempty"`
}

func (h *Handler) updateHours(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ts, err := h.svc.UpdateHours(r.Context(), auth.TenantID(r.Context()), id, req.DailyHours, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(ts))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ts, err := h.svc.Submit(r.Context(), auth.TenantID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(ts))
}

// approve approves the timesheet and bills it. A billing failure does not undo the
// approval; it is reported in the response and can be retried through the invoice API.
func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := auth.FromContext(r.Context())

	ts, err := h.svc.Approve(r.Context(), claims.TenantID, id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := approveResponse{Timesheet: toResponse(ts)}

	res, err := h.invoices.GenerateFromTimesheet(r.Context(), claims.TenantID, ts.ID, claims.UserID)
	if err != nil {
		slog.Error("failed to generate invoice for approved timesheet", "timesheet_id", ts.ID, "error", err)
		resp.InvoiceError = err.Error()
	} else {
		resp.Outcome = res.Outcome
		resp.InvoiceID = &res.Invoice.ID
		resp.InvoiceNo = res.Invoice.InvoiceNumber
	}

	writeJSON(w, http.StatusOK, resp)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims := auth.FromContext(r.Context())

	ts, err := h.svc.Reject(r.Context(), claims.TenantID, id, claims.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(ts))
}
