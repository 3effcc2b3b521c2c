package invoice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timepulse/internal/auth"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice/pdf"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/generate", h.generate)
	r.Get("/", h.list)
	r.Get("/check-timesheet/{timesheetID}", h.checkTimesheet)
	r.Get("/{id}", h.get)
	r.Get("/{id}/details", h.details)
	r.Get("/{id}/pdf", h.pdf)
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
	r.Patch("/{id}/payment", h.updatePayment)
}

// PublicRoutes serves invoice lookups by hash. They need no token.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/{hash}", h.getByHash)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "invoice not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrTimesheetNotFound):
		http.Error(w, "timesheet not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, invoice.ErrTimesheetNotApproved),
		errors.Is(err, invoice.ErrEmployeeNotFound),
		errors.Is(err, invoice.ErrInvalidPaymentStatus):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("invoice request failed", "error", err)
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

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

type generateRequest struct {
	TimesheetID uuid.UUID `json:"timesheet_id"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TimesheetID == uuid.Nil {
		http.Error(w, "timesheet_id is required", http.StatusBadRequest)
		return
	}

	claims := auth.FromContext(r.Context())

	res, err := h.svc.GenerateFromTimesheet(r.Context(), claims.TenantID, req.TimesheetID, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if res.Created() {
		status = http.StatusCreated
	}

	writeJSON(w, status, toGenerateResponse(res))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{TenantID: auth.TenantID(r.Context())}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(invoice.Status(s))
	}

	if s := r.URL.Query().Get("payment_status"); s != "" {
		filter.PaymentStatus = new(invoice.PaymentStatus(s))
	}

	if s := r.URL.Query().Get("employee_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid employee_id", http.StatusBadRequest)
			return
		}

		filter.EmployeeID = &id
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(list))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), auth.TenantID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.svc.GetWithDetails(r.Context(), auth.TenantID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDetailsResponse(d))
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.svc.GetWithDetails(r.Context(), auth.TenantID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := pdf.Render(&buf, pdf.FromDetails(d)); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Invoice.InvoiceNumber+".pdf"))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write pdf", "invoice_id", id, "error", err)
	}
}

func (h *Handler) checkTimesheet(w http.ResponseWriter, r *http.Request) {
	timesheetID, ok := pathID(w, r, "timesheetID")
	if !ok {
		return
	}

	inv, err := h.svc.CheckTimesheet(r.Context(), auth.TenantID(r.Context()), timesheetID)
	if errors.Is(err, invoice.ErrNotFound) {
		writeJSON(w, http.StatusOK, checkResponse{})
		return
	}

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{Exists: true, Invoice: new(toResponse(inv))})
}

type approveRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims := auth.FromContext(r.Context())

	inv, err := h.svc.Approve(r.Context(), claims.TenantID, id, claims.UserID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	inv, err := h.svc.Reject(r.Context(), auth.TenantID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

type updatePaymentRequest struct {
	PaymentStatus invoice.PaymentStatus `json:"payment_status"`
	PaymentDate   *string               `json:"payment_date,omitempty"`
	PaymentMethod string                `json:"payment_method"`
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	upd := invoice.PaymentUpdate{Status: req.PaymentStatus, Method: req.PaymentMethod}

	if req.PaymentDate != nil {
		t, err := time.Parse(time.DateOnly, *req.PaymentDate)
		if err != nil {
			http.Error(w, "invalid payment_date", http.StatusBadRequest)
			return
		}

		upd.Date = &t
	}

	inv, err := h.svc.UpdatePayment(r.Context(), auth.TenantID(r.Context()), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) getByHash(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetByHash(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPublicResponse(inv))
}
