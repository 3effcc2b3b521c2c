package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timepulse/internal/auth"
	"github.com/MrJamesThe3rd/timepulse/internal/directory"
)

type Handler struct {
	svc *directory.Service
}

func NewHandler(svc *directory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) EmployeeRoutes(r chi.Router) {
	r.Post("/", h.createEmployee)
	r.Get("/", list(h.svc.ListEmployees, toEmployeeResponse))
	r.Get("/{id}", get(h.svc.GetEmployee, toEmployeeResponse))
	r.Delete("/{id}", h.deleteEmployee)
}

func (h *Handler) ClientRoutes(r chi.Router) {
	r.Post("/", h.createClient)
	r.Get("/", list(h.svc.ListClients, toClientResponse))
	r.Get("/{id}", get(h.svc.GetClient, toClientResponse))
}

func (h *Handler) VendorRoutes(r chi.Router) {
	r.Post("/", h.createVendor)
	r.Get("/", list(h.svc.ListVendors, toVendorResponse))
	r.Get("/{id}", get(h.svc.GetVendor, toVendorResponse))
}

func (h *Handler) PartnerRoutes(r chi.Router) {
	r.Post("/", h.createPartner)
	r.Get("/", list(h.svc.ListPartners, toPartnerResponse))
	r.Get("/{id}", get(h.svc.GetPartner, toPartnerResponse))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, directory.ErrInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, directory.ErrInvalid):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("directory request failed", "error", err)
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

func get[T, R any](fetch func(ctx context.Context, tenantID, id uuid.UUID) (*T, error), conv func(*T) R) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		v, err := fetch(r.Context(), auth.TenantID(r.Context()), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, conv(v))
	}
}

func list[T, R any](fetch func(ctx context.Context, tenantID uuid.UUID) ([]*T, error), conv func(*T) R) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := fetch(r.Context(), auth.TenantID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]R, len(items))
		for i, v := range items {
			resp[i] = conv(v)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type createEmployeeRequest struct {
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	ContactInfo  string           `json:"contact_info"`
	Title        string           `json:"title"`
	Department   string           `json:"department"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`
	SalaryAmount *decimal.Decimal `json:"salary_amount,omitempty"`
	VendorID     *uuid.UUID       `json:"vendor_id,omitempty"`
	ClientID     *uuid.UUID       `json:"client_id,omitempty"`
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.CreateEmployee(r.Context(), auth.TenantID(r.Context()), directory.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		ContactInfo:  req.ContactInfo,
		Title:        req.Title,
		Department:   req.Department,
		HourlyRate:   req.HourlyRate,
		SalaryAmount: req.SalaryAmount,
		VendorID:     req.VendorID,
		ClientID:     req.ClientID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeResponse(e))
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteEmployee(r.Context(), auth.TenantID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createClientRequest struct {
	ClientName      string           `json:"client_name"`
	LegalName       string           `json:"legal_name"`
	ContactPerson   string           `json:"contact_person"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	BillingAddress  string           `json:"billing_address"`
	ShippingAddress string           `json:"shipping_address"`
	TaxID           string           `json:"tax_id"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`
	PaymentTerms    int              `json:"payment_terms"`
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.CreateClient(r.Context(), auth.TenantID(r.Context()), directory.Client{
		ClientName:      req.ClientName,
		LegalName:       req.LegalName,
		ContactPerson:   req.ContactPerson,
		Email:           req.Email,
		Phone:           req.Phone,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		TaxID:           req.TaxID,
		HourlyRate:      req.HourlyRate,
		PaymentTerms:    req.PaymentTerms,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientResponse(c))
}

type createVendorRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
	Address       string `json:"address"`
	TaxID         string `json:"tax_id"`
	PaymentTerms  int    `json:"payment_terms"`
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.svc.CreateVendor(r.Context(), auth.TenantID(r.Context()), directory.Vendor{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
		Address:       req.Address,
		TaxID:         req.TaxID,
		PaymentTerms:  req.PaymentTerms,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVendorResponse(v))
}

type createPartnerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
}

func (h *Handler) createPartner(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.CreatePartner(r.Context(), auth.TenantID(r.Context()), directory.ImplementationPartner{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPartnerResponse(p))
}
