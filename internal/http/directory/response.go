package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timepulse/internal/directory"
)

type employeeResponse struct {
	ID           uuid.UUID        `json:"id"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Email        string           `json:"email,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	ContactInfo  string           `json:"contact_info,omitempty"`
	Title        string           `json:"title,omitempty"`
	Department   string           `json:"department,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`
	SalaryAmount *decimal.Decimal `json:"salary_amount,omitempty"`
	VendorID     *uuid.UUID       `json:"vendor_id,omitempty"`
	ClientID     *uuid.UUID       `json:"client_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func toEmployeeResponse(e *directory.Employee) employeeResponse {
	return employeeResponse{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Phone:        e.Phone,
		ContactInfo:  e.ContactInfo,
		Title:        e.Title,
		Department:   e.Department,
		HourlyRate:   e.HourlyRate,
		SalaryAmount: e.SalaryAmount,
		VendorID:     e.VendorID,
		ClientID:     e.ClientID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

type clientResponse struct {
	ID              uuid.UUID        `json:"id"`
	ClientName      string           `json:"client_name"`
	LegalName       string           `json:"legal_name,omitempty"`
	ContactPerson   string           `json:"contact_person,omitempty"`
	Email           string           `json:"email,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	BillingAddress  string           `json:"billing_address,omitempty"`
	ShippingAddress string           `json:"shipping_address,omitempty"`
	TaxID           string           `json:"tax_id,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`
	PaymentTerms    int              `json:"payment_terms"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func toClientResponse(c *directory.Client) clientResponse {
	return clientResponse{
		ID:              c.ID,
		ClientName:      c.ClientName,
		LegalName:       c.LegalName,
		ContactPerson:   c.ContactPerson,
		Email:           c.Email,
		Phone:           c.Phone,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		TaxID:           c.TaxID,
		HourlyRate:      c.HourlyRate,
		PaymentTerms:    c.PaymentTerms,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

type vendorResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Address       string    `json:"address,omitempty"`
	TaxID         string    `json:"tax_id,omitempty"`
	PaymentTerms  int       `json:"payment_terms"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toVendorResponse(v *directory.Vendor) vendorResponse {
	return vendorResponse{
		ID:            v.ID,
		Name:          v.Name,
		Email:         v.Email,
		Phone:         v.Phone,
		ContactPerson: v.ContactPerson,
		Address:       v.Address,
		TaxID:         v.TaxID,
		PaymentTerms:  v.PaymentTerms,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

type partnerResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toPartnerResponse(p *directory.ImplementationPartner) partnerResponse {
	return partnerResponse{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		ContactPerson: p.ContactPerson,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
