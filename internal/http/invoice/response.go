package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
)

type invoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	InvoiceHash   string                `json:"invoice_hash"`
	TimesheetID   uuid.UUID             `json:"timesheet_id"`
	EmployeeID    uuid.UUID             `json:"employee_id"`
	ClientID      *uuid.UUID            `json:"client_id,omitempty"`
	VendorID      *uuid.UUID            `json:"vendor_id,omitempty"`
	InvoiceDate   string                `json:"invoice_date"`
	DueDate       string                `json:"due_date"`
	LineItems     []invoice.LineItem    `json:"line_items"`
	TotalHours    decimal.Decimal       `json:"total_hours"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        invoice.Status        `json:"status"`
	PaymentStatus invoice.PaymentStatus `json:"payment_status"`
	PaymentDate   *string               `json:"payment_date,omitempty"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	CreatedBy     uuid.UUID             `json:"created_by"`
	ApprovedBy    *uuid.UUID            `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time            `json:"approved_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceHash:   inv.InvoiceHash,
		TimesheetID:   inv.TimesheetID,
		EmployeeID:    inv.EmployeeID,
		ClientID:      inv.ClientID,
		VendorID:      inv.VendorID,
		InvoiceDate:   inv.InvoiceDate.Format(time.DateOnly),
		DueDate:       inv.DueDate.Format(time.DateOnly),
		LineItems:     inv.LineItems,
		TotalHours:    inv.TotalHours(),
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status,
		PaymentStatus: inv.PaymentStatus,
		PaymentMethod: inv.PaymentMethod,
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		ApprovedBy:    inv.ApprovedBy,
		ApprovedAt:    inv.ApprovedAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}

	if resp.LineItems == nil {
		resp.LineItems = []invoice.LineItem{}
	}

	if inv.PaymentDate != nil {
		resp.PaymentDate = new(inv.PaymentDate.Format(time.DateOnly))
	}

	return resp
}

func toResponseList(list []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(list))
	for i, inv := range list {
		resp[i] = toResponse(inv)
	}

	return resp
}

type partyResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	Title      string    `json:"title,omitempty"`
	Department string    `json:"department,omitempty"`
}

type generateResponse struct {
	Outcome  invoice.Outcome `json:"outcome"`
	Invoice  invoiceResponse `json:"invoice"`
	Employee *partyResponse  `json:"employee,omitempty"`
	Client   *partyResponse  `json:"client,omitempty"`
	Vendor   *partyResponse  `json:"vendor,omitempty"`
}

func toGenerateResponse(res *invoice.Result) generateResponse {
	resp := generateResponse{Outcome: res.Outcome, Invoice: toResponse(res.Invoice)}

	if e := res.Employee; e != nil {
		resp.Employee = &partyResponse{ID: e.ID, Name: e.Name, Email: e.Email, Title: e.Title, Department: e.Department}
	}

	if c := res.Client; c != nil {
		resp.Client = &partyResponse{ID: c.ID, Name: c.Name, Email: c.Email, Address: c.BillingAddress}
	}

	if v := res.Vendor; v != nil {
		resp.Vendor = &partyResponse{ID: v.ID, Name: v.Name, Email: v.Email, Address: v.Address}
	}

	return resp
}

type detailsResponse struct {
	Invoice   invoiceResponse `json:"invoice"`
	Timesheet *timesheetRef   `json:"timesheet,omitempty"`
	Employee  *partyResponse  `json:"employee,omitempty"`
	Client    *partyResponse  `json:"client,omitempty"`
	Vendor    *partyResponse  `json:"vendor,omitempty"`
}

type timesheetRef struct {
	ID        uuid.UUID       `json:"id"`
	WeekStart string          `json:"week_start"`
	WeekEnd   string          `json:"week_end"`
	Hours     decimal.Decimal `json:"total_hours"`
}

func toDetailsResponse(d *invoice.Details) detailsResponse {
	resp := detailsResponse{Invoice: toResponse(d.Invoice)}

	if ts := d.Timesheet; ts != nil {
		resp.Timesheet = &timesheetRef{
			ID:        ts.ID,
			WeekStart: ts.WeekStart.Format(time.DateOnly),
			WeekEnd:   ts.WeekEnd.Format(time.DateOnly),
			Hours:     ts.TotalHours,
		}
	}

	if e := d.Employee; e != nil {
		resp.Employee = &partyResponse{ID: e.ID, Name: e.FullName(), Email: e.Email, Title: e.Title, Department: e.Department}
	}

	if c := d.Client; c != nil {
		resp.Client = &partyResponse{ID: c.ID, Name: c.ClientName, Email: c.Email, Address: c.BillingAddress}
	}

	if v := d.Vendor; v != nil {
		resp.Vendor = &partyResponse{ID: v.ID, Name: v.Name, Email: v.Email, Address: v.Address}
	}

	return resp
}

type checkResponse struct {
	Exists  bool             `json:"exists"`
	Invoice *invoiceResponse `json:"invoice,omitempty"`
}

// publicResponse is what an unauthenticated holder of the invoice hash may see.
type publicResponse struct {
	InvoiceNumber string                `json:"invoice_number"`
	InvoiceDate   string                `json:"invoice_date"`
	DueDate       string                `json:"due_date"`
	LineItems     []invoice.LineItem    `json:"line_items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaymentStatus invoice.PaymentStatus `json:"payment_status"`
}

func toPublicResponse(inv *invoice.Invoice) publicResponse {
	full := toResponse(inv)

	return publicResponse{
		InvoiceNumber: full.InvoiceNumber,
		InvoiceDate:   full.InvoiceDate,
		DueDate:       full.DueDate,
		LineItems:     full.LineItems,
		Subtotal:      full.Subtotal,
		TaxAmount:     full.TaxAmount,
		TotalAmount:   full.TotalAmount,
		PaymentStatus: full.PaymentStatus,
	}
}
