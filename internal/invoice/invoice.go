package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("invoice not found")
	ErrTimesheetNotFound    = errors.New("timesheet not found")
	ErrTimesheetNotApproved = errors.New("timesheet not approved")
	ErrEmployeeNotFound     = errors.New("employee not found")
	// ErrNumberCollision is returned by the store when another invoice took the number first.
	ErrNumberCollision = errors.New("invoice number collision")
	// ErrTimesheetInvoiced is returned by the store when the timesheet gained an invoice
	// between the existence check and the insert.
	ErrTimesheetInvoiced    = errors.New("timesheet already invoiced")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidTransition    = errors.New("invalid invoice status transition")
)

// Status is the review state of an invoice.
type Status string

const (
	StatusActive   Status = "active"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusInactive Status = "inactive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled:
		return true
	}

	return false
}

// LineItem is one billable row. It is stored inside the encrypted line_items column.
type LineItem struct {
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type Invoice struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	InvoiceNumber string // INV-YYYY-NNNNN, unique per tenant
	InvoiceHash   string // Opaque key for public lookup
	TimesheetID   uuid.UUID
	EmployeeID    uuid.UUID
	ClientID      *uuid.UUID
	VendorID      *uuid.UUID
	InvoiceDate   time.Time
	DueDate       time.Time
	LineItems     []LineItem
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        Status
	PaymentStatus PaymentStatus
	PaymentDate   *time.Time
	PaymentMethod string
	Notes         string
	CreatedBy     uuid.UUID
	ApprovedBy    *uuid.UUID
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalHours sums the hours of all line items.
func (i *Invoice) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, li := range i.LineItems {
		total = total.Add(li.Hours)
	}

	return total
}

// Outcome distinguishes a fresh invoice from an idempotent repeat.
type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
)

// Result is returned by GenerateFromTimesheet. The party data is only filled for
// OutcomeCreated.
type Result struct {
	Outcome  Outcome
	Invoice  *Invoice
	Employee *EmployeeData
	Client   *ClientData
	Vendor   *VendorData
}

func (r *Result) Created() bool {
	return r.Outcome == OutcomeCreated
}

// EmployeeData is the plaintext employee snapshot an invoice was built from.
type EmployeeData struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Title      string
	Department string
}

type ClientData struct {
	ID             uuid.UUID
	Name           string
	Email          string
	BillingAddress string
}

type VendorData struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Address string
}
