package directory

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("directory record not found")
	ErrInvalid  = errors.New("invalid directory record")
	// ErrInUse is returned when a record is still referenced by billing data.
	ErrInUse = errors.New("directory record in use")
)

// Employee is a billable worker. Personal fields and rates are encrypted at rest.
type Employee struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	ContactInfo  string
	Title        string
	Department   string
	HourlyRate   *decimal.Decimal
	SalaryAmount *decimal.Decimal
	VendorID     *uuid.UUID // Vendor the employee is placed through, if any
	ClientID     *uuid.UUID // Default client for new timesheets
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Client is a billed customer.
type Client struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	ClientName      string
	LegalName       string
	ContactPerson   string
	Email           string
	Phone           string
	BillingAddress  string
	ShippingAddress string
	TaxID           string
	HourlyRate      *decimal.Decimal
	PaymentTerms    int // Days
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Vendor struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Name          string
	Email         string
	Phone         string
	ContactPerson string
	Address       string
	TaxID         string
	PaymentTerms  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ImplementationPartner is a third party delivering work on behalf of the tenant.
type ImplementationPartner struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Name          string
	Email         string
	Phone         string
	ContactPerson string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
