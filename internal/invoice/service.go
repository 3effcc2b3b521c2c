package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	"github.com/MrJamesThe3rd/timepulse/internal/metrics"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	GetByHash(ctx context.Context, hash string) (*Invoice, error)
	GetByTimesheet(ctx context.Context, tenantID, timesheetID uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	// UpdateInvoice persists inv only if the stored status still equals from.
	UpdateInvoice(ctx context.Context, inv *Invoice, from Status) error

	// BeginGenerate opens a transaction holding the tenant's invoice numbering lock.
	BeginGenerate(ctx context.Context, tenantID uuid.UUID) (GenerateTx, error)
}

type GenerateTx interface {
	FindByTimesheet(ctx context.Context, tenantID, timesheetID uuid.UUID) (*Invoice, error)
	// LatestNumber returns the highest invoice number starting with prefix, or "" if none.
	LatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
	CreateInvoice(ctx context.Context, inv *Invoice) error
	Commit() error
	Rollback() error
}

// Timesheets is the slice of the timesheet service invoices are built from.
type Timesheets interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (*timesheet.Timesheet, error)
}

type Directory interface {
	GetEmployee(ctx context.Context, tenantID, id uuid.UUID) (*directory.Employee, error)
	GetClient(ctx context.Context, tenantID, id uuid.UUID) (*directory.Client, error)
	GetVendor(ctx context.Context, tenantID, id uuid.UUID) (*directory.Vendor, error)
}

// TaxPolicy computes the tax owed on an invoice subtotal.
type TaxPolicy interface {
	Tax(tenantID uuid.UUID, subtotal decimal.Decimal) decimal.Decimal
}

// NoTax charges nothing.
type NoTax struct{}

func (NoTax) Tax(uuid.UUID, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

const DefaultDueDays = 30

type Service struct {
	repo       Repository
	timesheets Timesheets
	directory  Directory
	tax        TaxPolicy
	dueDays    int
	now        func() time.Time
}

type Option func(*Service)

func WithDueDays(days int) Option {
	return func(s *Service) {
		s.dueDays = days
	}
}

func WithTaxPolicy(p TaxPolicy) Option {
	return func(s *Service) {
		s.tax = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, timesheets Timesheets, dir Directory, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		timesheets: timesheets,
		directory:  dir,
		tax:        NoTax{},
		dueDays:    DefaultDueDays,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type ListFilter struct {
	TenantID      uuid.UUID
	Status        *Status
	PaymentStatus *PaymentStatus
	EmployeeID    *uuid.UUID
}

// GenerateFromTimesheet bills an approved timesheet. Repeated calls for the same
// timesheet return OutcomeAlreadyExists with the original invoice and a nil error.
func (s *Service) GenerateFromTimesheet(ctx context.Context, tenantID, timesheetID, actingUserID uuid.UUID) (*Result, error) {
	ts, err := s.timesheets.Get(ctx, tenantID, timesheetID)
	if err != nil {
		if errors.Is(err, timesheet.ErrNotFound) {
			return nil, ErrTimesheetNotFound
		}

		return nil, fmt.Errorf("loading timesheet: %w", err)
	}

	if ts.Status != timesheet.StatusApproved {
		return nil, fmt.Errorf("%w: status is %s", ErrTimesheetNotApproved, ts.Status)
	}

	res, err := s.generate(ctx, ts, actingUserID)
	if errors.Is(err, ErrNumberCollision) {
		metrics.InvoiceNumberRetries.Inc()
		slog.Warn("invoice number collision, retrying", "tenant_id", tenantID, "timesheet_id", timesheetID)

		res, err = s.generate(ctx, ts, actingUserID)
	}

	if errors.Is(err, ErrTimesheetInvoiced) {
		existing, getErr := s.repo.GetByTimesheet(ctx, tenantID, timesheetID)
		if getErr != nil {
			return nil, fmt.Errorf("reading concurrently created invoice: %w", getErr)
		}

		res, err = &Result{Outcome: OutcomeAlreadyExists, Invoice: existing}, nil
	}

	if err != nil {
		metrics.InvoicesGenerated.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.InvoicesGenerated.WithLabelValues(string(res.Outcome)).Inc()

	if res.Created() {
		slog.Info("invoice generated",
			"tenant_id", tenantID,
			"invoice_id", res.Invoice.ID,
			"invoice_number", res.Invoice.InvoiceNumber,
			"timesheet_id", timesheetID,
		)
	}

	return res, nil
}

// generate runs one attempt of the locked check-number-insert section.
func (s *Service) generate(ctx context.Context, ts *timesheet.Timesheet, actingUserID uuid.UUID) (*Result, error) {
	gtx, err := s.repo.BeginGenerate(ctx, ts.TenantID)
	if err != nil {
		return nil, fmt.Errorf("begin generate: %w", err)
	}
	defer gtx.Rollback()

	existing, err := gtx.FindByTimesheet(ctx, ts.TenantID, ts.ID)
	if err == nil {
		return &Result{Outcome: OutcomeAlreadyExists, Invoice: existing}, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking existing invoice: %w", err)
	}

	p, err := s.loadParties(ctx, ts)
	if err != nil {
		return nil, err
	}

	inv := s.build(ts, p, actingUserID)

	prefix := numberPrefix(inv.InvoiceDate)

	latest, err := gtx.LatestNumber(ctx, ts.TenantID, prefix)
	if err != nil {
		return nil, fmt.Errorf("reading latest invoice number: %w", err)
	}

	inv.InvoiceNumber, err = nextNumber(prefix, latest)
	if err != nil {
		return nil, err
	}

	if err := gtx.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	if err := gtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit generate: %w", err)
	}

	return &Result{
		Outcome:  OutcomeCreated,
		Invoice:  inv,
		Employee: employeeData(p.employee),
		Client:   clientData(p.client),
		Vendor:   vendorData(p.vendor),
	}, nil
}

type parties struct {
	employee *directory.Employee
	client   *directory.Client
	vendor   *directory.Vendor
}

// loadParties reads the billed parties fresh from the directory. Client and vendor are
// optional; a dangling reference to either is dropped.
func (s *Service) loadParties(ctx context.Context, ts *timesheet.Timesheet) (parties, error) {
	var p parties

	emp, err := s.directory.GetEmployee(ctx, ts.TenantID, ts.EmployeeID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return p, ErrEmployeeNotFound
		}

		return p, fmt.Errorf("loading employee: %w", err)
	}

	p.employee = emp

	clientID := ts.ClientID
	if clientID == nil {
		clientID = emp.ClientID
	}

	if clientID != nil {
		p.client, err = optional(s.directory.GetClient(ctx, ts.TenantID, *clientID))
		if err != nil {
			return p, fmt.Errorf("loading client: %w", err)
		}
	}

	if emp.VendorID != nil {
		p.vendor, err = optional(s.directory.GetVendor(ctx, ts.TenantID, *emp.VendorID))
		if err != nil {
			return p, fmt.Errorf("loading vendor: %w", err)
		}
	}

	return p, nil
}

func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, directory.ErrNotFound) {
		return nil, nil
	}

	return v, err
}

func (s *Service) build(ts *timesheet.Timesheet, p parties, actingUserID uuid.UUID) *Invoice {
	rate := resolveRate(p.employee, p.client)
	subtotal := ts.TotalHours.Mul(rate).Round(2)
	tax := s.tax.Tax(ts.TenantID, subtotal).Round(2)

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	inv := &Invoice{
		TenantID:    ts.TenantID,
		InvoiceHash: newHash(ts.ID, now),
		TimesheetID: ts.ID,
		EmployeeID:  p.employee.ID,
		InvoiceDate: today,
		DueDate:     today.AddDate(0, 0, s.dueDays),
		LineItems: []LineItem{{
			Description: describe(p.employee, ts),
			Hours:       ts.TotalHours,
			Rate:        rate,
			Amount:      subtotal,
		}},
		Subtotal:      subtotal,
		TaxAmount:     tax,
		TotalAmount:   subtotal.Add(tax),
		Status:        StatusActive,
		PaymentStatus: PaymentPending,
		CreatedBy:     actingUserID,
	}

	if p.client != nil {
		inv.ClientID = &p.client.ID
	}

	if p.vendor != nil {
		inv.VendorID = &p.vendor.ID
	}

	return inv
}

// resolveRate prefers the employee's rate, then the client's. Zero is allowed and
// still produces an invoice.
func resolveRate(emp *directory.Employee, client *directory.Client) decimal.Decimal {
	if emp.HourlyRate != nil && emp.HourlyRate.IsPositive() {
		return *emp.HourlyRate
	}

	if client != nil && client.HourlyRate != nil && client.HourlyRate.IsPositive() {
		return *client.HourlyRate
	}

	return decimal.Zero
}

func describe(emp *directory.Employee, ts *timesheet.Timesheet) string {
	const layout = "Jan 02, 2006"

	return fmt.Sprintf("Timesheet for %s - %s - %s", emp.FullName(), ts.WeekStart.Format(layout), ts.WeekEnd.Format(layout))
}

func employeeData(e *directory.Employee) *EmployeeData {
	return &EmployeeData{
		ID:         e.ID,
		Name:       e.FullName(),
		Email:      e.Email,
		Title:      e.Title,
		Department: e.Department,
	}
}

func clientData(c *directory.Client) *ClientData {
	if c == nil {
		return nil
	}

	return &ClientData{ID: c.ID, Name: c.ClientName, Email: c.Email, BillingAddress: c.BillingAddress}
}

func vendorData(v *directory.Vendor) *VendorData {
	if v == nil {
		return nil
	}

	return &VendorData{ID: v.ID, Name: v.Name, Email: v.Email, Address: v.Address}
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, tenantID, id)
}

// GetByHash looks an invoice up by its public hash, across tenants.
func (s *Service) GetByHash(ctx context.Context, hash string) (*Invoice, error) {
	if len(hash) != hashLength {
		return nil, ErrNotFound
	}

	return s.repo.GetByHash(ctx, hash)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// CheckTimesheet returns the invoice billed for a timesheet, or ErrNotFound.
func (s *Service) CheckTimesheet(ctx context.Context, tenantID, timesheetID uuid.UUID) (*Invoice, error) {
	return s.repo.GetByTimesheet(ctx, tenantID, timesheetID)
}

// Details is an invoice with everything it was billed against, decrypted.
type Details struct {
	Invoice   *Invoice
	Timesheet *timesheet.Timesheet
	Employee  *directory.Employee
	Client    *directory.Client
	Vendor    *directory.Vendor
}

func (s *Service) GetWithDetails(ctx context.Context, tenantID, id uuid.UUID) (*Details, error) {
	inv, err := s.repo.GetInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	d := &Details{Invoice: inv}

	d.Employee, err = optional(s.directory.GetEmployee(ctx, tenantID, inv.EmployeeID))
	if err != nil {
		return nil, fmt.Errorf("loading employee: %w", err)
	}

	ts, err := s.timesheets.Get(ctx, tenantID, inv.TimesheetID)
	switch {
	case err == nil:
		d.Timesheet = ts
	case !errors.Is(err, timesheet.ErrNotFound):
		return nil, fmt.Errorf("loading timesheet: %w", err)
	}

	if inv.ClientID != nil {
		d.Client, err = optional(s.directory.GetClient(ctx, tenantID, *inv.ClientID))
		if err != nil {
			return nil, fmt.Errorf("loading client: %w", err)
		}
	}

	if inv.VendorID != nil {
		d.Vendor, err = optional(s.directory.GetVendor(ctx, tenantID, *inv.VendorID))
		if err != nil {
			return nil, fmt.Errorf("loading vendor: %w", err)
		}
	}

	return d, nil
}

// Approve accepts an active invoice. Non-empty notes replace the invoice notes.
func (s *Service) Approve(ctx context.Context, tenantID, id, approvedBy uuid.UUID, notes string) (*Invoice, error) {
	return s.transition(ctx, tenantID, id, []Status{StatusActive}, func(inv *Invoice) {
		inv.Status = StatusApproved
		inv.ApprovedBy = &approvedBy
		inv.ApprovedAt = new(s.now())

		if notes != "" {
			inv.Notes = notes
		}
	})
}

func (s *Service) Reject(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error) {
	return s.transition(ctx, tenantID, id, []Status{StatusActive, StatusApproved}, func(inv *Invoice) {
		inv.Status = StatusRejected
	})
}

type PaymentUpdate struct {
	Status PaymentStatus
	Date   *time.Time
	Method string
}

// UpdatePayment records the payment state. Marking an invoice paid without a date uses today.
func (s *Service) UpdatePayment(ctx context.Context, tenantID, id uuid.UUID, upd PaymentUpdate) (*Invoice, error) {
	if !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, upd.Status)
	}

	return s.transition(ctx, tenantID, id, nil, func(inv *Invoice) {
		inv.PaymentStatus = upd.Status
		inv.PaymentMethod = upd.Method
		inv.PaymentDate = upd.Date

		if upd.Status == PaymentPaid && upd.Date == nil {
			now := s.now().UTC()
			inv.PaymentDate = new(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
		}
	})
}

// transition applies change to the invoice if its status is one of allowed. A nil
// allowed accepts any status.
func (s *Service) transition(ctx context.Context, tenantID, id uuid.UUID, allowed []Status, change func(*Invoice)) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	from := inv.Status
	if allowed != nil && !slices.Contains(allowed, from) {
		return nil, fmt.Errorf("%w: invoice is %s", ErrInvalidTransition, from)
	}

	change(inv)

	if err := s.repo.UpdateInvoice(ctx, inv, from); err != nil {
		return nil, err
	}

	return inv, nil
}
