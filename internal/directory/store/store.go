package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timepulse/internal/database"
	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
)

// Store persists directory records. Every column listed in the fieldcrypt entity
// declarations is sealed before it is written and opened after it is read, so the
// ORDER BY of encrypted columns is meaningless; lists are sorted after decryption.
type Store struct {
	db    *sql.DB
	codec *fieldcrypt.Codec
}

func New(db *sql.DB, codec *fieldcrypt.Codec) *Store {
	return &Store{db: db, codec: codec}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func (s *Store) open(v sql.NullString) string {
	if !v.Valid {
		return ""
	}

	return s.codec.Decrypt(v.String)
}

const selectEmployeeColumns = `
	id, tenant_id, first_name, last_name, email, phone, contact_info, title, department,
	hourly_rate, salary_amount, vendor_id, client_id, created_at, updated_at
`

func (s *Store) scanEmployee(sc scanner) (*directory.Employee, error) {
	var e directory.Employee

	var email, phone, contact, title, department, rate, salary sql.NullString

	if err := sc.Scan(
		&e.ID, &e.TenantID, &e.FirstName, &e.LastName, &email, &phone, &contact, &title, &department,
		&rate, &salary, &e.VendorID, &e.ClientID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.FirstName = s.codec.Decrypt(e.FirstName)
	e.LastName = s.codec.Decrypt(e.LastName)
	e.Email = s.open(email)
	e.Phone = s.open(phone)
	e.ContactInfo = s.open(contact)
	e.Title = title.String
	e.Department = department.String
	e.HourlyRate = s.codec.DecryptNullNumber(rate)
	e.SalaryAmount = s.codec.DecryptNullNumber(salary)

	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e *directory.Employee) error {
	seal := s.codec.Sealer()
	args := []any{
		e.TenantID,
		seal.String(e.FirstName),
		seal.String(e.LastName),
		nullable(seal.String(e.Email)),
		nullable(seal.String(e.Phone)),
		nullable(seal.String(e.ContactInfo)),
		nullable(e.Title),
		nullable(e.Department),
		seal.OptNumber(e.HourlyRate),
		seal.OptNumber(e.SalaryAmount),
		e.VendorID,
		e.ClientID,
	}

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting employee: %w", err)
	}

	query := `
		INSERT INTO employees (tenant_id, first_name, last_name, email, phone, contact_info, title, department,
			hourly_rate, salary_amount, vendor_id, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if database.ForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown vendor or client", directory.ErrInvalid)
		}

		return fmt.Errorf("creating employee: %w", err)
	}

	return nil
}

func (s *Store) GetEmployee(ctx context.Context, tenantID, id uuid.UUID) (*directory.Employee, error) {
	query := `SELECT ` + selectEmployeeColumns + ` FROM employees WHERE tenant_id = $1 AND id = $2`

	e, err := s.scanEmployee(s.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting employee: %w", err)
	}

	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]*directory.Employee, error) {
	query := `SELECT ` + selectEmployeeColumns + ` FROM employees WHERE tenant_id = $1`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []*directory.Employee

	for rows.Next() {
		e, err := s.scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}

		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}

	slices.SortFunc(employees, func(a, b *directory.Employee) int {
		return cmp.Compare(strings.ToLower(a.FullName()), strings.ToLower(b.FullName()))
	})

	return employees, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, tenantID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if database.ForeignKeyViolation(err) {
			return directory.ErrInUse
		}

		return fmt.Errorf("deleting employee: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	if n == 0 {
		return directory.ErrNotFound
	}

	return nil
}

const selectClientColumns = `
	id, tenant_id, client_name, legal_name, contact_person, email, phone, billing_address,
	shipping_address, tax_id, hourly_rate, payment_terms, created_at, updated_at
`

func (s *Store) scanClient(sc scanner) (*directory.Client, error) {
	var c directory.Client

	var legal, contact, email, phone, billing, shipping, taxID, rate sql.NullString

	if err := sc.Scan(
		&c.ID, &c.TenantID, &c.ClientName, &legal, &contact, &email, &phone, &billing,
		&shipping, &taxID, &rate, &c.PaymentTerms, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.ClientName = s.codec.Decrypt(c.ClientName)
	c.LegalName = s.open(legal)
	c.ContactPerson = s.open(contact)
	c.Email = s.open(email)
	c.Phone = s.open(phone)
	c.BillingAddress = s.open(billing)
	c.ShippingAddress = s.open(shipping)
	c.TaxID = s.open(taxID)
	c.HourlyRate = s.codec.DecryptNullNumber(rate)

	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, c *directory.Client) error {
	seal := s.codec.Sealer()
	args := []any{
		c.TenantID,
		seal.String(c.ClientName),
		nullable(seal.String(c.LegalName)),
		nullable(seal.String(c.ContactPerson)),
		nullable(seal.String(c.Email)),
		nullable(seal.String(c.Phone)),
		nullable(seal.String(c.BillingAddress)),
		nullable(seal.String(c.ShippingAddress)),
		nullable(seal.String(c.TaxID)),
		seal.OptNumber(c.HourlyRate),
		c.PaymentTerms,
	}

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting client: %w", err)
	}

	query := `
		INSERT INTO clients (tenant_id, client_name, legal_name, contact_person, email, phone, billing_address,
			shipping_address, tax_id, hourly_rate, payment_terms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Store) GetClient(ctx context.Context, tenantID, id uuid.UUID) (*directory.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients WHERE tenant_id = $1 AND id = $2`

	c, err := s.scanClient(s.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return c, nil
}

func (s *Store) ListClients(ctx context.Context, tenantID uuid.UUID) ([]*directory.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients WHERE tenant_id = $1`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*directory.Client

	for rows.Next() {
		c, err := s.scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}

	slices.SortFunc(clients, func(a, b *directory.Client) int {
		return cmp.Compare(strings.ToLower(a.ClientName), strings.ToLower(b.ClientName))
	})

	return clients, nil
}

const selectVendorColumns = `
	id, tenant_id, name, email, phone, contact_person, address, tax_id, payment_terms, created_at, updated_at
`

func (s *Store) scanVendor(sc scanner) (*directory.Vendor, error) {
	var v directory.Vendor

	var email, phone, contact, address, taxID sql.NullString

	if err := sc.Scan(
		&v.ID, &v.TenantID, &v.Name, &email, &phone, &contact, &address, &taxID,
		&v.PaymentTerms, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}

	v.Name = s.codec.Decrypt(v.Name)
	v.Email = s.open(email)
	v.Phone = s.open(phone)
	v.ContactPerson = s.open(contact)
	v.Address = s.open(address)
	v.TaxID = s.open(taxID)

	return &v, nil
}

func (s *Store) CreateVendor(ctx context.Context, v *directory.Vendor) error {
	seal := s.codec.Sealer()
	args := []any{
		v.TenantID,
		seal.String(v.Name),
		nullable(seal.String(v.Email)),
		nullable(seal.String(v.Phone)),
		nullable(seal.String(v.ContactPerson)),
		nullable(seal.String(v.Address)),
		nullable(seal.String(v.TaxID)),
		v.PaymentTerms,
	}

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting vendor: %w", err)
	}

	query := `
		INSERT INTO vendors (tenant_id, name, email, phone, contact_person, address, tax_id, payment_terms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("creating vendor: %w", err)
	}

	return nil
}

func (s *Store) GetVendor(ctx context.Context, tenantID, id uuid.UUID) (*directory.Vendor, error) {
	query := `SELECT ` + selectVendorColumns + ` FROM vendors WHERE tenant_id = $1 AND id = $2`

	v, err := s.scanVendor(s.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting vendor: %w", err)
	}

	return v, nil
}

func (s *Store) ListVendors(ctx context.Context, tenantID uuid.UUID) ([]*directory.Vendor, error) {
	query := `SELECT ` + selectVendorColumns + ` FROM vendors WHERE tenant_id = $1`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*directory.Vendor

	for rows.Next() {
		v, err := s.scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}

		vendors = append(vendors, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vendors: %w", err)
	}

	slices.SortFunc(vendors, func(a, b *directory.Vendor) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return vendors, nil
}

const selectPartnerColumns = `id, tenant_id, name, email, phone, contact_person, created_at, updated_at`

func (s *Store) scanPartner(sc scanner) (*directory.ImplementationPartner, error) {
	var p directory.ImplementationPartner

	var email, phone, contact sql.NullString

	if err := sc.Scan(&p.ID, &p.TenantID, &p.Name, &email, &phone, &contact, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	p.Name = s.codec.Decrypt(p.Name)
	p.Email = s.open(email)
	p.Phone = s.open(phone)
	p.ContactPerson = s.open(contact)

	return &p, nil
}

func (s *Store) CreatePartner(ctx context.Context, p *directory.ImplementationPartner) error {
	seal := s.codec.Sealer()
	args := []any{
		p.TenantID,
		seal.String(p.Name),
		nullable(seal.String(p.Email)),
		nullable(seal.String(p.Phone)),
		nullable(seal.String(p.ContactPerson)),
	}

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting partner: %w", err)
	}

	query := `
		INSERT INTO implementation_partners (tenant_id, name, email, phone, contact_person, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("creating partner: %w", err)
	}

	return nil
}

func (s *Store) GetPartner(ctx context.Context, tenantID, id uuid.UUID) (*directory.ImplementationPartner, error) {
	query := `SELECT ` + selectPartnerColumns + ` FROM implementation_partners WHERE tenant_id = $1 AND id = $2`

	p, err := s.scanPartner(s.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting partner: %w", err)
	}

	return p, nil
}

func (s *Store) ListPartners(ctx context.Context, tenantID uuid.UUID) ([]*directory.ImplementationPartner, error) {
	query := `SELECT ` + selectPartnerColumns + ` FROM implementation_partners WHERE tenant_id = $1`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing partners: %w", err)
	}
	defer rows.Close()

	var partners []*directory.ImplementationPartner

	for rows.Next() {
		p, err := s.scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning partner: %w", err)
		}

		partners = append(partners, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating partners: %w", err)
	}

	slices.SortFunc(partners, func(a, b *directory.ImplementationPartner) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return partners, nil
}
