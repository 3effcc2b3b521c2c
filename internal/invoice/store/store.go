package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timepulse/internal/database"
	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Store struct {
	db    *sql.DB
	codec *fieldcrypt.Codec
}

func New(db *sql.DB, codec *fieldcrypt.Codec) *Store {
	return &Store{db: db, codec: codec}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	id, tenant_id, invoice_number, invoice_hash, timesheet_id, employee_id, client_id, vendor_id,
	invoice_date, due_date, line_items, subtotal, tax_amount, total_amount, status, payment_status,
	payment_date, payment_method, notes, created_by, approved_by, approved_at, created_at, updated_at
`

func scanInvoice(codec *fieldcrypt.Codec, sc scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var status, paymentStatus, lineItems string

	var paymentMethod, notes sql.NullString

	if err := sc.Scan(
		&inv.ID, &inv.TenantID, &inv.InvoiceNumber, &inv.InvoiceHash, &inv.TimesheetID, &inv.EmployeeID,
		&inv.ClientID, &inv.VendorID, &inv.InvoiceDate, &inv.DueDate, &lineItems, &inv.Subtotal,
		&inv.TaxAmount, &inv.TotalAmount, &status, &paymentStatus, &inv.PaymentDate, &paymentMethod,
		&notes, &inv.CreatedBy, &inv.ApprovedBy, &inv.ApprovedAt, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(status)
	inv.PaymentStatus = invoice.PaymentStatus(paymentStatus)
	inv.PaymentMethod = paymentMethod.String

	if notes.Valid {
		inv.Notes = codec.Decrypt(notes.String)
	}

	if err := codec.DecryptJSON(lineItems, &inv.LineItems); err != nil {
		slog.Warn("invoice line items unreadable", "invoice_id", inv.ID, "error", err)
	}

	return &inv, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func nullableID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}

	return id
}

func getOne(ctx context.Context, q querier, codec *fieldcrypt.Codec, where string, args ...any) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE ` + where

	inv, err := scanInvoice(codec, q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	return getOne(ctx, s.db, s.codec, `tenant_id = $1 AND id = $2`, tenantID, id)
}

func (s *Store) GetByHash(ctx context.Context, hash string) (*invoice.Invoice, error) {
	return getOne(ctx, s.db, s.codec, `invoice_hash = $1`, hash)
}

func (s *Store) GetByTimesheet(ctx context.Context, tenantID, timesheetID uuid.UUID) (*invoice.Invoice, error) {
	return getOne(ctx, s.db, s.codec, `tenant_id = $1 AND timesheet_id = $2`, tenantID, timesheetID)
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE tenant_id = $1`

	args := []any{filter.TenantID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if filter.PaymentStatus != nil {
		args = append(args, *filter.PaymentStatus)
		query += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}

	query += " ORDER BY invoice_date DESC, invoice_number DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(s.codec, rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice, from invoice.Status) error {
	seal := s.codec.Sealer()
	notes := nullable(seal.String(inv.Notes))

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting invoice: %w", err)
	}

	query := `
		UPDATE invoices
		SET status = $1, payment_status = $2, payment_date = $3, payment_method = $4, notes = $5,
			approved_by = $6, approved_at = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9 AND status = $10
	`

	res, err := s.db.ExecContext(ctx, query,
		inv.Status, inv.PaymentStatus, inv.PaymentDate, nullable(inv.PaymentMethod), notes,
		inv.ApprovedBy, inv.ApprovedAt, inv.TenantID, inv.ID, from,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: invoice %s is no longer %s", invoice.ErrInvalidTransition, inv.ID, from)
	}

	return nil
}

func numberLockKey(tenantID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("invoice-number"))
	h.Write([]byte{0})
	h.Write(tenantID[:])

	return int64(h.Sum64())
}

type generateTx struct {
	tx    *sql.Tx
	codec *fieldcrypt.Codec
}

// BeginGenerate serializes invoice numbering per tenant with a transaction-scoped
// advisory lock. The lock is released on commit or rollback.
func (s *Store) BeginGenerate(ctx context.Context, tenantID uuid.UUID) (invoice.GenerateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning generate tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", numberLockKey(tenantID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring invoice number lock: %w", err)
	}

	return &generateTx{tx: dbTx, codec: s.codec}, nil
}

func (g *generateTx) Commit() error   { return g.tx.Commit() }
func (g *generateTx) Rollback() error { return g.tx.Rollback() }

func (g *generateTx) FindByTimesheet(ctx context.Context, tenantID, timesheetID uuid.UUID) (*invoice.Invoice, error) {
	return getOne(ctx, g.tx, g.codec, `tenant_id = $1 AND timesheet_id = $2`, tenantID, timesheetID)
}

// LatestNumber orders by length first so INV-2025-100000 sorts after INV-2025-99999.
func (g *generateTx) LatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	query := `
		SELECT invoice_number FROM invoices
		WHERE tenant_id = $1 AND invoice_number LIKE $2
		ORDER BY length(invoice_number) DESC, invoice_number DESC
		LIMIT 1
	`

	var number string
	if err := g.tx.QueryRowContext(ctx, query, tenantID, prefix+"%").Scan(&number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("querying latest invoice number: %w", err)
	}

	return number, nil
}

func (g *generateTx) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	seal := g.codec.Sealer()
	lineItems := seal.JSON(inv.LineItems)
	notes := nullable(seal.String(inv.Notes))

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting invoice: %w", err)
	}

	query := `
		INSERT INTO invoices (tenant_id, invoice_number, invoice_hash, timesheet_id, employee_id, client_id,
			vendor_id, invoice_date, due_date, line_items, subtotal, tax_amount, total_amount, status,
			payment_status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := g.tx.QueryRowContext(ctx, query,
		inv.TenantID, inv.InvoiceNumber, inv.InvoiceHash, inv.TimesheetID, inv.EmployeeID, inv.ClientID,
		inv.VendorID, inv.InvoiceDate, inv.DueDate, lineItems, inv.Subtotal, inv.TaxAmount, inv.TotalAmount,
		inv.Status, inv.PaymentStatus, notes, nullableID(inv.CreatedBy),
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			switch constraint {
			case "invoices_tenant_number_key", "invoices_invoice_hash_key":
				return invoice.ErrNumberCollision
			case "invoices_timesheet_id_key":
				return invoice.ErrTimesheetInvoiced
			}
		}

		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}
