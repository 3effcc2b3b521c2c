package backfill_test

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timepulse/internal/backfill"
	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
)

func setup(t *testing.T) (*fieldcrypt.Codec, sqlmock.Sqlmock, *backfill.Backfiller) {
	t.Helper()

	return newBackfiller(t, nil, fieldcrypt.Vendor, fieldcrypt.Employee)
}

func newBackfiller(t *testing.T, opts []fieldcrypt.Option, entities ...fieldcrypt.Entity) (*fieldcrypt.Codec, sqlmock.Sqlmock, *backfill.Backfiller) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	key, err := fieldcrypt.DeriveKey("backfill-test", fieldcrypt.DefaultSalt)
	require.NoError(t, err)

	codec, err := fieldcrypt.New(key, opts...)
	require.NoError(t, err)

	return codec, mock, backfill.New(db, codec, entities...)
}

var (
	vendorColumns   = append([]string{"id"}, fieldcrypt.Vendor.Fields.Columns()...)
	employeeColumns = append([]string{"id"}, fieldcrypt.Employee.Fields.Columns()...)
	invoiceColumns  = append([]string{"id"}, fieldcrypt.Invoice.Fields.Columns()...)
)

// legacyTaxID is CryptoJS.AES.encrypt("99-1234567", "timepulse-encryption-key").
const legacyTaxID = "U2FsdGVkX1/q1LWwUzOMkGSMmVOniHFd6+Lrdk9wXog="

func wrap(inner string) string {
	return `{"_encrypted":"` + inner + `"}`
}

// opensTo matches a ciphertext argument that decrypts to want.
type opensTo struct {
	codec *fieldcrypt.Codec
	want  string
}

func (o opensTo) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && fieldcrypt.IsEncrypted(s) && o.codec.Decrypt(s) == o.want
}

func seal(t *testing.T, codec *fieldcrypt.Codec, s string) string {
	t.Helper()

	out, err := codec.Encrypt(s)
	require.NoError(t, err)

	return out
}

func TestBackfiller_Status(t *testing.T) {
	codec, mock, b := setup(t)

	mock.ExpectQuery(`SELECT id, name, email, phone, contact_person, address, tax_id FROM vendors`).
		WillReturnRows(sqlmock.NewRows(vendorColumns).
			AddRow(uuid.NewString(), seal(t, codec, "Staffing Co"), "ap@staffing.test", nil, nil, "", nil).
			AddRow(uuid.NewString(), "Legacy Vendor", seal(t, codec, "x@y.test"), nil, nil, nil, "U2FsdGVkX1+legacy"))
	mock.ExpectQuery(`FROM employees`).
		WillReturnRows(sqlmock.NewRows(employeeColumns))

	report, err := b.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, report, len(fieldcrypt.Vendor.Fields)+len(fieldcrypt.Employee.Fields))

	name := report[0]
	assert.Equal(t, "vendors", name.Table)
	assert.Equal(t, "name", name.Column)
	assert.Equal(t, 1, name.Encrypted)
	assert.Equal(t, 1, name.Plaintext)

	email := report[1]
	assert.Equal(t, 1, email.Encrypted)
	assert.Equal(t, 1, email.Plaintext)

	address := report[4]
	assert.Equal(t, 2, address.Empty)

	taxID := report[5]
	assert.Equal(t, 0, taxID.Encrypted)
	assert.Equal(t, 1, taxID.Legacy)
	assert.Equal(t, 1, taxID.Empty)
}

func TestBackfiller_StatusWrappedJSON(t *testing.T) {
	codec, mock, b := newBackfiller(t, nil, fieldcrypt.Invoice)

	items, err := codec.EncryptJSON([]map[string]any{{"description": "Consulting", "hours": 10}})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, notes, line_items FROM invoices`).
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow(uuid.NewString(), nil, wrap(items)).
			AddRow(uuid.NewString(), nil, items).
			AddRow(uuid.NewString(), nil, `[{"description":"Consulting","hours":10}]`))

	report, err := b.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 2)

	lineItems := report[1]
	assert.Equal(t, "line_items", lineItems.Column)
	assert.Equal(t, 1, lineItems.Legacy)
	assert.Equal(t, 1, lineItems.Encrypted)
	assert.Equal(t, 1, lineItems.Plaintext)
}

func TestBackfiller_Run(t *testing.T) {
	vendorID := uuid.New()
	employeeID := uuid.New()

	t.Run("EncryptsPlaintextOnly", func(t *testing.T) {
		codec, mock, b := setup(t)

		alreadySealed := seal(t, codec, "ap@staffing.test")

		mock.ExpectQuery(`FROM vendors`).
			WillReturnRows(sqlmock.NewRows(vendorColumns).
				AddRow(vendorID.String(), "Staffing Co", alreadySealed, nil, nil, nil, "99-1234567"))
		mock.ExpectExec(`UPDATE vendors SET name = \$1, tax_id = \$2 WHERE id = \$3`).
			WithArgs(opensTo{codec, "Staffing Co"}, opensTo{codec, "99-1234567"}, vendorID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`FROM employees`).
			WillReturnRows(sqlmock.NewRows(employeeColumns).
				AddRow(employeeID.String(), "Jane", "Doe", nil, nil, nil, "60", nil))
		mock.ExpectExec(`UPDATE employees SET first_name = \$1, last_name = \$2, hourly_rate = \$3 WHERE id = \$4`).
			WithArgs(opensTo{codec, "Jane"}, opensTo{codec, "Doe"}, opensTo{codec, "60"}, employeeID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		results, err := b.Run(context.Background(), false)
		require.NoError(t, err)

		assert.Equal(t, []backfill.TableResult{
			{Table: "vendors", Rows: 1, Fields: 2},
			{Table: "employees", Rows: 1, Fields: 3},
		}, results)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DryRunWritesNothing", func(t *testing.T) {
		_, mock, b := setup(t)

		mock.ExpectQuery(`FROM vendors`).
			WillReturnRows(sqlmock.NewRows(vendorColumns).
				AddRow(vendorID.String(), "Staffing Co", nil, nil, nil, nil, nil))
		mock.ExpectQuery(`FROM employees`).
			WillReturnRows(sqlmock.NewRows(employeeColumns))

		results, err := b.Run(context.Background(), true)
		require.NoError(t, err)

		assert.Equal(t, 1, results[0].Fields)
		assert.Equal(t, 0, results[1].Rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("UnwrapsWrappedCiphertext", func(t *testing.T) {
		invoiceID := uuid.New()
		codec, mock, b := newBackfiller(t, nil, fieldcrypt.Invoice)

		type lineItem struct {
			Description string  `json:"description"`
			Hours       float64 `json:"hours"`
		}

		want := []lineItem{{Description: "Consulting", Hours: 10}}

		items, err := codec.EncryptJSON(want)
		require.NoError(t, err)

		mock.ExpectQuery(`FROM invoices`).
			WillReturnRows(sqlmock.NewRows(invoiceColumns).
				AddRow(invoiceID.String(), nil, wrap(items)))
		mock.ExpectExec(`UPDATE invoices SET line_items = \$1 WHERE id = \$2`).
			WithArgs(items, invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		results, err := b.Run(context.Background(), false)
		require.NoError(t, err)

		assert.Equal(t, []backfill.TableResult{
			{Table: "invoices", Rows: 1, Fields: 1, Resealed: 1},
		}, results)
		assert.NoError(t, mock.ExpectationsWereMet())

		var got []lineItem
		require.NoError(t, codec.DecryptJSON(items, &got))
		assert.Equal(t, want, got)
	})

	t.Run("EncryptsWrappedPlaintext", func(t *testing.T) {
		invoiceID := uuid.New()
		codec, mock, b := newBackfiller(t, nil, fieldcrypt.Invoice)

		const raw = `[{"description":"Consulting","hours":10}]`

		mock.ExpectQuery(`FROM invoices`).
			WillReturnRows(sqlmock.NewRows(invoiceColumns).
				AddRow(invoiceID.String(), "Net 30", `{"_encrypted":"[{\"description\":\"Consulting\",\"hours\":10}]"}`))
		mock.ExpectExec(`UPDATE invoices SET notes = \$1, line_items = \$2 WHERE id = \$3`).
			WithArgs(opensTo{codec, "Net 30"}, opensTo{codec, raw}, invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		results, err := b.Run(context.Background(), false)
		require.NoError(t, err)

		assert.Equal(t, []backfill.TableResult{
			{Table: "invoices", Rows: 1, Fields: 2, Resealed: 1},
		}, results)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ResealsLegacyCiphertext", func(t *testing.T) {
		codec, mock, b := newBackfiller(t,
			[]fieldcrypt.Option{fieldcrypt.WithLegacyPassphrases("timepulse-encryption-key")},
			fieldcrypt.Vendor,
		)

		mock.ExpectQuery(`FROM vendors`).
			WillReturnRows(sqlmock.NewRows(vendorColumns).
				AddRow(vendorID.String(), seal(t, codec, "Staffing Co"), nil, nil, nil, nil, legacyTaxID))
		mock.ExpectExec(`UPDATE vendors SET tax_id = \$1 WHERE id = \$2`).
			WithArgs(opensTo{codec, "99-1234567"}, vendorID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		results, err := b.Run(context.Background(), false)
		require.NoError(t, err)

		assert.Equal(t, []backfill.TableResult{
			{Table: "vendors", Rows: 1, Fields: 1, Resealed: 1},
		}, results)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeepsUnopenableLegacyCiphertext", func(t *testing.T) {
		_, mock, b := newBackfiller(t, nil, fieldcrypt.Vendor)

		mock.ExpectQuery(`FROM vendors`).
			WillReturnRows(sqlmock.NewRows(vendorColumns).
				AddRow(vendorID.String(), nil, nil, nil, nil, nil, legacyTaxID))

		results, err := b.Run(context.Background(), false)
		require.NoError(t, err)

		assert.Equal(t, []backfill.TableResult{{Table: "vendors"}}, results)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
