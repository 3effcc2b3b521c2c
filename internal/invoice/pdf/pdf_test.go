package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$2,400.00", money(decimal.NewFromInt(2400)))
	assert.Equal(t, "$0.00", money(decimal.Zero))
	assert.Equal(t, "$1,234,567.89", money(decimal.RequireFromString("1234567.89")))
}

func TestText(t *testing.T) {
	assert.Equal(t, "Jane Doe", text("Jane Doe"))
	// é is 0xE9 in cp1252.
	assert.Equal(t, "Ren\xe9e", text("Renée"))
	assert.NotContains(t, text("Zoë 李"), "李")
}

func TestFromDetails(t *testing.T) {
	vendorID := uuid.New()
	d := &invoice.Details{
		Invoice: &invoice.Invoice{
			InvoiceNumber: "INV-2025-00001",
			TotalAmount:   decimal.NewFromInt(2400),
			VendorID:      &vendorID,
		},
		Employee: &directory.Employee{FirstName: "Jane", LastName: "Doe"},
		Client:   &directory.Client{ClientName: "Acme", BillingAddress: "1 Main St"},
		Vendor:   &directory.Vendor{ID: vendorID, Name: "Staffing Co"},
	}

	doc := FromDetails(d)
	assert.Equal(t, "INV-2025-00001", doc.Number)
	assert.Equal(t, "Jane Doe", doc.Employee)
	assert.Equal(t, "1 Main St", doc.BillTo.Address)
	require.NotNil(t, doc.Vendor)
	assert.Equal(t, "Staffing Co", doc.Vendor.Name)
}

func TestRender(t *testing.T) {
	day := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	doc := Document{
		Number:      "INV-2025-00001",
		InvoiceDate: day,
		DueDate:     day.AddDate(0, 0, 30),
		BillTo:      Party{Name: "Acme", Address: "1 Main St"},
		Employee:    "Renée Doe",
		LineItems: []invoice.LineItem{{
			Description: "Timesheet for Renée Doe - Jan 06, 2025 - Jan 12, 2025",
			Hours:       decimal.NewFromInt(40),
			Rate:        decimal.NewFromInt(60),
			Amount:      decimal.NewFromInt(2400),
		}},
		Subtotal:      decimal.NewFromInt(2400),
		Tax:           decimal.Zero,
		Total:         decimal.NewFromInt(2400),
		PaymentStatus: invoice.PaymentPending,
		Notes:         "Thank you",
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}
