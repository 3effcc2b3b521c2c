// Package pdf renders invoices as A4 PDF documents.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
)

type Party struct {
	Name    string
	Email   string
	Address string
}

// Document holds the plaintext content of one rendered invoice.
type Document struct {
	Number        string
	InvoiceDate   time.Time
	DueDate       time.Time
	BillTo        Party
	Vendor        *Party
	Employee      string
	LineItems     []invoice.LineItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentStatus invoice.PaymentStatus
	Notes         string
}

// FromDetails builds a Document from a decrypted invoice and its parties.
func FromDetails(d *invoice.Details) Document {
	doc := Document{
		Number:        d.Invoice.InvoiceNumber,
		InvoiceDate:   d.Invoice.InvoiceDate,
		DueDate:       d.Invoice.DueDate,
		LineItems:     d.Invoice.LineItems,
		Subtotal:      d.Invoice.Subtotal,
		Tax:           d.Invoice.TaxAmount,
		Total:         d.Invoice.TotalAmount,
		PaymentStatus: d.Invoice.PaymentStatus,
		Notes:         d.Invoice.Notes,
	}

	if d.Employee != nil {
		doc.Employee = d.Employee.FullName()
	}

	if d.Client != nil {
		doc.BillTo = Party{Name: d.Client.ClientName, Email: d.Client.Email, Address: d.Client.BillingAddress}
	}

	if d.Vendor != nil {
		doc.Vendor = &Party{Name: d.Vendor.Name, Email: d.Vendor.Email, Address: d.Vendor.Address}
	}

	return doc
}

const dateLayout = "Jan 02, 2006"

var printer = message.NewPrinter(language.English)

func money(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.InexactFloat64())
}

// text converts s to cp1252 for the core PDF fonts. Characters outside it are replaced.
func text(s string) string {
	out, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).String(s)
	if err != nil {
		return s
	}

	return out
}

// Render writes doc to w as a single page invoice with a line item table.
func Render(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Number, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, text("Invoice "+doc.Number))
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 10, text("Status: "+string(doc.PaymentStatus)), "", 1, "R", false, 0, "")

	pdf.Cell(40, 6, "Invoice date:")
	pdf.Cell(60, 6, doc.InvoiceDate.Format(dateLayout))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Due date:")
	pdf.Cell(60, 6, doc.DueDate.Format(dateLayout))
	pdf.Ln(12)

	top := pdf.GetY()

	party(pdf, 10, top, "Bill To:", doc.BillTo)

	if doc.Vendor != nil {
		party(pdf, 110, top, "Vendor:", *doc.Vendor)
	}

	pdf.SetXY(10, top+32)

	if doc.Employee != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(40, 6, text("Consultant: "+doc.Employee))
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(100, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Hours", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Rate", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)

	for _, li := range doc.LineItems {
		pdf.CellFormat(100, 8, text(li.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, li.Hours.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, money(li.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(li.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	total(pdf, "Subtotal:", doc.Subtotal)
	total(pdf, "Tax:", doc.Tax)
	pdf.SetFont("Arial", "B", 12)
	total(pdf, "Total:", doc.Total)

	if doc.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(190, 5, text(doc.Notes), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering invoice %s: %w", doc.Number, err)
	}

	return nil
}

func party(pdf *gofpdf.Fpdf, x, y float64, title string, p Party) {
	pdf.SetXY(x, y)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 6, title)

	pdf.SetFont("Arial", "", 10)

	for i, line := range []string{p.Name, p.Address, p.Email} {
		if line == "" {
			continue
		}

		pdf.SetXY(x, y+6*float64(i+1))
		pdf.Cell(90, 6, text(line))
	}
}

func total(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.Cell(155, 7, label)
	pdf.CellFormat(35, 7, money(amount), "", 1, "R", false, 0, "")
}
