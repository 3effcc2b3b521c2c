package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStatePayment
)

// paymentFilters are cycled with 'p'. The empty value lists every invoice.
var paymentFilters = []invoice.PaymentStatus{
	"",
	invoice.PaymentPending,
	invoice.PaymentOverdue,
	invoice.PaymentPaid,
	invoice.PaymentCancelled,
}

// ExportInvoiceMsg asks for the PDF export of an invoice.
type ExportInvoiceMsg struct {
	Invoice *invoice.Invoice
}

type InvoicesModel struct {
	CommonModel
	invoices *invoice.Service

	state    invoicesState
	table    table.Model
	list     []*invoice.Invoice
	form     *huh.Form
	filterAt int

	loading bool
	err     error
	status  string
}

func NewInvoicesModel(session Session, invoices *invoice.Service) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 16},
		{Title: "Date", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Hours", Width: 8},
		{Title: "Total", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Payment", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return InvoicesModel{
		CommonModel: CommonModel{Session: session},
		invoices:    invoices,
		table:       t,
		loading:     true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state == invoicesStatePayment {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: approve | x: reject | m: payment | e: export PDF | p: payment filter | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.list = msg.invoices
			m.refreshTable()
		}

		return m, nil

	case invoiceUpdatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("%s is now %s / %s", msg.invoice.InvoiceNumber, msg.invoice.Status, msg.invoice.PaymentStatus)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == invoicesStatePayment {
		return m.updatePayment(msg)
	}

	return m.updateBrowse(msg)
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.list) {
		return nil
	}

	return m.list[idx]
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			m.filterAt = (m.filterAt + 1) % len(paymentFilters)
			m.loading = true

			return m, m.loadCmd()
		case "a":
			if inv := m.selected(); inv != nil {
				return m, m.approveCmd(inv.ID)
			}
		case "x":
			if inv := m.selected(); inv != nil {
				return m, m.rejectCmd(inv.ID)
			}
		case "m":
			if inv := m.selected(); inv != nil {
				m.form = buildPaymentForm(inv)
				m.state = invoicesStatePayment
				m.table.Blur()

				return m, m.form.Init()
			}
		case "e", "enter":
			if inv := m.selected(); inv != nil {
				return m, func() tea.Msg { return ExportInvoiceMsg{Invoice: inv} }
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func buildPaymentForm(inv *invoice.Invoice) *huh.Form {
	options := make([]huh.Option[string], 0, len(paymentFilters)-1)
	for _, ps := range paymentFilters[1:] {
		options = append(options, huh.NewOption(string(ps), string(ps)))
	}

	date := ""
	if inv.PaymentDate != nil {
		date = FormatDate(*inv.PaymentDate)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Payment Status").
				Options(options...),
			huh.NewInput().
				Key("date").
				Title("Payment Date").
				Description("Empty uses today when marking paid").
				Placeholder(date).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}

					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return errors.New("use YYYY-MM-DD")
					}

					return nil
				}),
			huh.NewInput().
				Key("method").
				Title("Method").
				Placeholder(inv.PaymentMethod),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m InvoicesModel) updatePayment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	upd := invoice.PaymentUpdate{
		Status: invoice.PaymentStatus(m.form.GetString("status")),
		Method: strings.TrimSpace(m.form.GetString("method")),
	}

	if raw := m.form.GetString("date"); raw != "" {
		// Validated by the form.
		d, _ := time.Parse(time.DateOnly, raw)
		upd.Date = &d
	}

	inv := m.selected()
	m.state = invoicesStateBrowse
	m.form = nil
	m.table.Focus()

	if inv == nil {
		return m, nil
	}

	return m, m.paymentCmd(inv.ID, upd)
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	filter := "All"
	if ps := paymentFilters[m.filterAt]; ps != "" {
		filter = string(ps)
	}

	header := fmt.Sprintf("Filter: [p] Payment: %s | %d invoices", activeStyle(filter), len(m.list))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == invoicesStatePayment && m.form != nil {
		number := ""
		if inv := m.selected(); inv != nil {
			number = inv.InvoiceNumber
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Payment for %s\n\n%s", number, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.list))
	for _, inv := range m.list {
		rows = append(rows, table.Row{
			inv.InvoiceNumber,
			FormatDate(inv.InvoiceDate),
			FormatDate(inv.DueDate),
			FormatHours(inv.TotalHours()),
			FormatMoney(inv.TotalAmount),
			string(inv.Status),
			string(inv.PaymentStatus),
		})
	}

	m.table.SetRows(rows)
}

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	filter := invoice.ListFilter{TenantID: m.Session.TenantID}
	if ps := paymentFilters[m.filterAt]; ps != "" {
		filter.PaymentStatus = &ps
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		list, err := m.invoices.List(ctx, filter)

		return loadInvoicesMsg{invoices: list, err: err}
	}
}

type invoiceUpdatedMsg struct {
	invoice *invoice.Invoice
	err     error
}

func (m InvoicesModel) approveCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invoices.Approve(ctx, m.Session.TenantID, id, m.Session.UserID, "")

		return invoiceUpdatedMsg{invoice: inv, err: err}
	}
}

func (m InvoicesModel) rejectCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invoices.Reject(ctx, m.Session.TenantID, id)

		return invoiceUpdatedMsg{invoice: inv, err: err}
	}
}

func (m InvoicesModel) paymentCmd(id uuid.UUID, upd invoice.PaymentUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invoices.UpdatePayment(ctx, m.Session.TenantID, id, upd)

		return invoiceUpdatedMsg{invoice: inv, err: err}
	}
}
