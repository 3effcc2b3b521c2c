package view

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice/pdf"
)

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

const defaultExportDir = "./invoices"

// ExportModel renders one invoice to a PDF file on disk.
type ExportModel struct {
	CommonModel
	invoices *invoice.Service
	target   *invoice.Invoice

	state   exportState
	form    *huh.Form
	spinner spinner.Model

	file string
	err  error
}

func NewExportModel(session Session, invoices *invoice.Service, target *invoice.Invoice) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		CommonModel: CommonModel{Session: session},
		invoices:    invoices,
		target:      target,
		state:       exportStatePath,
		form:        buildPathForm(),
		spinner:     s,
	}
}

func (m ExportModel) Title() string { return "Export " + m.target.InvoiceNumber }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	dir := m.form.GetString("dir")
	if dir == "" {
		dir = defaultExportDir
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(dir))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.file = result.file
		m.err = result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder(defaultExportDir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering %s...", m.spinner.View(), m.target.InvoiceNumber),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", "Written to "+m.file),
	)
}

type exportResultMsg struct {
	file string
	err  error
}

const exportTimeout = 30 * time.Second

func (m ExportModel) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout(exportTimeout)
		defer cancel()

		d, err := m.invoices.GetWithDetails(ctx, m.Session.TenantID, m.target.ID)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("loading invoice: %w", err)}
		}

		var buf bytes.Buffer
		if err := pdf.Render(&buf, pdf.FromDetails(d)); err != nil {
			return exportResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating %s: %w", dir, err)}
		}

		file := filepath.Join(dir, d.Invoice.InvoiceNumber+".pdf")
		if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
			return exportResultMsg{err: fmt.Errorf("writing %s: %w", file, err)}
		}

		return exportResultMsg{file: file}
	}
}
