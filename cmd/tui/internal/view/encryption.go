package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/timepulse/internal/backfill"
)

const backfillTimeout = 10 * time.Minute

type encryptionState int

const (
	encryptionStateStatus encryptionState = iota
	encryptionStateConfirm
	encryptionStateRunning
)

// EncryptionModel shows how much of each sensitive column is encrypted and runs the
// backfill for what is not.
type EncryptionModel struct {
	CommonModel
	backfiller *backfill.Backfiller

	state   encryptionState
	table   table.Model
	form    *huh.Form
	spinner spinner.Model
	dryRun  bool

	loading bool
	status  string
	err     error
}

func NewEncryptionModel(session Session, b *backfill.Backfiller) EncryptionModel {
	columns := []table.Column{
		{Title: "Table", Width: 26},
		{Title: "Column", Width: 20},
		{Title: "Encrypted", Width: 10},
		{Title: "Legacy", Width: 8},
		{Title: "Plaintext", Width: 10},
		{Title: "Empty", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return EncryptionModel{
		CommonModel: CommonModel{Session: session},
		backfiller:  b,
		table:       t,
		spinner:     sp,
		loading:     true,
	}
}

func (m EncryptionModel) Title() string { return "Field Encryption" }

func (m EncryptionModel) ShortHelp() string {
	switch m.state {
	case encryptionStateConfirm:
		return "Esc: cancel"
	case encryptionStateRunning:
		return "Encrypting..."
	}

	return "Esc: back | b: backfill | d: dry run | r: refresh"
}

func (m EncryptionModel) Init() tea.Cmd {
	return m.statusCmd()
}

func (m EncryptionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case encryptionStatusMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.setRows(msg.report)
		}

		return m, nil

	case backfillDoneMsg:
		m.state = encryptionStateStatus

		if msg.err != nil {
			m.status = fmt.Sprintf("Backfill failed: %v", msg.err)
			return m, m.statusCmd()
		}

		m.status = summarize(msg.results, msg.dryRun)

		return m, m.statusCmd()
	}

	switch m.state {
	case encryptionStateConfirm:
		return m.updateConfirm(msg)
	case encryptionStateRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.statusCmd()
		case "d":
			m.state = encryptionStateRunning
			m.dryRun = true

			return m, tea.Batch(m.spinner.Tick, m.runCmd(true))
		case "b":
			m.form = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Key("confirm").
						Title("Encrypt all plaintext values now?").
						Description("Rows are rewritten in place. Take a backup first.").
						Affirmative("Encrypt").
						Negative("Cancel"),
				),
			).WithWidth(50).WithShowHelp(false)
			m.state = encryptionStateConfirm

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EncryptionModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = encryptionStateStatus
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	confirmed := m.form.GetBool("confirm")
	m.form = nil

	if !confirmed {
		m.state = encryptionStateStatus
		return m, nil
	}

	m.state = encryptionStateRunning
	m.dryRun = false

	return m, tea.Batch(m.spinner.Tick, m.runCmd(false))
}

func (m *EncryptionModel) setRows(report []backfill.FieldStatus) {
	rows := make([]table.Row, len(report))
	for i, fs := range report {
		rows[i] = table.Row{
			fs.Table,
			fs.Column,
			fmt.Sprint(fs.Encrypted),
			fmt.Sprint(fs.Legacy),
			fmt.Sprint(fs.Plaintext),
			fmt.Sprint(fs.Empty),
		}
	}

	m.table.SetRows(rows)
}

func summarize(results []backfill.TableResult, dryRun bool) string {
	rows, fields := 0, 0
	for _, r := range results {
		rows += r.Rows
		fields += r.Fields
	}

	verb := "Encrypted"
	if dryRun {
		verb = "Would encrypt"
	}

	return fmt.Sprintf("%s %d values across %d rows.", verb, fields, rows)
}

func (m EncryptionModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Counting encrypted values...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	var b strings.Builder

	if m.status != "" {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n")
	}

	switch m.state {
	case encryptionStateConfirm:
		b.WriteString(m.form.View())
	case encryptionStateRunning:
		label := "Encrypting plaintext values..."
		if m.dryRun {
			label = "Scanning plaintext values..."
		}

		b.WriteString(m.spinner.View() + " " + label)
	default:
		b.WriteString(lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

type encryptionStatusMsg struct {
	report []backfill.FieldStatus
	err    error
}

func (m EncryptionModel) statusCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout(backfillTimeout)
		defer cancel()

		report, err := m.backfiller.Status(ctx)

		return encryptionStatusMsg{report: report, err: err}
	}
}

type backfillDoneMsg struct {
	results []backfill.TableResult
	dryRun  bool
	err     error
}

func (m EncryptionModel) runCmd(dryRun bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextWithTimeout(backfillTimeout)
		defer cancel()

		results, err := m.backfiller.Run(ctx, dryRun)

		return backfillDoneMsg{results: results, dryRun: dryRun, err: err}
	}
}
