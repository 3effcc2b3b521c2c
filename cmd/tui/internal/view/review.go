package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
	reviewStateReject
)

// ReviewModel walks the submitted timesheets of a range of weeks. Approving a
// timesheet bills it straight away.
type ReviewModel struct {
	CommonModel
	timesheets *timesheet.Service
	invoices   *invoice.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue   []*timesheet.Timesheet
	current *timesheet.Timesheet
	total   int

	form *huh.Form

	loading bool
	status  string
}

func NewReviewModel(session Session, timesheets *timesheet.Service, invoices *invoice.Service) ReviewModel {
	return ReviewModel{
		CommonModel:     CommonModel{Session: session},
		timesheets:      timesheets,
		invoices:        invoices,
		state:           reviewStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeLastWeek),
	}
}

func (m ReviewModel) Title() string { return "Review Timesheets" }

func (m ReviewModel) ShortHelp() string {
	switch m.state {
	case reviewStateReviewing:
		return "a: approve & bill | r: reject | s: skip | Esc: back"
	case reviewStateReject:
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateReviewing
		m.loading = true

		return m, m.loadSubmittedCmd(msg)

	case loadSubmittedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading timesheets: %v", msg.err)
			return m, nil
		}

		m.queue = msg.timesheets
		m.total = len(m.queue)
		m.next()

		return m, nil

	case reviewResultMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.next()
		m.status = msg.summary + "\n" + m.status

		return m, nil
	}

	switch m.state {
	case reviewStateTimeframe:
		return m.updateTimeframe(msg)
	case reviewStateReviewing:
		return m.updateReviewing(msg)
	case reviewStateReject:
		return m.updateReject(msg)
	}

	return m, nil
}

func (m ReviewModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ReviewModel) updateReviewing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.state = reviewStateTimeframe
		m.timeframePicker.Reset()
		m.current = nil
		m.status = ""

		return m, nil
	case "a":
		if m.current != nil {
			m.loading = true
			return m, m.approveCmd(m.current)
		}
	case "r":
		if m.current != nil {
			m.form = buildRejectForm()
			m.state = reviewStateReject

			return m, m.form.Init()
		}
	case "s":
		if m.current != nil {
			m.next()
		}
	}

	return m, nil
}

func (m ReviewModel) updateReject(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reviewStateReviewing
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

	reason := m.form.GetString("reason")
	m.state = reviewStateReviewing
	m.form = nil
	m.loading = true

	return m, m.rejectCmd(m.current, reason)
}

func buildRejectForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("reason").
				Title("Rejection Reason").
				Description("Shown to the employee").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a reason is required")
					}

					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m *ReviewModel) next() {
	if len(m.queue) == 0 {
		m.current = nil
		m.status = "No more submitted timesheets."

		return
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
	m.status = fmt.Sprintf("Reviewing %d/%d", m.total-len(m.queue), m.total)
}

func (m ReviewModel) View() string {
	switch m.state {
	case reviewStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	case reviewStateReject:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, m.describe(), "", m.form.View()),
		)
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Working...")
	}

	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n" + m.describe())
}

var dayLabel = lipgloss.NewStyle().Width(5).Foreground(lipgloss.Color("240"))

func (m ReviewModel) describe() string {
	ts := m.current
	if ts == nil {
		return ""
	}

	name := ts.EmployeeName
	if name == "" {
		name = ts.EmployeeID.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Employee: %s\n", name)
	fmt.Fprintf(&b, "Week:     %s to %s\n\n", FormatDate(ts.WeekStart), FormatDate(ts.WeekEnd))

	for _, day := range timesheet.Weekdays {
		fmt.Fprintf(&b, "%s%6.2f\n", dayLabel.Render(day), ts.DailyHours[day])
	}

	fmt.Fprintf(&b, "\nTotal:    %s h\n", FormatHours(ts.TotalHours))

	if len(ts.OvertimeDays) > 0 {
		fmt.Fprintf(&b, "Overtime: %s (%s)\n", strings.Join(ts.OvertimeDays, ", "), ts.OvertimeComment)
	}

	if ts.Notes != "" {
		fmt.Fprintf(&b, "Notes:    %s\n", ts.Notes)
	}

	return b.String()
}

type loadSubmittedMsg struct {
	timesheets []*timesheet.Timesheet
	err        error
}

func (m ReviewModel) loadSubmittedCmd(tf TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		filter := timesheet.ListFilter{
			TenantID: m.Session.TenantID,
			Status:   new(timesheet.StatusSubmitted),
		}

		if !tf.All {
			filter.WeekFrom = &tf.From
			filter.WeekTo = &tf.To
		}

		list, err := m.timesheets.List(ctx, filter)

		return loadSubmittedMsg{timesheets: list, err: err}
	}
}

type reviewResultMsg struct {
	summary string
	err     error
}

const billingTimeout = 30 * time.Second

func (m ReviewModel) approveCmd(ts *timesheet.Timesheet) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.timesheets.Approve(ctx, m.Session.TenantID, ts.ID, m.Session.UserID); err != nil {
			return reviewResultMsg{err: err}
		}

		billCtx, billCancel := contextWithTimeout(billingTimeout)
		defer billCancel()

		res, err := m.invoices.GenerateFromTimesheet(billCtx, m.Session.TenantID, ts.ID, m.Session.UserID)
		if err != nil {
			return reviewResultMsg{summary: fmt.Sprintf("Approved, but billing failed: %v", err)}
		}

		verb := "Billed as"
		if !res.Created() {
			verb = "Already billed as"
		}

		return reviewResultMsg{
			summary: fmt.Sprintf("Approved. %s %s (%s)", verb, res.Invoice.InvoiceNumber, FormatMoney(res.Invoice.TotalAmount)),
		}
	}
}

func (m ReviewModel) rejectCmd(ts *timesheet.Timesheet, reason string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.timesheets.Reject(ctx, m.Session.TenantID, ts.ID, m.Session.UserID, reason); err != nil {
			return reviewResultMsg{err: err}
		}

		return reviewResultMsg{summary: "Rejected."}
	}
}
