package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timepulse/internal/directory"
)

type employeesState int

const (
	employeesStateList employeesState = iota
	employeesStateCreate
	employeesStateDelete
)

// employeeItem wraps an employee to implement list.Item.
type employeeItem struct {
	e *directory.Employee
}

func (i employeeItem) Title() string {
	rate := lipgloss.NewStyle().Faint(true).Render("no rate")
	if i.e.HourlyRate != nil {
		rate = FormatMoney(*i.e.HourlyRate) + "/h"
	}

	return fmt.Sprintf("%s  %s", i.e.FullName(), rate)
}

func (i employeeItem) Description() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{i.e.Title, i.e.Department, i.e.Email} {
		if s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, " · ")
}

func (i employeeItem) FilterValue() string {
	return i.e.FullName()
}

// EmployeesModel lists the tenant's employees with their decrypted details.
type EmployeesModel struct {
	CommonModel
	directory *directory.Service

	state employeesState
	list  list.Model
	form  *huh.Form

	loading bool
	status  string
}

func NewEmployeesModel(session Session, dir *directory.Service) EmployeesModel {
	l := list.New([]list.Item{}, employeeDelegate{}, 0, 0)
	l.Title = "Employees"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return EmployeesModel{
		CommonModel: CommonModel{Session: session},
		directory:   dir,
		list:        l,
		loading:     true,
	}
}

func (m EmployeesModel) Title() string { return "Employees" }

func (m EmployeesModel) ShortHelp() string {
	switch m.state {
	case employeesStateCreate:
		return "Esc: cancel | Enter/Tab: navigate form"
	case employeesStateDelete:
		return "Esc: cancel"
	}

	return "Esc: back | n: new | d: delete | /: filter"
}

func (m EmployeesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m EmployeesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEmployeesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.employees))
		for i, e := range msg.employees {
			items[i] = employeeItem{e: e}
		}

		return m, m.list.SetItems(items)

	case employeeSavedMsg:
		m.state = employeesStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case employeesStateCreate, employeesStateDelete:
		return m.updateForm(msg)
	}

	return m.updateList(msg)
}

func (m EmployeesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			m.form = buildEmployeeForm()
			m.state = employeesStateCreate

			return m, m.form.Init()
		case "d":
			if selected, ok := m.list.SelectedItem().(employeeItem); ok {
				m.form = buildDeleteForm(selected.e)
				m.state = employeesStateDelete

				return m, m.form.Init()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m EmployeesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = employeesStateList
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

	if m.state == employeesStateDelete {
		selected, ok := m.list.SelectedItem().(employeeItem)
		if !ok || !m.form.GetBool("confirm") {
			m.state = employeesStateList
			m.form = nil

			return m, nil
		}

		return m, m.deleteCmd(selected.e)
	}

	e := directory.Employee{
		FirstName:  strings.TrimSpace(m.form.GetString("first_name")),
		LastName:   strings.TrimSpace(m.form.GetString("last_name")),
		Email:      strings.TrimSpace(m.form.GetString("email")),
		Title:      strings.TrimSpace(m.form.GetString("title")),
		Department: strings.TrimSpace(m.form.GetString("department")),
	}

	if raw := strings.TrimSpace(m.form.GetString("rate")); raw != "" {
		// Validated by the form.
		rate, _ := decimal.NewFromString(raw)
		e.HourlyRate = &rate
	}

	return m, m.createCmd(e)
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}

		return nil
	}
}

func buildEmployeeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("first_name").Title("First Name").Validate(required("first name")),
			huh.NewInput().Key("last_name").Title("Last Name").Validate(required("last name")),
			huh.NewInput().Key("email").Title("Email"),
			huh.NewInput().Key("title").Title("Title"),
			huh.NewInput().Key("department").Title("Department"),
			huh.NewInput().
				Key("rate").
				Title("Hourly Rate").
				Placeholder("0.00").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return errors.New("enter a non-negative amount")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func buildDeleteForm(e *directory.Employee) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %s?", e.FullName())).
				Description("Employees with timesheets or invoices cannot be deleted.").
				Affirmative("Delete").
				Negative("Cancel"),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m EmployeesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading employees...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	if m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.form.View())
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
}

type loadEmployeesMsg struct {
	employees []*directory.Employee
	err       error
}

func (m EmployeesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		list, err := m.directory.ListEmployees(ctx, m.Session.TenantID)

		return loadEmployeesMsg{employees: list, err: err}
	}
}

type employeeSavedMsg struct {
	status string
	err    error
}

func (m EmployeesModel) createCmd(e directory.Employee) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		created, err := m.directory.CreateEmployee(ctx, m.Session.TenantID, e)
		if err != nil {
			return employeeSavedMsg{err: err}
		}

		return employeeSavedMsg{status: "Created " + created.FullName()}
	}
}

func (m EmployeesModel) deleteCmd(e *directory.Employee) tea.Cmd {
	id, name := e.ID, e.FullName()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.directory.DeleteEmployee(ctx, m.Session.TenantID, id); err != nil {
			if errors.Is(err, directory.ErrInUse) {
				return employeeSavedMsg{err: fmt.Errorf("%s still has billing records", name)}
			}

			return employeeSavedMsg{err: err}
		}

		return employeeSavedMsg{status: "Deleted " + name}
	}
}

// employeeDelegate renders items in the list.
type employeeDelegate struct{}

func (d employeeDelegate) Height() int                             { return 2 }
func (d employeeDelegate) Spacing() int                            { return 0 }
func (d employeeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d employeeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(employeeItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	desc := i.Description()
	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(desc))
}
