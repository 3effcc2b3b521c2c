package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/timepulse/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/timepulse/internal/backfill"
	"github.com/MrJamesThe3rd/timepulse/internal/config"
	"github.com/MrJamesThe3rd/timepulse/internal/database"
	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	dirStore "github.com/MrJamesThe3rd/timepulse/internal/directory/store"
	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/timepulse/internal/invoice/store"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
	tsStore "github.com/MrJamesThe3rd/timepulse/internal/timesheet/store"
)

type services struct {
	timesheets *timesheet.Service
	invoices   *invoice.Service
	directory  *directory.Service
	backfiller *backfill.Backfiller
}

type model struct {
	session view.Session
	svc     services

	// stack holds the open screens; the menu shows when it is empty.
	stack []view.View
}

type menuEntry struct {
	key   string
	label string
	open  func(m model) view.View
}

var menu = []menuEntry{
	{"1", "Review Timesheets", func(m model) view.View {
		return view.NewReviewModel(m.session, m.svc.timesheets, m.svc.invoices)
	}},
	{"2", "Invoices", func(m model) view.View {
		return view.NewInvoicesModel(m.session, m.svc.invoices)
	}},
	{"3", "Employees", func(m model) view.View {
		return view.NewEmployeesModel(m.session, m.svc.directory)
	}},
	{"4", "Field Encryption", func(m model) view.View {
		return view.NewEncryptionModel(m.session, m.svc.backfiller)
	}},
}

func initialModel(cfg *config.Config, svc services) model {
	return model{
		session: view.Session{TenantID: cfg.Console.TenantID, UserID: cfg.Console.UserID},
		svc:     svc,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) push(v view.View) (tea.Model, tea.Cmd) {
	m.stack = append(m.stack, v)
	return m, v.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if len(m.stack) == 0 {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, e := range menu {
				if msg.String() == e.key {
					return m.push(e.open(m))
				}
			}

			return m, nil
		}

	case view.BackMsg:
		if len(m.stack) > 0 {
			m.stack = m.stack[:len(m.stack)-1]
		}

		if len(m.stack) > 0 {
			return m, m.stack[len(m.stack)-1].Init()
		}

		return m, nil

	case view.ExportInvoiceMsg:
		return m.push(view.NewExportModel(m.session, m.svc.invoices, msg.Invoice))
	}

	if len(m.stack) == 0 {
		return m, nil
	}

	top := len(m.stack) - 1

	next, cmd := m.stack[top].Update(msg)
	if v, ok := next.(view.View); ok {
		m.stack[top] = v
	}

	return m, cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	if len(m.stack) == 0 {
		s := titleStyle.Render("TimePulse Console") + "\n\n"
		for _, e := range menu {
			s += fmt.Sprintf("%s. %s\n", e.key, e.label)
		}

		s += "\nq. Quit"

		return lipgloss.NewStyle().Padding(2).Render(s)
	}

	v := m.stack[len(m.stack)-1]

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(1, 2, 0).Render(titleStyle.Render(v.Title())),
		v.View(),
		lipgloss.NewStyle().Padding(0, 2).Render(helpStyle.Render(v.ShortHelp())),
	)
}

func setup(cfg *config.Config) (services, func(), error) {
	if cfg.Console.TenantID == uuid.Nil || cfg.Console.UserID == uuid.Nil {
		return services{}, nil, errors.New("CONSOLE_TENANT_ID and CONSOLE_USER_ID must be set")
	}

	key, err := fieldcrypt.LoadKey(cfg.Encryption.Key, cfg.Encryption.Salt)
	if err != nil {
		return services{}, nil, fmt.Errorf("deriving encryption key: %w", err)
	}

	codec, err := fieldcrypt.New(key, fieldcrypt.WithLegacyPassphrases(cfg.LegacyPassphrases()...))
	if err != nil {
		return services{}, nil, fmt.Errorf("creating field codec: %w", err)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return services{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		return services{}, nil, fmt.Errorf("running migrations: %w", err)
	}

	dir := directory.NewService(dirStore.New(db, codec))
	ts := timesheet.NewService(tsStore.New(db, codec))

	svc := services{
		timesheets: ts,
		directory:  dir,
		invoices: invoice.NewService(
			invoiceStore.New(db, codec),
			ts,
			dir,
			invoice.WithDueDays(cfg.Invoice.DueDays),
		),
		backfiller: backfill.New(db, codec),
	}

	return svc, func() { db.Close() }, nil
}

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	svc, closeDB, err := setup(cfg)
	if err != nil {
		slog.Error("failed to start console", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	// Log lines would corrupt the terminal while the program owns it.
	slog.SetDefault(slog.New(slog.DiscardHandler))

	p := tea.NewProgram(initialModel(cfg, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run TUI: %v\n", err)
		os.Exit(1)
	}
}
