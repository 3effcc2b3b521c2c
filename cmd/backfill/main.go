// Command backfill reports how much sensitive data is still stored as plaintext and
// encrypts it in place.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/timepulse/internal/backfill"
	"github.com/MrJamesThe3rd/timepulse/internal/config"
	"github.com/MrJamesThe3rd/timepulse/internal/database"
	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
)

var dryRun bool

var rootCmd = &cobra.Command{
	Use:          "backfill",
	Short:        "Inspect and encrypt plaintext sensitive columns",
	SilenceUsage: true,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Count encrypted, plaintext and empty values per column",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Encrypt every plaintext value in place",
	Long: `Encrypt every plaintext value of the encrypted columns in place.

Values that are already encrypted are left untouched, so the command can be
re-run safely. Use --dry-run to see what would change.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "count what would change without writing")
	rootCmd.AddCommand(statusCmd, runCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func open() (*backfill.Backfiller, *sql.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	key, err := fieldcrypt.LoadKey(cfg.Encryption.Key, cfg.Encryption.Salt)
	if err != nil {
		return nil, nil, err
	}

	codec, err := fieldcrypt.New(key, fieldcrypt.WithLegacyPassphrases(cfg.LegacyPassphrases()...))
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, err
	}

	return backfill.New(db, codec), db, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func render(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Println(t)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	b, db, err := open()
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := b.Status(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, len(report))
	for i, s := range report {
		rows[i] = []string{s.Table, s.Column, strconv.Itoa(s.Encrypted), strconv.Itoa(s.Legacy), strconv.Itoa(s.Plaintext), strconv.Itoa(s.Empty)}
	}

	render([]string{"Table", "Column", "Encrypted", "Legacy", "Plaintext", "Empty"}, rows)

	return nil
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	b, db, err := open()
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := b.Run(cmd.Context(), dryRun)
	if err != nil {
		return err
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Table, strconv.Itoa(r.Rows), strconv.Itoa(r.Fields), strconv.Itoa(r.Resealed)}
	}

	render([]string{"Table", "Rows", "Values", "Resealed"}, rows)

	if dryRun {
		fmt.Println("dry run: nothing was written")
	}

	return nil
}
