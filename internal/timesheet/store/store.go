package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/timepulse/internal/database"
	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

type Store struct {
	db    *sql.DB
	codec *fieldcrypt.Codec
}

func New(db *sql.DB, codec *fieldcrypt.Codec) *Store {
	return &Store{db: db, codec: codec}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTimesheetColumns = `
	id, tenant_id, employee_id, client_id, reviewer_id, week_start, week_end, daily_hours, total_hours,
	status, submitted_at, approved_at, notes, attachments, rejection_reason, employee_name,
	overtime_days, overtime_comment, created_at, updated_at
`

// scanTimesheet reads a row in selectTimesheetColumns order and decrypts its sealed fields.
func (s *Store) scanTimesheet(sc scanner) (*timesheet.Timesheet, error) {
	var ts timesheet.Timesheet

	var status string

	var dailyHours string

	var attachments []byte

	var notes, rejection, employeeName, overtimeDays, overtimeComment sql.NullString

	if err := sc.Scan(
		&ts.ID, &ts.TenantID, &ts.EmployeeID, &ts.ClientID, &ts.ReviewerID, &ts.WeekStart, &ts.WeekEnd,
		&dailyHours, &ts.TotalHours, &status, &ts.SubmittedAt, &ts.ApprovedAt, &notes, &attachments,
		&rejection, &employeeName, &overtimeDays, &overtimeComment, &ts.CreatedAt, &ts.UpdatedAt,
	); err != nil {
		return nil, err
	}

	ts.Status = timesheet.Status(status)
	ts.Notes = s.open(notes)
	ts.RejectionReason = s.open(rejection)
	ts.EmployeeName = s.open(employeeName)
	ts.OvertimeComment = s.open(overtimeComment)

	if err := s.codec.DecryptJSON(dailyHours, &ts.DailyHours); err != nil {
		slog.Warn("timesheet daily hours unreadable", "timesheet_id", ts.ID, "error", err)
	}

	if overtimeDays.Valid {
		if err := s.codec.DecryptJSON(overtimeDays.String, &ts.OvertimeDays); err != nil {
			slog.Warn("timesheet overtime days unreadable", "timesheet_id", ts.ID, "error", err)
		}
	}

	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &ts.Attachments); err != nil {
			return nil, fmt.Errorf("decoding attachments: %w", err)
		}
	}

	return &ts, nil
}

func (s *Store) open(v sql.NullString) string {
	if !v.Valid {
		return ""
	}

	return s.codec.Decrypt(v.String)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func attachmentsJSON(a []string) ([]byte, error) {
	if a == nil {
		a = []string{}
	}

	return json.Marshal(a)
}

func (s *Store) CreateTimesheet(ctx context.Context, ts *timesheet.Timesheet) error {
	attachments, err := attachmentsJSON(ts.Attachments)
	if err != nil {
		return fmt.Errorf("encoding attachments: %w", err)
	}

	seal := s.codec.Sealer()
	args := []any{
		ts.TenantID,
		ts.EmployeeID,
		ts.ClientID,
		ts.WeekStart,
		ts.WeekEnd,
		seal.JSON(ts.DailyHours),
		ts.TotalHours,
		ts.Status,
		nullable(seal.String(ts.Notes)),
		attachments,
		nullable(seal.String(ts.EmployeeName)),
		nullable(sealOptionalJSON(seal, ts.OvertimeDays)),
		nullable(seal.String(ts.OvertimeComment)),
	}

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting timesheet: %w", err)
	}

	query := `
		INSERT INTO timesheets (tenant_id, employee_id, client_id, week_start, week_end, daily_hours, total_hours,
			status, notes, attachments, employee_name, overtime_days, overtime_comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt); err != nil {
		if constraint, ok := database.UniqueViolation(err); ok && constraint == "timesheets_employee_week_key" {
			return timesheet.ErrDuplicateWeek
		}

		if database.ForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown employee or client", timesheet.ErrInvalid)
		}

		return fmt.Errorf("creating timesheet: %w", err)
	}

	return nil
}

func sealOptionalJSON(seal *fieldcrypt.Sealer, days []string) string {
	if len(days) == 0 {
		return ""
	}

	return seal.JSON(days)
}

func (s *Store) GetTimesheet(ctx context.Context, tenantID, id uuid.UUID) (*timesheet.Timesheet, error) {
	query := `SELECT ` + selectTimesheetColumns + ` FROM timesheets WHERE tenant_id = $1 AND id = $2`

	ts, err := s.scanTimesheet(s.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, timesheet.ErrNotFound
		}

		return nil, fmt.Errorf("getting timesheet: %w", err)
	}

	return ts, nil
}

func (s *Store) ListTimesheets(ctx context.Context, filter timesheet.ListFilter) ([]*timesheet.Timesheet, error) {
	query := `SELECT ` + selectTimesheetColumns + ` FROM timesheets WHERE tenant_id = $1`

	args := []any{filter.TenantID}

	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)

		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.WeekFrom != nil {
		query += fmt.Sprintf(" AND week_start >= $%d", argIdx)

		args = append(args, *filter.WeekFrom)
		argIdx++
	}

	if filter.WeekTo != nil {
		query += fmt.Sprintf(" AND week_start <= $%d", argIdx)

		args = append(args, *filter.WeekTo)
	}

	query += " ORDER BY week_start DESC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing timesheets: %w", err)
	}
	defer rows.Close()

	var timesheets []*timesheet.Timesheet

	for rows.Next() {
		ts, err := s.scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning timesheet: %w", err)
		}

		timesheets = append(timesheets, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timesheets: %w", err)
	}

	return timesheets, nil
}

// UpdateTimesheet rewrites every mutable column. The status guard in the WHERE clause
// makes concurrent reviews of the same timesheet lose with ErrInvalidTransition.
func (s *Store) UpdateTimesheet(ctx context.Context, ts *timesheet.Timesheet, from timesheet.Status) error {
	seal := s.codec.Sealer()
	args := []any{
		seal.JSON(ts.DailyHours),
		ts.TotalHours,
		ts.Status,
		ts.ReviewerID,
		ts.SubmittedAt,
		ts.ApprovedAt,
		nullable(seal.String(ts.Notes)),
		nullable(seal.String(ts.RejectionReason)),
		nullable(sealOptionalJSON(seal, ts.OvertimeDays)),
		nullable(seal.String(ts.OvertimeComment)),
		ts.TenantID,
		ts.ID,
		from,
	}

	if err := seal.Err(); err != nil {
		return fmt.Errorf("encrypting timesheet: %w", err)
	}

	query := `
		UPDATE timesheets
		SET daily_hours = $1, total_hours = $2, status = $3, reviewer_id = $4, submitted_at = $5,
			approved_at = $6, notes = $7, rejection_reason = $8, overtime_days = $9, overtime_comment = $10,
			updated_at = NOW()
		WHERE tenant_id = $11 AND id = $12 AND status = $13
	`

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating timesheet: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating timesheet: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: timesheet %s is no longer %s", timesheet.ErrInvalidTransition, ts.ID, from)
	}

	return nil
}
