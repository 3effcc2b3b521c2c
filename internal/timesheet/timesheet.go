package timesheet

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("timesheet not found")
	ErrInvalid  = errors.New("invalid timesheet")
	// ErrInvalidTransition is returned when the current status does not allow the change,
	// including when another reviewer changed it first.
	ErrInvalidTransition = errors.New("invalid timesheet status transition")
	ErrDuplicateWeek     = errors.New("timesheet already exists for this week")
)

// Status represents the review state of a timesheet.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Weekdays are the keys of DailyHours, Monday first.
var Weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// DailyHours maps a weekday key to the hours worked that day.
type DailyHours map[string]float64

// Total sums the hours of all seven days, rounded to hundredths.
func (d DailyHours) Total() decimal.Decimal {
	total := decimal.Zero
	for _, day := range Weekdays {
		total = total.Add(decimal.NewFromFloat(d[day]))
	}

	return total.Round(2)
}

func (d DailyHours) Validate() error {
	for day, hours := range d {
		if !slices.Contains(Weekdays, day) {
			return fmt.Errorf("%w: unknown day %q", ErrInvalid, day)
		}

		if hours < 0 || hours > 24 {
			return fmt.Errorf("%w: %s hours must be between 0 and 24", ErrInvalid, day)
		}
	}

	return nil
}

// Timesheet is one employee's hours for a Monday to Sunday week.
type Timesheet struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	EmployeeID      uuid.UUID
	ClientID        *uuid.UUID
	ReviewerID      *uuid.UUID
	WeekStart       time.Time // Monday
	WeekEnd         time.Time // Sunday
	DailyHours      DailyHours
	TotalHours      decimal.Decimal
	Status          Status
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	Notes           string
	Attachments     []string
	RejectionReason string
	EmployeeName    string
	OvertimeDays    []string
	OvertimeComment string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetHours replaces the daily hours and recomputes TotalHours.
func (t *Timesheet) SetHours(hours DailyHours) {
	t.DailyHours = hours
	t.TotalHours = hours.Total()
}

// WeekOf returns the Monday starting the week that contains day, as a UTC date.
func WeekOf(day time.Time) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7

	return d.AddDate(0, 0, -offset)
}
