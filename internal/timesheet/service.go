package timesheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=timesheet
type Repository interface {
	CreateTimesheet(ctx context.Context, ts *Timesheet) error
	GetTimesheet(ctx context.Context, tenantID, id uuid.UUID) (*Timesheet, error)
	ListTimesheets(ctx context.Context, filter ListFilter) ([]*Timesheet, error)
	// UpdateTimesheet persists ts only if the stored status still equals from.
	UpdateTimesheet(ctx context.Context, ts *Timesheet, from Status) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	EmployeeID      uuid.UUID
	ClientID        *uuid.UUID
	WeekStart       time.Time
	DailyHours      DailyHours
	Notes           string
	EmployeeName    string
	OvertimeDays    []string
	OvertimeComment string
	Attachments     []string
}

type ListFilter struct {
	TenantID   uuid.UUID
	Status     *Status
	EmployeeID *uuid.UUID
	// WeekFrom and WeekTo bound week_start, inclusive.
	WeekFrom *time.Time
	WeekTo   *time.Time
}

// Create starts a draft timesheet for the week beginning params.WeekStart, which must
// be a Monday.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (*Timesheet, error) {
	if params.EmployeeID == uuid.Nil {
		return nil, fmt.Errorf("%w: employee is required", ErrInvalid)
	}

	start := WeekOf(params.WeekStart)
	if !start.Equal(time.Date(params.WeekStart.Year(), params.WeekStart.Month(), params.WeekStart.Day(), 0, 0, 0, 0, time.UTC)) {
		return nil, fmt.Errorf("%w: week must start on a Monday", ErrInvalid)
	}

	hours := params.DailyHours
	if hours == nil {
		hours = DailyHours{}
	}

	if err := hours.Validate(); err != nil {
		return nil, err
	}

	ts := &Timesheet{
		TenantID:        tenantID,
		EmployeeID:      params.EmployeeID,
		ClientID:        params.ClientID,
		WeekStart:       start,
		WeekEnd:         start.AddDate(0, 0, 6),
		Status:          StatusDraft,
		Notes:           params.Notes,
		EmployeeName:    params.EmployeeName,
		OvertimeDays:    params.OvertimeDays,
		OvertimeComment: params.OvertimeComment,
		Attachments:     params.Attachments,
	}
	ts.SetHours(hours)

	if err := s.repo.CreateTimesheet(ctx, ts); err != nil {
		return nil, err
	}

	return ts, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*Timesheet, error) {
	return s.repo.GetTimesheet(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Timesheet, error) {
	return s.repo.ListTimesheets(ctx, filter)
}

// UpdateHours replaces the hours of a draft timesheet. A nil notes leaves the notes as they are.
func (s *Service) UpdateHours(ctx context.Context, tenantID, id uuid.UUID, hours DailyHours, notes *string) (*Timesheet, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}

	return s.transition(ctx, tenantID, id, StatusDraft, func(ts *Timesheet) {
		ts.SetHours(hours)

		if notes != nil {
			ts.Notes = *notes
		}
	})
}

func (s *Service) Submit(ctx context.Context, tenantID, id uuid.UUID) (*Timesheet, error) {
	return s.transition(ctx, tenantID, id, StatusDraft, func(ts *Timesheet) {
		ts.Status = StatusSubmitted
		ts.SubmittedAt = new(s.now())
	})
}

func (s *Service) Approve(ctx context.Context, tenantID, id, reviewerID uuid.UUID) (*Timesheet, error) {
	return s.transition(ctx, tenantID, id, StatusSubmitted, func(ts *Timesheet) {
		ts.Status = StatusApproved
		ts.ReviewerID = &reviewerID
		ts.ApprovedAt = new(s.now())
		ts.RejectionReason = ""
	})
}

func (s *Service) Reject(ctx context.Context, tenantID, id, reviewerID uuid.UUID, reason string) (*Timesheet, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrInvalid)
	}

	return s.transition(ctx, tenantID, id, StatusSubmitted, func(ts *Timesheet) {
		ts.Status = StatusRejected
		ts.ReviewerID = &reviewerID
		ts.RejectionReason = reason
	})
}

func (s *Service) transition(ctx context.Context, tenantID, id uuid.UUID, from Status, apply func(*Timesheet)) (*Timesheet, error) {
	ts, err := s.repo.GetTimesheet(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if ts.Status != from {
		return nil, fmt.Errorf("%w: timesheet is %s, expected %s", ErrInvalidTransition, ts.Status, from)
	}

	apply(ts)

	if err := s.repo.UpdateTimesheet(ctx, ts, from); err != nil {
		return nil, err
	}

	return ts, nil
}
