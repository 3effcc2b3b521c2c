package timesheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

type timesheetResponse struct {
	ID              uuid.UUID            `json:"id"`
	EmployeeID      uuid.UUID            `json:"employee_id"`
	ClientID        *uuid.UUID           `json:"client_id,omitempty"`
	ReviewerID      *uuid.UUID           `json:"reviewer_id,omitempty"`
	WeekStart       string               `json:"week_start"`
	WeekEnd         string               `json:"week_end"`
	DailyHours      timesheet.DailyHours `json:"daily_hours"`
	TotalHours      decimal.Decimal      `json:"total_hours"`
	Status          timesheet.Status     `json:"status"`
	SubmittedAt     *time.Time           `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time           `json:"approved_at,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	Attachments     []string             `json:"attachments"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	EmployeeName    string               `json:"employee_name,omitempty"`
	OvertimeDays    []string             `json:"overtime_days,omitempty"`
	OvertimeComment string               `json:"overtime_comment,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func toResponse(ts *timesheet.Timesheet) timesheetResponse {
	attachments := ts.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	return timesheetResponse{
		ID:              ts.ID,
		EmployeeID:      ts.EmployeeID,
		ClientID:        ts.ClientID,
		ReviewerID:      ts.ReviewerID,
		WeekStart:       ts.WeekStart.Format(time.DateOnly),
		WeekEnd:         ts.WeekEnd.Format(time.DateOnly),
		DailyHours:      ts.DailyHours,
		TotalHours:      ts.TotalHours,
		Status:          ts.Status,
		SubmittedAt:     ts.SubmittedAt,
		ApprovedAt:      ts.ApprovedAt,
		Notes:           ts.Notes,
		Attachments:     attachments,
		RejectionReason: ts.RejectionReason,
		EmployeeName:    ts.EmployeeName,
		OvertimeDays:    ts.OvertimeDays,
		OvertimeComment: ts.OvertimeComment,
		CreatedAt:       ts.CreatedAt,
		UpdatedAt:       ts.UpdatedAt,
	}
}

func toResponseList(list []*timesheet.Timesheet) []timesheetResponse {
	resp := make([]timesheetResponse, len(list))
	for i, ts := range list {
		resp[i] = toResponse(ts)
	}

	return resp
}

// approveResponse is the approved timesheet and the outcome of billing it. InvoiceError
// is set when approval succeeded but the invoice could not be generated.
type approveResponse struct {
	Timesheet    timesheetResponse `json:"timesheet"`
	Outcome      invoice.Outcome   `json:"invoice_outcome,omitempty"`
	InvoiceID    *uuid.UUID        `json:"invoice_id,omitempty"`
	InvoiceNo    string            `json:"invoice_number,omitempty"`
	InvoiceError string            `json:"invoice_error,omitempty"`
}
