package timesheet_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func fullWeek() timesheet.DailyHours {
	return timesheet.DailyHours{"mon": 8, "tue": 8, "wed": 8, "thu": 8, "fri": 8}
}

func TestDailyHours_Total(t *testing.T) {
	assert.True(t, fullWeek().Total().Equal(decimal.NewFromInt(40)))
	assert.True(t, timesheet.DailyHours{"mon": 7.25, "sat": 0.5}.Total().Equal(decimal.RequireFromString("7.75")))
	assert.True(t, timesheet.DailyHours{}.Total().IsZero())
}

func TestDailyHours_Validate(t *testing.T) {
	assert.NoError(t, fullWeek().Validate())
	assert.ErrorIs(t, timesheet.DailyHours{"funday": 1}.Validate(), timesheet.ErrInvalid)
	assert.ErrorIs(t, timesheet.DailyHours{"mon": 25}.Validate(), timesheet.ErrInvalid)
	assert.ErrorIs(t, timesheet.DailyHours{"tue": -1}.Validate(), timesheet.ErrInvalid)
}

func TestWeekOf(t *testing.T) {
	assert.Equal(t, monday, timesheet.WeekOf(monday))
	assert.Equal(t, monday, timesheet.WeekOf(time.Date(2024, time.January, 3, 15, 30, 0, 0, time.UTC)))
	assert.Equal(t, monday, timesheet.WeekOf(time.Date(2024, time.January, 7, 23, 0, 0, 0, time.UTC)))
}

func TestService_Create(t *testing.T) {
	tenantID := uuid.New()
	employeeID := uuid.New()

	type testCase struct {
		name      string
		params    timesheet.CreateParams
		setupMock func(m *timesheet.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: timesheet.CreateParams{EmployeeID: employeeID, WeekStart: monday, DailyHours: fullWeek()},
			setupMock: func(m *timesheet.MockRepository) {
				m.EXPECT().
					CreateTimesheet(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ts *timesheet.Timesheet) error {
						assert.Equal(t, tenantID, ts.TenantID)
						assert.Equal(t, timesheet.StatusDraft, ts.Status)
						assert.Equal(t, monday.AddDate(0, 0, 6), ts.WeekEnd)
						assert.True(t, ts.TotalHours.Equal(decimal.NewFromInt(40)))
						ts.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "NotMonday",
			params:  timesheet.CreateParams{EmployeeID: employeeID, WeekStart: monday.AddDate(0, 0, 2)},
			wantErr: timesheet.ErrInvalid,
		},
		{
			name:    "MissingEmployee",
			params:  timesheet.CreateParams{WeekStart: monday},
			wantErr: timesheet.ErrInvalid,
		},
		{
			name:    "BadHours",
			params:  timesheet.CreateParams{EmployeeID: employeeID, WeekStart: monday, DailyHours: timesheet.DailyHours{"mon": 30}},
			wantErr: timesheet.ErrInvalid,
		},
		{
			name:   "DuplicateWeek",
			params: timesheet.CreateParams{EmployeeID: employeeID, WeekStart: monday},
			setupMock: func(m *timesheet.MockRepository) {
				m.EXPECT().CreateTimesheet(gomock.Any(), gomock.Any()).Return(timesheet.ErrDuplicateWeek)
			},
			wantErr: timesheet.ErrDuplicateWeek,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := timesheet.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := timesheet.NewService(repo).Create(context.Background(), tenantID, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func sheet(tenantID uuid.UUID, status timesheet.Status) *timesheet.Timesheet {
	ts := &timesheet.Timesheet{
		ID:         uuid.New(),
		TenantID:   tenantID,
		EmployeeID: uuid.New(),
		WeekStart:  monday,
		WeekEnd:    monday.AddDate(0, 0, 6),
		Status:     status,
	}
	ts.SetHours(fullWeek())

	return ts
}

func TestService_Transitions(t *testing.T) {
	tenantID := uuid.New()
	reviewerID := uuid.New()

	type testCase struct {
		name    string
		from    timesheet.Status
		run     func(svc *timesheet.Service, id uuid.UUID) (*timesheet.Timesheet, error)
		want    timesheet.Status
		wantErr error
	}

	tests := []testCase{
		{
			name: "SubmitDraft",
			from: timesheet.StatusDraft,
			run: func(svc *timesheet.Service, id uuid.UUID) (*timesheet.Timesheet, error) {
				return svc.Submit(context.Background(), tenantID, id)
			},
			want: timesheet.StatusSubmitted,
		},
		{
			name: "ApproveSubmitted",
			from: timesheet.StatusSubmitted,
			run: func(svc *timesheet.Service, id uuid.UUID) (*timesheet.Timesheet, error) {
				return svc.Approve(context.Background(), tenantID, id, reviewerID)
			},
			want: timesheet.StatusApproved,
		},
		{
			name: "RejectSubmitted",
			from: timesheet.StatusSubmitted,
			run: func(svc *timesheet.Service, id uuid.UUID) (*timesheet.Timesheet, error) {
				return svc.Reject(context.Background(), tenantID, id, reviewerID, "missing Friday")
			},
			want: timesheet.StatusRejected,
		},
		{
			name: "ApproveDraft",
			from: timesheet.StatusDraft,
			run: func(svc *timesheet.Service, id uuid.UUID) (*timesheet.Timesheet, error) {
				return svc.Approve(context.Background(), tenantID, id, reviewerID)
			},
			wantErr: timesheet.ErrInvalidTransition,
		},
		{
			name: "EditApproved",
			from: timesheet.StatusApproved,
			run: func(svc *timesheet.Service, id uuid.UUID) (*timesheet.Timesheet, error) {
				return svc.UpdateHours(context.Background(), tenantID, id, fullWeek(), nil)
			},
			wantErr: timesheet.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ts := sheet(tenantID, tt.from)

			repo := timesheet.NewMockRepository(ctrl)
			repo.EXPECT().GetTimesheet(gomock.Any(), tenantID, ts.ID).Return(ts, nil)

			if tt.wantErr == nil {
				repo.EXPECT().UpdateTimesheet(gomock.Any(), ts, tt.from).Return(nil)
			}

			got, err := tt.run(timesheet.NewService(repo), ts.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestService_ApproveRecordsReviewer(t *testing.T) {
	ctrl := gomock.NewController(t)

	tenantID := uuid.New()
	reviewerID := uuid.New()
	ts := sheet(tenantID, timesheet.StatusSubmitted)
	ts.RejectionReason = "old reason"

	repo := timesheet.NewMockRepository(ctrl)
	repo.EXPECT().GetTimesheet(gomock.Any(), tenantID, ts.ID).Return(ts, nil)
	repo.EXPECT().UpdateTimesheet(gomock.Any(), ts, timesheet.StatusSubmitted).Return(nil)

	got, err := timesheet.NewService(repo).Approve(context.Background(), tenantID, ts.ID, reviewerID)
	require.NoError(t, err)

	require.NotNil(t, got.ReviewerID)
	assert.Equal(t, reviewerID, *got.ReviewerID)
	assert.NotNil(t, got.ApprovedAt)
	assert.Empty(t, got.RejectionReason)
}

func TestService_RejectRequiresReason(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := timesheet.NewMockRepository(ctrl)

	_, err := timesheet.NewService(repo).Reject(context.Background(), uuid.New(), uuid.New(), uuid.New(), " ")
	assert.ErrorIs(t, err, timesheet.ErrInvalid)
}

func TestService_ConcurrentReviewLoses(t *testing.T) {
	ctrl := gomock.NewController(t)

	tenantID := uuid.New()
	ts := sheet(tenantID, timesheet.StatusSubmitted)

	repo := timesheet.NewMockRepository(ctrl)
	repo.EXPECT().GetTimesheet(gomock.Any(), tenantID, ts.ID).Return(ts, nil)
	repo.EXPECT().UpdateTimesheet(gomock.Any(), ts, timesheet.StatusSubmitted).Return(timesheet.ErrInvalidTransition)

	_, err := timesheet.NewService(repo).Approve(context.Background(), tenantID, ts.ID, uuid.New())
	assert.ErrorIs(t, err, timesheet.ErrInvalidTransition)
}

func TestService_UpdateHours(t *testing.T) {
	ctrl := gomock.NewController(t)

	tenantID := uuid.New()
	ts := sheet(tenantID, timesheet.StatusDraft)
	ts.Notes = "keep"

	repo := timesheet.NewMockRepository(ctrl)
	repo.EXPECT().GetTimesheet(gomock.Any(), tenantID, ts.ID).Return(ts, nil)
	repo.EXPECT().UpdateTimesheet(gomock.Any(), ts, timesheet.StatusDraft).Return(nil)

	got, err := timesheet.NewService(repo).UpdateHours(context.Background(), tenantID, ts.ID, timesheet.DailyHours{"mon": 4}, nil)
	require.NoError(t, err)

	assert.True(t, got.TotalHours.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "keep", got.Notes)
}
