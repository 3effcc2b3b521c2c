package invoice_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/timepulse/internal/auth"
	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	invoiceHandler "github.com/MrJamesThe3rd/timepulse/internal/http/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

var clock = time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	repo       *invoice.MockRepository
	gtx        *invoice.MockGenerateTx
	timesheets *invoice.MockTimesheets
	dir        *invoice.MockDirectory
	router     chi.Router
	claims     auth.Claims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:       invoice.NewMockRepository(ctrl),
		gtx:        invoice.NewMockGenerateTx(ctrl),
		timesheets: invoice.NewMockTimesheets(ctrl),
		dir:        invoice.NewMockDirectory(ctrl),
		claims:     auth.Claims{TenantID: uuid.New(), UserID: uuid.New()},
	}
	f.gtx.EXPECT().Rollback().Return(nil).AnyTimes()

	svc := invoice.NewService(f.repo, f.timesheets, f.dir, invoice.WithClock(func() time.Time { return clock }))
	h := invoiceHandler.NewHandler(svc)

	f.router = chi.NewRouter()
	f.router.Route("/public/invoices", h.PublicRoutes)
	f.router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), f.claims)))
			})
		})
		r.Route("/invoices", h.Routes)
	})

	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func approvedSheet(tenantID, employeeID uuid.UUID) *timesheet.Timesheet {
	start := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

	ts := &timesheet.Timesheet{
		ID:         uuid.New(),
		TenantID:   tenantID,
		EmployeeID: employeeID,
		WeekStart:  start,
		WeekEnd:    start.AddDate(0, 0, 6),
		Status:     timesheet.StatusApproved,
	}
	ts.SetHours(timesheet.DailyHours{"mon": 8, "tue": 8, "wed": 8, "thu": 8, "fri": 8})

	return ts
}

func storedInvoice(tenantID uuid.UUID) *invoice.Invoice {
	day := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	return &invoice.Invoice{
		ID:            uuid.New(),
		TenantID:      tenantID,
		InvoiceNumber: "INV-2025-00001",
		InvoiceHash:   "0123456789abcdef0123456789abcdef",
		TimesheetID:   uuid.New(),
		EmployeeID:    uuid.New(),
		InvoiceDate:   day,
		DueDate:       day.AddDate(0, 0, 30),
		LineItems: []invoice.LineItem{{
			Description: "Timesheet for Jane Doe - Jan 06, 2025 - Jan 12, 2025",
			Hours:       decimal.NewFromInt(40),
			Rate:        decimal.NewFromInt(60),
			Amount:      decimal.NewFromInt(2400),
		}},
		Subtotal:      decimal.NewFromInt(2400),
		TaxAmount:     decimal.Zero,
		TotalAmount:   decimal.NewFromInt(2400),
		Status:        invoice.StatusActive,
		PaymentStatus: invoice.PaymentPending,
	}
}

func TestHandler_Generate(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		f := newFixture(t)
		emp := &directory.Employee{ID: uuid.New(), FirstName: "Jane", LastName: "Doe", HourlyRate: new(decimal.NewFromInt(60))}
		ts := approvedSheet(f.claims.TenantID, emp.ID)

		f.timesheets.EXPECT().Get(gomock.Any(), f.claims.TenantID, ts.ID).Return(ts, nil)
		f.repo.EXPECT().BeginGenerate(gomock.Any(), f.claims.TenantID).Return(f.gtx, nil)
		f.gtx.EXPECT().FindByTimesheet(gomock.Any(), f.claims.TenantID, ts.ID).Return(nil, invoice.ErrNotFound)
		f.dir.EXPECT().GetEmployee(gomock.Any(), f.claims.TenantID, emp.ID).Return(emp, nil)
		f.gtx.EXPECT().LatestNumber(gomock.Any(), f.claims.TenantID, "INV-2025-").Return("INV-2025-00041", nil)
		f.gtx.EXPECT().
			CreateInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
				inv.ID = uuid.New()
				return nil
			})
		f.gtx.EXPECT().Commit().Return(nil)

		rec := f.do(http.MethodPost, "/invoices/generate", `{"timesheet_id":"`+ts.ID.String()+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Outcome string `json:"outcome"`
			Invoice struct {
				InvoiceNumber string `json:"invoice_number"`
				TotalAmount   string `json:"total_amount"`
				DueDate       string `json:"due_date"`
				CreatedBy     string `json:"created_by"`
			} `json:"invoice"`
			Employee struct {
				Name string `json:"name"`
			} `json:"employee"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "created", resp.Outcome)
		assert.Equal(t, "INV-2025-00042", resp.Invoice.InvoiceNumber)
		assert.Equal(t, "2400", resp.Invoice.TotalAmount)
		assert.Equal(t, "2025-02-14", resp.Invoice.DueDate)
		assert.Equal(t, f.claims.UserID.String(), resp.Invoice.CreatedBy)
		assert.Equal(t, "Jane Doe", resp.Employee.Name)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		f := newFixture(t)
		ts := approvedSheet(f.claims.TenantID, uuid.New())
		existing := storedInvoice(f.claims.TenantID)

		f.timesheets.EXPECT().Get(gomock.Any(), f.claims.TenantID, ts.ID).Return(ts, nil)
		f.repo.EXPECT().BeginGenerate(gomock.Any(), f.claims.TenantID).Return(f.gtx, nil)
		f.gtx.EXPECT().FindByTimesheet(gomock.Any(), f.claims.TenantID, ts.ID).Return(existing, nil)

		rec := f.do(http.MethodPost, "/invoices/generate", `{"timesheet_id":"`+ts.ID.String()+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"outcome":"already_exists"`)
	})

	t.Run("Rejections", func(t *testing.T) {
		f := newFixture(t)
		draft := approvedSheet(f.claims.TenantID, uuid.New())
		draft.Status = timesheet.StatusSubmitted
		missing := uuid.New()

		f.timesheets.EXPECT().Get(gomock.Any(), f.claims.TenantID, draft.ID).Return(draft, nil)
		f.timesheets.EXPECT().Get(gomock.Any(), f.claims.TenantID, missing).Return(nil, timesheet.ErrNotFound)

		assert.Equal(t, http.StatusUnprocessableEntity,
			f.do(http.MethodPost, "/invoices/generate", `{"timesheet_id":"`+draft.ID.String()+`"}`).Code)
		assert.Equal(t, http.StatusNotFound,
			f.do(http.MethodPost, "/invoices/generate", `{"timesheet_id":"`+missing.String()+`"}`).Code)
		assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/invoices/generate", `{}`).Code)
	})
}

func TestHandler_CheckTimesheet(t *testing.T) {
	f := newFixture(t)
	free := uuid.New()
	inv := storedInvoice(f.claims.TenantID)

	f.repo.EXPECT().GetByTimesheet(gomock.Any(), f.claims.TenantID, free).Return(nil, invoice.ErrNotFound)
	f.repo.EXPECT().GetByTimesheet(gomock.Any(), f.claims.TenantID, inv.TimesheetID).Return(inv, nil)

	rec := f.do(http.MethodGet, "/invoices/check-timesheet/"+free.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":false}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/invoices/check-timesheet/"+inv.TimesheetID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"exists":true`)
	assert.Contains(t, rec.Body.String(), inv.InvoiceNumber)
}

func TestHandler_PDF(t *testing.T) {
	f := newFixture(t)
	inv := storedInvoice(f.claims.TenantID)

	f.repo.EXPECT().GetInvoice(gomock.Any(), f.claims.TenantID, inv.ID).Return(inv, nil)
	f.dir.EXPECT().GetEmployee(gomock.Any(), f.claims.TenantID, inv.EmployeeID).
		Return(&directory.Employee{ID: inv.EmployeeID, FirstName: "Jane", LastName: "Doe"}, nil)
	f.timesheets.EXPECT().Get(gomock.Any(), f.claims.TenantID, inv.TimesheetID).Return(nil, timesheet.ErrNotFound)

	rec := f.do(http.MethodGet, "/invoices/"+inv.ID.String()+"/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "INV-2025-00001.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestHandler_ApproveRejected(t *testing.T) {
	f := newFixture(t)
	inv := storedInvoice(f.claims.TenantID)
	inv.Status = invoice.StatusRejected

	f.repo.EXPECT().GetInvoice(gomock.Any(), f.claims.TenantID, inv.ID).Return(inv, nil)

	rec := f.do(http.MethodPost, "/invoices/"+inv.ID.String()+"/approve", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_UpdatePayment(t *testing.T) {
	f := newFixture(t)
	inv := storedInvoice(f.claims.TenantID)

	f.repo.EXPECT().GetInvoice(gomock.Any(), f.claims.TenantID, inv.ID).Return(inv, nil)
	f.repo.EXPECT().UpdateInvoice(gomock.Any(), inv, invoice.StatusActive).Return(nil)

	rec := f.do(http.MethodPatch, "/invoices/"+inv.ID.String()+"/payment",
		`{"payment_status":"paid","payment_date":"2025-01-20","payment_method":"wire"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment_date":"2025-01-20"`)

	rec = f.do(http.MethodPatch, "/invoices/"+inv.ID.String()+"/payment", `{"payment_status":"lost"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodPatch, "/invoices/"+inv.ID.String()+"/payment", `{"payment_status":"paid","payment_date":"20/01/2025"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_PublicLookup(t *testing.T) {
	f := newFixture(t)
	inv := storedInvoice(f.claims.TenantID)

	f.repo.EXPECT().GetByHash(gomock.Any(), inv.InvoiceHash).Return(inv, nil)

	rec := f.do(http.MethodGet, "/public/invoices/"+inv.InvoiceHash, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), inv.InvoiceNumber)
	assert.NotContains(t, rec.Body.String(), f.claims.TenantID.String())
	assert.NotContains(t, rec.Body.String(), inv.EmployeeID.String())

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/public/invoices/short", "").Code)
}
