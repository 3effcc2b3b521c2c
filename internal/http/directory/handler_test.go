package directory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/timepulse/internal/auth"
	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	dirHandler "github.com/MrJamesThe3rd/timepulse/internal/http/directory"
)

func setup(t *testing.T) (*directory.MockRepository, chi.Router, uuid.UUID) {
	t.Helper()

	repo := directory.NewMockRepository(gomock.NewController(t))
	h := dirHandler.NewHandler(directory.NewService(repo))
	tenantID := uuid.New()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithClaims(req.Context(), auth.Claims{TenantID: tenantID, UserID: uuid.New()})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/employees", h.EmployeeRoutes)
	r.Route("/clients", h.ClientRoutes)
	r.Route("/vendors", h.VendorRoutes)
	r.Route("/partners", h.PartnerRoutes)

	return repo, r, tenantID
}

func do(r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_CreateEmployee(t *testing.T) {
	repo, r, tenantID := setup(t)

	repo.EXPECT().
		CreateEmployee(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *directory.Employee) error {
			assert.Equal(t, tenantID, e.TenantID)
			assert.True(t, e.HourlyRate.Equal(decimal.NewFromInt(60)))
			e.ID = uuid.New()
			return nil
		})

	rec := do(r, http.MethodPost, "/employees/", `{"first_name":"Jane","last_name":"Doe","hourly_rate":"60"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Jane", resp["first_name"])
	assert.Equal(t, "60", resp["hourly_rate"])

	rec = do(r, http.MethodPost, "/employees/", `{"first_name":"Jane"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_GetAndList(t *testing.T) {
	repo, r, tenantID := setup(t)
	clientID := uuid.New()
	missing := uuid.New()

	repo.EXPECT().GetClient(gomock.Any(), tenantID, clientID).
		Return(&directory.Client{ID: clientID, ClientName: "Acme", PaymentTerms: 30}, nil)
	repo.EXPECT().GetVendor(gomock.Any(), tenantID, missing).Return(nil, directory.ErrNotFound)
	repo.EXPECT().ListPartners(gomock.Any(), tenantID).
		Return([]*directory.ImplementationPartner{{Name: "Bridge"}, {Name: "Span"}}, nil)

	rec := do(r, http.MethodGet, "/clients/"+clientID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"client_name":"Acme"`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/vendors/"+missing.String(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/vendors/nope", "").Code)

	rec = do(r, http.MethodGet, "/partners/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var partners []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &partners))
	assert.Len(t, partners, 2)
}

func TestHandler_DeleteEmployee(t *testing.T) {
	repo, r, tenantID := setup(t)
	id := uuid.New()
	busy := uuid.New()

	repo.EXPECT().DeleteEmployee(gomock.Any(), tenantID, id).Return(nil)
	repo.EXPECT().DeleteEmployee(gomock.Any(), tenantID, busy).Return(directory.ErrInUse)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/employees/"+id.String(), "").Code)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodDelete, "/employees/"+busy.String(), "").Code)
}
