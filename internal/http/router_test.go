package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/timepulse/internal/auth"
	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	tphttp "github.com/MrJamesThe3rd/timepulse/internal/http"
	dirHandler "github.com/MrJamesThe3rd/timepulse/internal/http/directory"
	invoiceHandler "github.com/MrJamesThe3rd/timepulse/internal/http/invoice"
	tsHandler "github.com/MrJamesThe3rd/timepulse/internal/http/timesheet"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
)

var secret = []byte("router-secret")

func TestRouter(t *testing.T) {
	ctrl := gomock.NewController(t)

	var (
		dirRepo   = directory.NewMockRepository(ctrl)
		tsService = timesheet.NewService(timesheet.NewMockRepository(ctrl))
		dirSvc    = directory.NewService(dirRepo)
		invSvc    = invoice.NewService(invoice.NewMockRepository(ctrl), tsService, dirSvc)
	)

	router := tphttp.New(
		tphttp.Options{JWTSecret: secret, AllowedOrigins: []string{"http://localhost:3000"}},
		tsHandler.NewHandler(tsService, invSvc),
		invoiceHandler.NewHandler(invSvc),
		dirHandler.NewHandler(dirSvc),
	)

	claims := auth.Claims{TenantID: uuid.New(), UserID: uuid.New()}
	token, err := auth.Sign(secret, claims, time.Hour)
	assert.NoError(t, err)

	dirRepo.EXPECT().ListVendors(gomock.Any(), claims.TenantID).Return(nil, nil)

	tests := []struct {
		name   string
		method string
		target string
		token  string
		want   int
	}{
		{name: "Health", method: http.MethodGet, target: "/healthz", want: http.StatusOK},
		{name: "Metrics", method: http.MethodGet, target: "/metrics", want: http.StatusOK},
		{name: "NoToken", method: http.MethodGet, target: "/api/v1/invoices/", want: http.StatusUnauthorized},
		{name: "PublicNeedsNoToken", method: http.MethodGet, target: "/api/v1/public/invoices/abc", want: http.StatusNotFound},
		{name: "Authenticated", method: http.MethodGet, target: "/api/v1/vendors/", token: token, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
