package directory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/timepulse/internal/directory"
)

func TestService_CreateEmployee(t *testing.T) {
	tenantID := uuid.New()

	type testCase struct {
		name      string
		input     directory.Employee
		setupMock func(m *directory.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Success",
			input: directory.Employee{FirstName: "Jane", LastName: "Doe", HourlyRate: new(decimal.NewFromInt(60))},
			setupMock: func(m *directory.MockRepository) {
				m.EXPECT().
					CreateEmployee(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *directory.Employee) error {
						assert.Equal(t, tenantID, e.TenantID)
						e.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "MissingName",
			input:   directory.Employee{FirstName: "Jane"},
			wantErr: directory.ErrInvalid,
		},
		{
			name:    "NegativeRate",
			input:   directory.Employee{FirstName: "Jane", LastName: "Doe", HourlyRate: new(decimal.NewFromInt(-1))},
			wantErr: directory.ErrInvalid,
		},
		{
			name:  "RepoError",
			input: directory.Employee{FirstName: "Jane", LastName: "Doe"},
			setupMock: func(m *directory.MockRepository) {
				m.EXPECT().CreateEmployee(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := directory.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := directory.NewService(repo)
			got, err := svc.CreateEmployee(context.Background(), tenantID, tt.input)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, directory.ErrInvalid) {
					assert.ErrorIs(t, err, directory.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_CreateClientDefaultsPaymentTerms(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := directory.NewMockRepository(ctrl)

	repo.EXPECT().
		CreateClient(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *directory.Client) error {
			assert.Equal(t, 30, c.PaymentTerms)
			return nil
		})

	_, err := directory.NewService(repo).CreateClient(context.Background(), uuid.New(), directory.Client{ClientName: "Acme"})
	require.NoError(t, err)
}

func TestService_CreateVendorRequiresName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := directory.NewMockRepository(ctrl)

	_, err := directory.NewService(repo).CreateVendor(context.Background(), uuid.New(), directory.Vendor{Name: "  "})
	assert.ErrorIs(t, err, directory.ErrInvalid)
}
