package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=directory
type Repository interface {
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]*Employee, error)
	DeleteEmployee(ctx context.Context, tenantID, id uuid.UUID) error

	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, tenantID uuid.UUID) ([]*Client, error)

	CreateVendor(ctx context.Context, v *Vendor) error
	GetVendor(ctx context.Context, tenantID, id uuid.UUID) (*Vendor, error)
	ListVendors(ctx context.Context, tenantID uuid.UUID) ([]*Vendor, error)

	CreatePartner(ctx context.Context, p *ImplementationPartner) error
	GetPartner(ctx context.Context, tenantID, id uuid.UUID) (*ImplementationPartner, error)
	ListPartners(ctx context.Context, tenantID uuid.UUID) ([]*ImplementationPartner, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateEmployee(ctx context.Context, tenantID uuid.UUID, e Employee) (*Employee, error) {
	if strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrInvalid)
	}

	if e.HourlyRate != nil && e.HourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalid)
	}

	e.TenantID = tenantID
	if err := s.repo.CreateEmployee(ctx, &e); err != nil {
		return nil, err
	}

	return &e, nil
}

func (s *Service) GetEmployee(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error) {
	return s.repo.GetEmployee(ctx, tenantID, id)
}

func (s *Service) ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]*Employee, error) {
	return s.repo.ListEmployees(ctx, tenantID)
}

// DeleteEmployee removes the employee and, through the schema, their timesheets.
func (s *Service) DeleteEmployee(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.DeleteEmployee(ctx, tenantID, id)
}

func (s *Service) CreateClient(ctx context.Context, tenantID uuid.UUID, c Client) (*Client, error) {
	if strings.TrimSpace(c.ClientName) == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalid)
	}

	if c.HourlyRate != nil && c.HourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalid)
	}

	if c.PaymentTerms == 0 {
		c.PaymentTerms = 30
	}

	c.TenantID = tenantID
	if err := s.repo.CreateClient(ctx, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Service) GetClient(ctx context.Context, tenantID, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, tenantID, id)
}

func (s *Service) ListClients(ctx context.Context, tenantID uuid.UUID) ([]*Client, error) {
	return s.repo.ListClients(ctx, tenantID)
}

func (s *Service) CreateVendor(ctx context.Context, tenantID uuid.UUID, v Vendor) (*Vendor, error) {
	if strings.TrimSpace(v.Name) == "" {
		return nil, fmt.Errorf("%w: vendor name is required", ErrInvalid)
	}

	if v.PaymentTerms == 0 {
		v.PaymentTerms = 30
	}

	v.TenantID = tenantID
	if err := s.repo.CreateVendor(ctx, &v); err != nil {
		return nil, err
	}

	return &v, nil
}

func (s *Service) GetVendor(ctx context.Context, tenantID, id uuid.UUID) (*Vendor, error) {
	return s.repo.GetVendor(ctx, tenantID, id)
}

func (s *Service) ListVendors(ctx context.Context, tenantID uuid.UUID) ([]*Vendor, error) {
	return s.repo.ListVendors(ctx, tenantID)
}

func (s *Service) CreatePartner(ctx context.Context, tenantID uuid.UUID, p ImplementationPartner) (*ImplementationPartner, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: partner name is required", ErrInvalid)
	}

	p.TenantID = tenantID
	if err := s.repo.CreatePartner(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Service) GetPartner(ctx context.Context, tenantID, id uuid.UUID) (*ImplementationPartner, error) {
	return s.repo.GetPartner(ctx, tenantID, id)
}

func (s *Service) ListPartners(ctx context.Context, tenantID uuid.UUID) ([]*ImplementationPartner, error) {
	return s.repo.ListPartners(ctx, tenantID)
}
